package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkovalev/accountd/internal/common"
	"github.com/dkovalev/accountd/internal/dbx"
	"github.com/dkovalev/accountd/internal/server/models"
)

// PostgresRepository implements the token store over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetOrCreate inserts candidateKey for userID unless the user already has a
// token, then reads back whichever key won. ON CONFLICT DO NOTHING keeps the
// insert race-free under the unique user_id constraint.
func (r *PostgresRepository) GetOrCreate(ctx context.Context, userID int64, candidateKey string) (*models.Token, error) {
	insert := `
		INSERT INTO auth_tokens (key, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insert, candidateKey, userID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	query := `
		SELECT key, user_id, created_at
		FROM auth_tokens
		WHERE user_id = $1
	`
	token := &models.Token{}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&token.Key, &token.UserID, &token.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return token, nil
}

// FindUser returns the owning user id for the given token key.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) FindUser(ctx context.Context, key string) (int64, error) {
	query := `
		SELECT user_id
		FROM auth_tokens
		WHERE key = $1
	`
	var userID int64
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return userID, nil
}
