// Package tokens declares the repository contract for the opaque bearer
// tokens issued to users.
package tokens

import (
	"context"

	"github.com/dkovalev/accountd/internal/server/models"
)

// Repository manages the one-token-per-user credential store.
type Repository interface {
	// GetOrCreate returns the user's token, inserting candidateKey if none
	// exists yet. Concurrent calls for the same user all observe the same
	// key; the unique constraint on user_id decides the winner.
	GetOrCreate(ctx context.Context, userID int64, candidateKey string) (*models.Token, error)

	// FindUser resolves a token key to its owning user id, or
	// common.ErrorNotFound.
	FindUser(ctx context.Context, key string) (int64, error)
}
