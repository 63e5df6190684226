package repomanager

import (
	"context"
	"sync"
	"time"

	"github.com/dkovalev/accountd/internal/common"
	"github.com/dkovalev/accountd/internal/dbx"
	"github.com/dkovalev/accountd/internal/server/models"
	"github.com/dkovalev/accountd/internal/server/repositories/tokens"
	"github.com/dkovalev/accountd/internal/server/repositories/users"
)

// InMemoryRepositoryManager backs the repositories with mutex-guarded maps.
// It upholds the same invariants as the Postgres implementation (unique
// emails, one token per user) and is used by tests and local development.
type InMemoryRepositoryManager struct {
	users  *inMemoryUsersRepository
	tokens *inMemoryTokensRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:  &inMemoryUsersRepository{byID: make(map[int64]*models.User)},
		tokens: &inMemoryTokensRepository{byUser: make(map[int64]*models.Token)},
	}
}

func (m *InMemoryRepositoryManager) DB() dbx.DBTX { return nil }

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository { return m.users }

func (m *InMemoryRepositoryManager) Tokens(db dbx.DBTX) tokens.Repository { return m.tokens }

func (m *InMemoryRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	// no transactional isolation in memory; each repo call is atomic
	return fn(ctx, nil)
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

type inMemoryUsersRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
}

func (r *inMemoryUsersRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, common.ErrorEmailTaken
		}
	}

	r.nextID++
	stored := *user
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	r.byID[stored.ID] = &stored

	clone := stored
	return &clone, nil
}

func (r *inMemoryUsersRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *inMemoryUsersRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *inMemoryUsersRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[user.ID]
	if !ok {
		return common.ErrorNotFound
	}
	for id, u := range r.byID {
		if id != user.ID && u.Email == user.Email {
			return common.ErrorEmailTaken
		}
	}

	updated := *user
	updated.LastLogin = stored.LastLogin
	updated.CreatedAt = stored.CreatedAt
	r.byID[user.ID] = &updated
	return nil
}

func (r *inMemoryUsersRepository) SetLastLogin(ctx context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.LastLogin.Time = at
	u.LastLogin.Valid = true
	return nil
}

func (r *inMemoryUsersRepository) List(ctx context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*models.User, 0, len(r.byID))
	for id := int64(1); id <= r.nextID; id++ {
		if u, ok := r.byID[id]; ok {
			clone := *u
			result = append(result, &clone)
		}
	}
	return result, nil
}

type inMemoryTokensRepository struct {
	mu     sync.Mutex
	byUser map[int64]*models.Token
}

func (r *inMemoryTokensRepository) GetOrCreate(ctx context.Context, userID int64, candidateKey string) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.byUser[userID]; ok {
		clone := *t
		return &clone, nil
	}

	t := &models.Token{Key: candidateKey, UserID: userID, CreatedAt: time.Now()}
	r.byUser[userID] = t
	clone := *t
	return &clone, nil
}

func (r *inMemoryTokensRepository) FindUser(ctx context.Context, key string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.byUser {
		if t.Key == key {
			return t.UserID, nil
		}
	}
	return 0, common.ErrorNotFound
}
