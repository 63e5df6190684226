// Package users declares the repository contract for the user store.
package users

import (
	"context"
	"time"

	"github.com/dkovalev/accountd/internal/server/models"
)

// Repository defines CRUD operations over persisted user records. Emails
// passed in are expected to be normalized already; the unique index on the
// email column is the last line of defense against duplicate registrations.
type Repository interface {
	// Create inserts a new user and returns it with its assigned id.
	// A duplicate email yields common.ErrorEmailTaken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the given normalized email, or
	// common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// Update persists the mutable fields of the given user.
	// A duplicate email yields common.ErrorEmailTaken.
	Update(ctx context.Context, user *models.User) error

	// SetLastLogin records a successful authentication time.
	SetLastLogin(ctx context.Context, id int64, at time.Time) error

	// List returns all users ordered by id.
	List(ctx context.Context) ([]*models.User, error)
}
