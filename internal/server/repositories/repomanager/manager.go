// Package repomanager hands out repository instances bound to a database
// handle and owns schema migrations. Services depend on this interface so
// tests can swap in fakes.
package repomanager

import (
	"context"

	"github.com/dkovalev/accountd/internal/dbx"
	"github.com/dkovalev/accountd/internal/server/repositories/tokens"
	"github.com/dkovalev/accountd/internal/server/repositories/users"
)

type RepositoryManager interface {
	// DB returns the manager's non-transactional handle.
	DB() dbx.DBTX

	// Users and Tokens build repositories over the given handle, which may
	// be the manager's own DB() or a transaction from InTx.
	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository

	// InTx runs fn inside a single transaction.
	InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error

	// RunMigrations brings the schema up to date.
	RunMigrations(ctx context.Context) error
}
