package repositories

import (
	"context"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
)

// UserRepository defines persistence for operator login accounts.
type UserRepository interface {
	// FindUserByUsername retrieves a user, or nil when unknown.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	ListUsers(ctx context.Context) ([]domain.User, error)

	// SaveUser creates or overwrites a user keyed by username.
	SaveUser(ctx context.Context, user domain.User) error

	DeleteUser(ctx context.Context, username string) error
}
