package services

import (
	"context"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	"github.com/opsledger/ops_ledger_app/internal/dto"
)

// UserSvcFacade manages operator accounts and login.
type UserSvcFacade interface {
	// Authenticate verifies credentials and returns the viewer identity, or
	// apperrors.ErrForbidden on mismatch.
	Authenticate(ctx context.Context, username, password string) (*domain.Viewer, error)

	// CreateUser registers a new operator account. Admin only.
	CreateUser(ctx context.Context, viewer domain.Viewer, req dto.CreateUserRequest) (*domain.User, error)

	// ListUsers retrieves all accounts without password hashes. Admin only.
	ListUsers(ctx context.Context, viewer domain.Viewer) ([]domain.User, error)

	// UpdateUser edits an account's display name, role, flags or password.
	// Admin only.
	UpdateUser(ctx context.Context, viewer domain.Viewer, username string, req dto.UpdateUserRequest) (*domain.User, error)

	// DeleteUser removes an account. Admin only.
	DeleteUser(ctx context.Context, viewer domain.Viewer, username string) error

	// EnsureSeedAdmin creates the configured admin account when the user
	// collection is empty, so a fresh store is reachable.
	EnsureSeedAdmin(ctx context.Context, username, password, name string) error
}
