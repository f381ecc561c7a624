package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opsledger/ops_ledger_app/internal/apperrors"
	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	portsrepo "github.com/opsledger/ops_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/opsledger/ops_ledger_app/internal/core/ports/services"
	"github.com/opsledger/ops_ledger_app/internal/dto"
	"github.com/opsledger/ops_ledger_app/internal/middleware"
	"github.com/opsledger/ops_ledger_app/internal/utils"
)

// UserService manages operator accounts and login.
type UserService struct {
	repo portsrepo.UserRepository
}

var _ portssvc.UserSvcFacade = (*UserService)(nil)

// NewUserService creates a user service.
func NewUserService(repo portsrepo.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.Viewer, error) {
	user, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrForbidden)
	}
	viewer := user.Viewer()
	return &viewer, nil
}

func (s *UserService) CreateUser(ctx context.Context, viewer domain.Viewer, req dto.CreateUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !viewer.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may create users", apperrors.ErrForbidden)
	}
	existing, err := s.repo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %q", apperrors.ErrDuplicate, req.Username)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := domain.User{
		Username:        req.Username,
		Name:            req.Name,
		Role:            domain.Role(req.Role),
		CanViewAllSales: req.CanViewAllSales,
		PasswordHash:    hash,
	}
	if err := s.repo.SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save user", slog.String("error", err.Error()), slog.String("new_username", req.Username))
		return nil, err
	}
	logger.Info("User created", slog.String("new_username", req.Username), slog.String("role", req.Role))
	user.PasswordHash = ""
	return &user, nil
}

func (s *UserService) ListUsers(ctx context.Context, viewer domain.Viewer) ([]domain.User, error) {
	if !viewer.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may list users", apperrors.ErrForbidden)
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *UserService) UpdateUser(ctx context.Context, viewer domain.Viewer, username string, req dto.UpdateUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !viewer.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may update users", apperrors.ErrForbidden)
	}
	user, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrNotFound
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = domain.Role(*req.Role)
	}
	if req.CanViewAllSales != nil {
		user.CanViewAllSales = *req.CanViewAllSales
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.repo.SaveUser(ctx, *user); err != nil {
		logger.Error("Failed to update user", slog.String("error", err.Error()), slog.String("target_username", username))
		return nil, err
	}
	logger.Info("User updated", slog.String("target_username", username))
	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, viewer domain.Viewer, username string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !viewer.IsAdmin() {
		return fmt.Errorf("%w: only admins may delete users", apperrors.ErrForbidden)
	}
	if viewer.Username == username {
		return fmt.Errorf("%w: admins cannot delete their own account", apperrors.ErrValidation)
	}
	if err := s.repo.DeleteUser(ctx, username); err != nil {
		return err
	}
	logger.Info("User deleted", slog.String("target_username", username))
	return nil
}

// EnsureSeedAdmin creates the configured admin account when the user
// collection is empty, so a fresh store is reachable.
func (s *UserService) EnsureSeedAdmin(ctx context.Context, username, password, name string) error {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash seed admin password: %w", err)
	}
	return s.repo.SaveUser(ctx, domain.User{
		Username:        username,
		Name:            name,
		Role:            domain.RoleAdmin,
		CanViewAllSales: true,
		PasswordHash:    hash,
	})
}
