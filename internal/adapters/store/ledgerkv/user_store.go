package ledgerkv

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/opsledger/ops_ledger_app/internal/apperrors"
	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	portsrepo "github.com/opsledger/ops_ledger_app/internal/core/ports/repositories"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
)

// UserStore persists operator accounts keyed by escaped username.
type UserStore struct {
	rs store.RemoteStore
}

var _ portsrepo.UserRepository = (*UserStore)(nil)

// NewUserStore creates a user repository over the remote store.
func NewUserStore(rs store.RemoteStore) *UserStore {
	return &UserStore{rs: rs}
}

func userPath(username string) string {
	return join(usersPath, EscapeKey(username))
}

func (s *UserStore) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	raw, err := s.rs.Read(ctx, userPath(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read user %s: %w", username, err)
	}
	return decodeOne[domain.User](raw)
}

func (s *UserStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	raw, err := s.rs.Read(ctx, usersPath)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.User{}, nil
		}
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	byKey, err := decodeMap[domain.User](raw)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(byKey))
	for _, u := range byKey {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users, nil
}

func (s *UserStore) SaveUser(ctx context.Context, user domain.User) error {
	if err := s.rs.Write(ctx, userPath(user.Username), user); err != nil {
		return fmt.Errorf("failed to save user %s: %w", user.Username, err)
	}
	return nil
}

func (s *UserStore) DeleteUser(ctx context.Context, username string) error {
	if err := s.rs.Delete(ctx, userPath(username)); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", username, err)
	}
	return nil
}
