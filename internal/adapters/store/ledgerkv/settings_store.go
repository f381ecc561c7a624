package ledgerkv

import (
	"context"
	"errors"
	"fmt"

	"github.com/opsledger/ops_ledger_app/internal/apperrors"
	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	portsrepo "github.com/opsledger/ops_ledger_app/internal/core/ports/repositories"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
)

// SettingsStore persists the app-settings singleton.
type SettingsStore struct {
	rs store.RemoteStore
}

var _ portsrepo.SettingsRepository = (*SettingsStore)(nil)

// NewSettingsStore creates a settings repository over the remote store.
func NewSettingsStore(rs store.RemoteStore) *SettingsStore {
	return &SettingsStore{rs: rs}
}

func (s *SettingsStore) FindSettings(ctx context.Context) (*domain.AppSettings, error) {
	raw, err := s.rs.Read(ctx, settingsPath)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	return decodeOne[domain.AppSettings](raw)
}

func (s *SettingsStore) SaveSettings(ctx context.Context, settings domain.AppSettings) error {
	if err := s.rs.Write(ctx, settingsPath, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
