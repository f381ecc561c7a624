package services

import (
	"context"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	"github.com/opsledger/ops_ledger_app/internal/dto"
)

// SettingsSvcFacade manages the app-settings singleton.
type SettingsSvcFacade interface {
	// GetSettings returns the singleton, falling back to defaults when it
	// has never been written.
	GetSettings(ctx context.Context) (*domain.AppSettings, error)

	// UpdateSettings overwrites the singleton. Admin only.
	UpdateSettings(ctx context.Context, viewer domain.Viewer, req dto.UpdateSettingsRequest) (*domain.AppSettings, error)
}
