package repositories

import (
	"context"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
)

// SettingsRepository manages the app-settings singleton.
type SettingsRepository interface {
	// FindSettings retrieves the singleton, or nil when it has never been
	// written.
	FindSettings(ctx context.Context) (*domain.AppSettings, error)

	SaveSettings(ctx context.Context, settings domain.AppSettings) error
}
