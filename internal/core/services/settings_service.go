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
)

// SettingsService manages the app-settings singleton.
type SettingsService struct {
	repo portsrepo.SettingsRepository
}

var _ portssvc.SettingsSvcFacade = (*SettingsService)(nil)

// NewSettingsService creates a settings service.
func NewSettingsService(repo portsrepo.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

func (s *SettingsService) GetSettings(ctx context.Context) (*domain.AppSettings, error) {
	settings, err := s.repo.FindSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		def := domain.DefaultAppSettings()
		return &def, nil
	}
	return settings, nil
}

func (s *SettingsService) UpdateSettings(ctx context.Context, viewer domain.Viewer, req dto.UpdateSettingsRequest) (*domain.AppSettings, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !viewer.IsAdmin() {
		logger.Warn("Settings update denied", slog.String("username", viewer.Username))
		return nil, fmt.Errorf("%w: only admins may change settings", apperrors.ErrForbidden)
	}

	settings := domain.AppSettings{
		AppName:       req.AppName,
		TickerText:    req.TickerText,
		TickerEnabled: req.TickerEnabled,
		ContactNumber: req.ContactNumber,
		Permissions:   req.Permissions,
	}
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		logger.Error("Failed to save settings", slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Settings updated")
	return &settings, nil
}
