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

// CatalogService resolves the fixed product catalogs and the editable
// market/company lists, seeding the latter on first use.
type CatalogService struct {
	repo portsrepo.CatalogRepository
}

var _ portssvc.CatalogSvcFacade = (*CatalogService)(nil)

// NewCatalogService creates a catalog resolver.
func NewCatalogService(repo portsrepo.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ProductCatalog returns the compiled-in category to product-name lists.
func (s *CatalogService) ProductCatalog() map[domain.Category][]string {
	return domain.ProductCatalog
}

// ListEntries retrieves the named collection; an empty remote collection is
// seeded from the compiled-in fallback list first.
func (s *CatalogService) ListEntries(ctx context.Context, kind portsrepo.CatalogKind) ([]domain.CatalogEntry, error) {
	entries, err := s.repo.ListEntries(ctx, kind)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		return entries, nil
	}
	return s.seed(ctx, kind)
}

func (s *CatalogService) seed(ctx context.Context, kind portsrepo.CatalogKind) ([]domain.CatalogEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	fallback := domain.DefaultMarkets
	if kind == portsrepo.CatalogCompanies {
		fallback = domain.DefaultCompanies
	}
	seeded := make([]domain.CatalogEntry, 0, len(fallback))
	for _, name := range fallback {
		entry, err := s.repo.AddEntry(ctx, kind, name)
		if err != nil {
			return nil, fmt.Errorf("failed to seed %s: %w", kind, err)
		}
		seeded = append(seeded, *entry)
	}
	logger.Info("Seeded catalog from fallback list", slog.String("kind", string(kind)), slog.Int("entries", len(seeded)))
	return seeded, nil
}

func (s *CatalogService) AddEntry(ctx context.Context, viewer domain.Viewer, kind portsrepo.CatalogKind, req dto.CatalogEntryRequest) (*domain.CatalogEntry, error) {
	if !viewer.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may edit catalogs", apperrors.ErrForbidden)
	}
	return s.repo.AddEntry(ctx, kind, req.Name)
}

func (s *CatalogService) RenameEntry(ctx context.Context, viewer domain.Viewer, kind portsrepo.CatalogKind, key string, req dto.CatalogEntryRequest) error {
	if !viewer.IsAdmin() {
		return fmt.Errorf("%w: only admins may edit catalogs", apperrors.ErrForbidden)
	}
	return s.repo.RenameEntry(ctx, kind, key, req.Name)
}

func (s *CatalogService) DeleteEntry(ctx context.Context, viewer domain.Viewer, kind portsrepo.CatalogKind, key string) error {
	if !viewer.IsAdmin() {
		return fmt.Errorf("%w: only admins may edit catalogs", apperrors.ErrForbidden)
	}
	return s.repo.DeleteEntry(ctx, kind, key)
}
