package repositories

import (
	"context"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
)

// CatalogKind selects one of the two editable name collections.
type CatalogKind string

const (
	CatalogMarkets   CatalogKind = "markets"
	CatalogCompanies CatalogKind = "companies"
)

// CatalogRepository manages the mutable market and company name lists. Each
// entry is individually keyed so edits and deletes leave siblings alone.
// The repository never deduplicates names.
type CatalogRepository interface {
	ListEntries(ctx context.Context, kind CatalogKind) ([]domain.CatalogEntry, error)
	AddEntry(ctx context.Context, kind CatalogKind, name string) (*domain.CatalogEntry, error)
	RenameEntry(ctx context.Context, kind CatalogKind, key, name string) error
	DeleteEntry(ctx context.Context, kind CatalogKind, key string) error
}
