package services

import (
	"context"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	portsrepo "github.com/opsledger/ops_ledger_app/internal/core/ports/repositories"
	"github.com/opsledger/ops_ledger_app/internal/dto"
)

// CatalogSvcFacade resolves the fixed product catalogs and the editable
// market/company name lists.
type CatalogSvcFacade interface {
	// ProductCatalog returns the compiled-in category to product-name lists.
	ProductCatalog() map[domain.Category][]string

	// ListEntries retrieves the named collection, seeding it from the
	// compiled-in fallback when the remote collection is empty.
	ListEntries(ctx context.Context, kind portsrepo.CatalogKind) ([]domain.CatalogEntry, error)

	// AddEntry appends a name. Duplicates are the caller's problem; the
	// resolver never dedupes. Admin only.
	AddEntry(ctx context.Context, viewer domain.Viewer, kind portsrepo.CatalogKind, req dto.CatalogEntryRequest) (*domain.CatalogEntry, error)

	// RenameEntry edits one entry in place. Admin only.
	RenameEntry(ctx context.Context, viewer domain.Viewer, kind portsrepo.CatalogKind, key string, req dto.CatalogEntryRequest) error

	// DeleteEntry removes one entry without disturbing siblings. Admin only.
	DeleteEntry(ctx context.Context, viewer domain.Viewer, kind portsrepo.CatalogKind, key string) error
}
