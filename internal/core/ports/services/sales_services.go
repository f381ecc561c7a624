package services

import (
	"context"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
	"github.com/opsledger/ops_ledger_app/internal/dto"
)

// SalesReaderSvc defines read operations for the sales ledger.
type SalesReaderSvc interface {
	// BuildBlankSession produces one zeroed row per fixed-catalog product
	// across all four categories.
	BuildBlankSession() domain.SaleItems

	// ListSales retrieves the sale records the viewer may see, in timestamp
	// order.
	ListSales(ctx context.Context, viewer domain.Viewer) ([]domain.SaleRecord, error)

	// ExportRows projects the viewer-visible records onto flat uniform rows
	// (header first) for the external CSV exporter.
	ExportRows(ctx context.Context, viewer domain.Viewer) ([][]string, error)
}

// SalesWriterSvc defines write operations for the sales ledger.
type SalesWriterSvc interface {
	// SaveSale validates and persists a new sale, returning the record and
	// the reset session rows for the next entry.
	SaveSale(ctx context.Context, viewer domain.Viewer, req dto.SaveSaleRequest) (*domain.SaleRecord, domain.SaleItems, error)

	// UpdateSale applies post-save item edits, recomputing the total as
	// price times quantity. Admin or author only.
	UpdateSale(ctx context.Context, viewer domain.Viewer, saleID string, req dto.UpdateSaleRequest) (*domain.SaleRecord, error)

	// DeleteSale removes a record. Admin or author only.
	DeleteSale(ctx context.Context, viewer domain.Viewer, saleID string) error
}

// SalesStreamerSvc pushes viewer-filtered live snapshots.
type SalesStreamerSvc interface {
	SubscribeSales(ctx context.Context, viewer domain.Viewer, onChange func([]domain.SaleRecord)) (store.Unsubscribe, error)
}

// SalesSvcFacade combines all sales ledger service interfaces.
type SalesSvcFacade interface {
	SalesReaderSvc
	SalesWriterSvc
	SalesStreamerSvc
}
