package services

import (
	"context"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
	"github.com/opsledger/ops_ledger_app/internal/dto"
)

// InventoryReaderSvc defines read operations for the inventory ledger.
type InventoryReaderSvc interface {
	// BuildBlankSession produces one zeroed row per fixed-catalog product.
	BuildBlankSession() []domain.InventoryItem

	ListInventory(ctx context.Context, viewer domain.Viewer) ([]domain.InventoryRecord, error)

	ExportRows(ctx context.Context, viewer domain.Viewer) ([][]string, error)
}

// InventoryWriterSvc defines write operations for the inventory ledger.
type InventoryWriterSvc interface {
	// SaveInventory validates and persists a count, dropping zero-qty rows.
	// The returned session keeps ad-hoc row names with quantities reset.
	SaveInventory(ctx context.Context, viewer domain.Viewer, req dto.SaveInventoryRequest) (*domain.InventoryRecord, []domain.InventoryItem, error)

	// UpdateInventory applies post-save quantity-only edits. Admin or author
	// only.
	UpdateInventory(ctx context.Context, viewer domain.Viewer, recordID string, req dto.UpdateInventoryRequest) (*domain.InventoryRecord, error)

	DeleteInventory(ctx context.Context, viewer domain.Viewer, recordID string) error
}

// InventoryStreamerSvc pushes viewer-filtered live snapshots.
type InventoryStreamerSvc interface {
	SubscribeInventory(ctx context.Context, viewer domain.Viewer, onChange func([]domain.InventoryRecord)) (store.Unsubscribe, error)
}

// InventorySvcFacade combines all inventory ledger service interfaces.
type InventorySvcFacade interface {
	InventoryReaderSvc
	InventoryWriterSvc
	InventoryStreamerSvc
}
