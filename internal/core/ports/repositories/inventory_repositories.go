package repositories

import (
	"context"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
)

// InventoryReader defines read operations for inventory count records.
type InventoryReader interface {
	FindInventoryByID(ctx context.Context, recordID string) (*domain.InventoryRecord, error)
	ListInventory(ctx context.Context) ([]domain.InventoryRecord, error)
}

// InventoryWriter defines write operations for inventory count records.
type InventoryWriter interface {
	// SaveInventory persists a new count record under a generated key and
	// returns the key. Callers must have already dropped zero-qty rows.
	SaveInventory(ctx context.Context, record domain.InventoryRecord) (string, error)

	// UpdateInventoryItems overwrites only the item rows of a saved record.
	UpdateInventoryItems(ctx context.Context, recordID string, items []domain.InventoryItem) error

	DeleteInventory(ctx context.Context, recordID string) error
}

// InventorySubscriber delivers live snapshots of the inventory collection.
type InventorySubscriber interface {
	SubscribeInventory(ctx context.Context, onChange func([]domain.InventoryRecord)) (store.Unsubscribe, error)
}

// InventoryRepositoryFacade combines all inventory repository interfaces.
type InventoryRepositoryFacade interface {
	InventoryReader
	InventoryWriter
	InventorySubscriber
}
