package repositories

import (
	"context"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
	"github.com/shopspring/decimal"
)

// SalesReader defines read operations for sale records.
type SalesReader interface {
	// FindSaleByID retrieves one sale record by its store key.
	FindSaleByID(ctx context.Context, saleID string) (*domain.SaleRecord, error)

	// ListSales retrieves every sale record in timestamp order. Visibility
	// filtering is the service's job, not the repository's.
	ListSales(ctx context.Context) ([]domain.SaleRecord, error)
}

// SalesWriter defines write operations for sale records.
type SalesWriter interface {
	// SaveSale persists a new sale record under a generated key and returns
	// the key.
	SaveSale(ctx context.Context, sale domain.SaleRecord) (string, error)

	// UpdateSaleItems overwrites only the mutable field group of a saved
	// sale: items, total and market. Everything else is untouched.
	UpdateSaleItems(ctx context.Context, saleID string, items domain.SaleItems, total decimal.Decimal, market string) error

	// DeleteSale removes the record.
	DeleteSale(ctx context.Context, saleID string) error
}

// SalesSubscriber delivers live snapshots of the whole sales collection.
type SalesSubscriber interface {
	SubscribeSales(ctx context.Context, onChange func([]domain.SaleRecord)) (store.Unsubscribe, error)
}

// SalesRepositoryFacade combines all sale repository interfaces.
type SalesRepositoryFacade interface {
	SalesReader
	SalesWriter
	SalesSubscriber
}
