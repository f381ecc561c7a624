package ledgerkv_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsledger/ops_ledger_app/internal/adapters/store/ledgerkv"
	"github.com/opsledger/ops_ledger_app/internal/adapters/store/memory"
	"github.com/opsledger/ops_ledger_app/internal/apperrors"
	"github.com/opsledger/ops_ledger_app/internal/core/domain"
)

func saleFixture(market string, ts int64) domain.SaleRecord {
	return domain.SaleRecord{
		Market:       market,
		EmployeeName: "Sara",
		RecordedBy:   "sara",
		Date:         "2025-03-01",
		Timestamp:    ts,
		Items: domain.SaleItems{
			{Name: "Facial 550", Category: domain.CategoryFacial, Price: decimal.NewFromInt(10), Qty: 2},
		},
		Total: decimal.NewFromInt(20),
	}
}

func TestSalesStoreSaveAndFind(t *testing.T) {
	store := ledgerkv.NewSalesStore(memory.NewStore())
	ctx := context.Background()

	key, err := store.SaveSale(ctx, saleFixture("Central Market", 100))
	require.NoError(t, err)
	require.NotEmpty(t, key)

	got, err := store.FindSaleByID(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, key, got.ID)
	assert.Equal(t, "Central Market", got.Market)
	assert.Equal(t, "sara", got.RecordedBy)
	assert.True(t, decimal.NewFromInt(20).Equal(got.Total))
}

func TestSalesStoreFindAbsent(t *testing.T) {
	store := ledgerkv.NewSalesStore(memory.NewStore())

	_, err := store.FindSaleByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSalesStoreListOrdersByTimestamp(t *testing.T) {
	store := ledgerkv.NewSalesStore(memory.NewStore())
	ctx := context.Background()

	_, err := store.SaveSale(ctx, saleFixture("North Souq", 300))
	require.NoError(t, err)
	_, err = store.SaveSale(ctx, saleFixture("Central Market", 100))
	require.NoError(t, err)

	records, err := store.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Central Market", records[0].Market)
	assert.Equal(t, "North Souq", records[1].Market)
}

func TestSalesStoreUpdateTouchesOnlyMutableFields(t *testing.T) {
	store := ledgerkv.NewSalesStore(memory.NewStore())
	ctx := context.Background()

	key, err := store.SaveSale(ctx, saleFixture("Central Market", 100))
	require.NoError(t, err)

	newItems := domain.SaleItems{
		{Name: "Toilet Roll x4", Category: domain.CategoryToilet, Price: decimal.NewFromInt(3), Qty: 5},
	}
	require.NoError(t, store.UpdateSaleItems(ctx, key, newItems, decimal.NewFromInt(15), "North Souq"))

	got, err := store.FindSaleByID(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "North Souq", got.Market)
	assert.True(t, decimal.NewFromInt(15).Equal(got.Total))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Toilet Roll x4", got.Items[0].Name)

	// immutable identity survives the edit
	assert.Equal(t, "Sara", got.EmployeeName)
	assert.Equal(t, "sara", got.RecordedBy)
	assert.Equal(t, int64(100), got.Timestamp)
	assert.Equal(t, "2025-03-01", got.Date)
}

func TestSalesStoreDelete(t *testing.T) {
	store := ledgerkv.NewSalesStore(memory.NewStore())
	ctx := context.Background()

	key, err := store.SaveSale(ctx, saleFixture("Central Market", 100))
	require.NoError(t, err)

	require.NoError(t, store.DeleteSale(ctx, key))

	_, err = store.FindSaleByID(ctx, key)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	records, err := store.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}
