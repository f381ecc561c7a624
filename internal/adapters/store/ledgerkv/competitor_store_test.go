package ledgerkv_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsledger/ops_ledger_app/internal/adapters/store/ledgerkv"
	"github.com/opsledger/ops_ledger_app/internal/adapters/store/memory"
	"github.com/opsledger/ops_ledger_app/internal/core/domain"
)

func TestTemplatesAreScopedPerEmployee(t *testing.T) {
	store := ledgerkv.NewCompetitorStore(memory.NewStore())
	ctx := context.Background()

	saras := domain.CompetitorTemplate{
		Username: "sara", Market: "Central Market", Company: "Fine",
		Items: []domain.PriceItem{{Category: domain.CategoryFacial, Name: "Rival Facial", Price: decimal.NewFromInt(8)}},
	}
	omars := domain.CompetitorTemplate{
		Username: "omar", Market: "Central Market", Company: "Fine",
		Items: []domain.PriceItem{{Category: domain.CategoryToilet, Name: "Rival Roll", Price: decimal.NewFromInt(2)}},
	}
	require.NoError(t, store.SaveTemplate(ctx, saras))
	require.NoError(t, store.SaveTemplate(ctx, omars))

	got, err := store.FindTemplate(ctx, "sara", "Central Market", "Fine")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Rival Facial", got.Items[0].Name)

	got, err = store.FindTemplate(ctx, "omar", "Central Market", "Fine")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Rival Roll", got.Items[0].Name)
}

func TestTemplateKeysSurvivePathHostileNames(t *testing.T) {
	store := ledgerkv.NewCompetitorStore(memory.NewStore())
	ctx := context.Background()

	tpl := domain.CompetitorTemplate{
		Username: "sara", Market: "Souq / East #2", Company: "Al.Wataniya [Ltd]",
		Items: []domain.PriceItem{{Category: domain.CategoryKitchen, Name: "Towel", Price: decimal.NewFromInt(4)}},
	}
	require.NoError(t, store.SaveTemplate(ctx, tpl))

	got, err := store.FindTemplate(ctx, "sara", "Souq / East #2", "Al.Wataniya [Ltd]")
	require.NoError(t, err)
	require.NotNil(t, got)
	// the caller's names come back verbatim even though the path was escaped
	assert.Equal(t, "Souq / East #2", got.Market)
	assert.Equal(t, "Al.Wataniya [Ltd]", got.Company)
	require.Len(t, got.Items, 1)
}

func TestFindTemplateAbsentReturnsNil(t *testing.T) {
	store := ledgerkv.NewCompetitorStore(memory.NewStore())

	got, err := store.FindTemplate(context.Background(), "sara", "Central Market", "Fine")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListReportsFiltersByMarketAndCompany(t *testing.T) {
	store := ledgerkv.NewCompetitorStore(memory.NewStore())
	ctx := context.Background()

	reports := []domain.CompetitorReport{
		{Market: "Central Market", Company: "Fine", EmployeeName: "Sara", Timestamp: 1},
		{Market: "Central Market", Company: "Selpak", EmployeeName: "Sara", Timestamp: 2},
		{Market: "North Souq", Company: "Fine", EmployeeName: "Omar", Timestamp: 3},
	}
	for _, r := range reports {
		_, err := store.SaveReport(ctx, r)
		require.NoError(t, err)
	}

	all, err := store.ListReports(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	central, err := store.ListReports(ctx, "Central Market", "")
	require.NoError(t, err)
	assert.Len(t, central, 2)

	fineAtCentral, err := store.ListReports(ctx, "Central Market", "Fine")
	require.NoError(t, err)
	require.Len(t, fineAtCentral, 1)
	assert.Equal(t, "Sara", fineAtCentral[0].EmployeeName)
}

func TestUpdateReportItemsKeepsIdentity(t *testing.T) {
	store := ledgerkv.NewCompetitorStore(memory.NewStore())
	ctx := context.Background()

	key, err := store.SaveReport(ctx, domain.CompetitorReport{
		Market: "Central Market", Company: "Fine", EmployeeName: "Sara", Date: "2025-03-01", Timestamp: 10,
		Items: []domain.PriceItem{{Category: domain.CategoryFacial, Name: "Rival Facial", Price: decimal.NewFromInt(8)}},
	})
	require.NoError(t, err)

	newItems := []domain.PriceItem{{Category: domain.CategoryFacial, Name: "Rival Facial", Price: decimal.NewFromInt(9)}}
	require.NoError(t, store.UpdateReportItems(ctx, key, newItems))

	got, err := store.FindReportByID(ctx, key)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(9).Equal(got.Items[0].Price))
	assert.Equal(t, "Sara", got.EmployeeName)
	assert.Equal(t, "2025-03-01", got.Date)
}
