package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/opsledger/ops_ledger_app/internal/adapters/store/ledgerkv"
	"github.com/opsledger/ops_ledger_app/internal/adapters/store/memory"
	"github.com/opsledger/ops_ledger_app/internal/apperrors"
	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	portsrepo "github.com/opsledger/ops_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/opsledger/ops_ledger_app/internal/core/ports/services"
	"github.com/opsledger/ops_ledger_app/internal/core/services"
	"github.com/opsledger/ops_ledger_app/internal/dto"
)

// WorkdayScenarioTestSuite drives the full service stack over the in-memory
// store, the way one terminal day plays out: accounts, a sale, a leave grant
// with overdraft, a price survey and a stock count, with a second terminal
// watching the live stream.
type WorkdayScenarioTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	services *portssvc.ServiceContainer
	admin    domain.Viewer
	sara     domain.Viewer
	omar     domain.Viewer
}

func (suite *WorkdayScenarioTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()

	repos := portsrepo.RepositoryProvider{
		SalesRepo:      ledgerkv.NewSalesStore(suite.store),
		InventoryRepo:  ledgerkv.NewInventoryStore(suite.store),
		CompetitorRepo: ledgerkv.NewCompetitorStore(suite.store),
		LeaveRepo:      ledgerkv.NewLeaveStore(suite.store),
		CatalogRepo:    ledgerkv.NewCatalogStore(suite.store),
		SettingsRepo:   ledgerkv.NewSettingsStore(suite.store),
		UserRepo:       ledgerkv.NewUserStore(suite.store),
	}
	fixedNow := func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	suite.services = services.NewServiceContainer(repos, fixedNow)

	require.NoError(suite.T(), suite.services.User.EnsureSeedAdmin(suite.ctx, "admin", "changeme", "Administrator"))
	adminViewer, err := suite.services.User.Authenticate(suite.ctx, "admin", "changeme")
	require.NoError(suite.T(), err)
	suite.admin = *adminViewer

	for _, acc := range []struct{ username, name string }{
		{"sara", "Sara"},
		{"omar", "Omar"},
	} {
		_, err := suite.services.User.CreateUser(suite.ctx, suite.admin, dto.CreateUserRequest{
			Username: acc.username, Password: "secret9", Name: acc.name, Role: "USER",
		})
		require.NoError(suite.T(), err)
	}
	saraViewer, err := suite.services.User.Authenticate(suite.ctx, "sara", "secret9")
	require.NoError(suite.T(), err)
	suite.sara = *saraViewer
	omarViewer, err := suite.services.User.Authenticate(suite.ctx, "omar", "secret9")
	require.NoError(suite.T(), err)
	suite.omar = *omarViewer
}

func (suite *WorkdayScenarioTestSuite) TestSaleIsScopedAndStreamedLive() {
	// an admin terminal is already watching the sales stream
	snapshots := make(chan []domain.SaleRecord, 4)
	unsub, err := suite.services.Sales.SubscribeSales(suite.ctx, suite.admin, func(records []domain.SaleRecord) {
		snapshots <- records
	})
	suite.Require().NoError(err)
	defer unsub()

	select {
	case initial := <-snapshots:
		suite.Empty(initial)
	case <-time.After(time.Second):
		suite.FailNow("no initial snapshot")
	}

	record, session, err := suite.services.Sales.SaveSale(suite.ctx, suite.sara, dto.SaveSaleRequest{
		Market: "Central Market",
		Items: []dto.SaleItemInput{
			{Name: "Facial 550", Category: "FACIAL", Price: decimal.NewFromInt(10), Qty: 3},
		},
	})
	suite.Require().NoError(err)
	suite.True(record.Total.Equal(decimal.NewFromInt(30)))
	suite.True(session.RunningTotal().IsZero())

	// the watching terminal receives the new record without polling
	deadline := time.After(time.Second)
	for {
		select {
		case records := <-snapshots:
			if len(records) == 1 {
				suite.Equal(record.ID, records[0].ID)
				suite.True(records[0].Total.Equal(decimal.NewFromInt(30)))
			} else if len(records) > 1 {
				suite.FailNow("unexpected extra records in snapshot")
			} else {
				continue
			}
		case <-deadline:
			suite.FailNow("no snapshot with the saved sale")
		}
		break
	}

	// Sara sees her record, Omar sees nothing, the admin sees everything
	mine, err := suite.services.Sales.ListSales(suite.ctx, suite.sara)
	suite.Require().NoError(err)
	suite.Len(mine, 1)

	others, err := suite.services.Sales.ListSales(suite.ctx, suite.omar)
	suite.Require().NoError(err)
	suite.Empty(others)

	all, err := suite.services.Sales.ListSales(suite.ctx, suite.admin)
	suite.Require().NoError(err)
	suite.Len(all, 1)

	// Omar cannot edit Sara's sale; Sara can
	_, err = suite.services.Sales.UpdateSale(suite.ctx, suite.omar, record.ID, dto.UpdateSaleRequest{
		Market: "Central Market",
		Items:  []dto.SaleItemInput{{Name: "Facial 550", Category: "FACIAL", Price: decimal.NewFromInt(10), Qty: 1}},
	})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	updated, err := suite.services.Sales.UpdateSale(suite.ctx, suite.sara, record.ID, dto.UpdateSaleRequest{
		Market: "Central Market",
		Items:  []dto.SaleItemInput{{Name: "Facial 550", Category: "FACIAL", Price: decimal.NewFromInt(10), Qty: 1}},
	})
	suite.Require().NoError(err)
	suite.True(updated.Total.Equal(decimal.NewFromInt(10)))
}

func (suite *WorkdayScenarioTestSuite) TestLeaveOverdraftFlow() {
	req := dto.GrantLeaveRequest{
		EmployeeID:   "emp-sara",
		EmployeeName: "Sara",
		Type:         string(domain.LeaveAnnual),
		Days:         decimal.NewFromInt(20),
		Date:         "2025-03-01",
	}

	// first grant initializes the default balance and debits it
	balance, entry, err := suite.services.Leave.GrantLeave(suite.ctx, suite.sara, req)
	suite.Require().NoError(err)
	suite.True(balance.Annual.Equal(decimal.NewFromInt(1)))
	suite.NotEmpty(entry.ID)

	// three more days would cross zero; refused until confirmed
	req.Days = decimal.NewFromInt(3)
	_, _, err = suite.services.Leave.GrantLeave(suite.ctx, suite.sara, req)
	suite.ErrorIs(err, apperrors.ErrOverdraftConfirmation)

	req.ConfirmOverdraft = true
	balance, _, err = suite.services.Leave.GrantLeave(suite.ctx, suite.sara, req)
	suite.Require().NoError(err)
	suite.True(balance.Annual.Equal(decimal.NewFromInt(-2)))

	// both grants are in the history, balance and history never diverged
	history, err := suite.services.Leave.ListHistory(suite.ctx, suite.sara)
	suite.Require().NoError(err)
	suite.Len(history, 2)

	balances, err := suite.services.Leave.ListBalances(suite.ctx, suite.admin)
	suite.Require().NoError(err)
	suite.Require().Len(balances, 1)
	suite.True(balances[0].Annual.Equal(decimal.NewFromInt(-2)))
}

func (suite *WorkdayScenarioTestSuite) TestPriceSurveyRoundTrip() {
	// Sara fills her working template; it persists between terminal visits
	_, err := suite.services.Competitor.PutTemplateItems(suite.ctx, suite.sara, dto.PutTemplateRequest{
		Market:  "Central Market",
		Company: "SoftCo",
		Items: []dto.TemplateItemInput{
			{Category: "FACIAL", Name: "Rival Facial", Price: decimal.NewFromInt(9)},
			{Category: "TOILET", Name: ""}, // incomplete row stays in the template
		},
	})
	suite.Require().NoError(err)

	tpl, err := suite.services.Competitor.GetTemplate(suite.ctx, suite.sara, "Central Market", "SoftCo")
	suite.Require().NoError(err)
	suite.Len(tpl.Items, 2)

	// Omar's template for the same pair is untouched
	omarTpl, err := suite.services.Competitor.GetTemplate(suite.ctx, suite.omar, "Central Market", "SoftCo")
	suite.Require().NoError(err)
	suite.Empty(omarTpl.Items)

	// posting keeps only complete rows, and reports are shared knowledge
	report, err := suite.services.Competitor.PostReport(suite.ctx, suite.sara, dto.PostReportRequest{
		Market: "Central Market", Company: "SoftCo",
	})
	suite.Require().NoError(err)
	suite.Len(report.Items, 1)

	shared, err := suite.services.Competitor.ListReports(suite.ctx, "Central Market", "SoftCo")
	suite.Require().NoError(err)
	suite.Require().Len(shared, 1)
	suite.Equal("Sara", shared[0].EmployeeName)
}

func (suite *WorkdayScenarioTestSuite) TestInventoryCountPersistsOnlyCountedRows() {
	record, _, err := suite.services.Inventory.SaveInventory(suite.ctx, suite.sara, dto.SaveInventoryRequest{
		Market: "Central Market",
		Items: []dto.InventoryItemInput{
			{Name: "Facial 550", Category: "FACIAL", Qty: 12},
			{Name: "Toilet Roll x4", Category: "TOILET", Qty: 0},
			{Name: "Promo Pack", Category: "FACIAL", Qty: 2, AdHoc: true},
		},
	})
	suite.Require().NoError(err)
	suite.Len(record.Items, 2)

	found, err := suite.services.Inventory.ListInventory(suite.ctx, suite.sara)
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Len(found[0].Items, 2)
}

func TestWorkdayScenarioTestSuite(t *testing.T) {
	suite.Run(t, new(WorkdayScenarioTestSuite))
}
