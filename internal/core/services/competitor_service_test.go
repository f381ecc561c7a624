package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/opsledger/ops_ledger_app/internal/apperrors"
	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	portssvc "github.com/opsledger/ops_ledger_app/internal/core/ports/services"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
	"github.com/opsledger/ops_ledger_app/internal/core/services"
	"github.com/opsledger/ops_ledger_app/internal/dto"
)

// --- Mock CompetitorRepositoryFacade ---
type MockCompetitorRepository struct {
	mock.Mock
}

func (m *MockCompetitorRepository) FindTemplate(ctx context.Context, username, market, company string) (*domain.CompetitorTemplate, error) {
	args := m.Called(ctx, username, market, company)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompetitorTemplate), args.Error(1)
}

func (m *MockCompetitorRepository) SaveTemplate(ctx context.Context, tpl domain.CompetitorTemplate) error {
	args := m.Called(ctx, tpl)
	return args.Error(0)
}

func (m *MockCompetitorRepository) DeleteTemplate(ctx context.Context, username, market, company string) error {
	args := m.Called(ctx, username, market, company)
	return args.Error(0)
}

func (m *MockCompetitorRepository) FindReportByID(ctx context.Context, reportID string) (*domain.CompetitorReport, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompetitorReport), args.Error(1)
}

func (m *MockCompetitorRepository) ListReports(ctx context.Context, market, company string) ([]domain.CompetitorReport, error) {
	args := m.Called(ctx, market, company)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CompetitorReport), args.Error(1)
}

func (m *MockCompetitorRepository) SaveReport(ctx context.Context, report domain.CompetitorReport) (string, error) {
	args := m.Called(ctx, report)
	return args.String(0), args.Error(1)
}

func (m *MockCompetitorRepository) UpdateReportItems(ctx context.Context, reportID string, items []domain.PriceItem) error {
	args := m.Called(ctx, reportID, items)
	return args.Error(0)
}

func (m *MockCompetitorRepository) DeleteReport(ctx context.Context, reportID string) error {
	args := m.Called(ctx, reportID)
	return args.Error(0)
}

func (m *MockCompetitorRepository) SubscribeReports(ctx context.Context, onChange func([]domain.CompetitorReport)) (store.Unsubscribe, error) {
	args := m.Called(ctx, onChange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Unsubscribe), args.Error(1)
}

// --- Test Suite ---
type CompetitorServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCompetitorRepository
	service  portssvc.CompetitorSvcFacade
	sara     domain.Viewer
	admin    domain.Viewer
}

func (suite *CompetitorServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCompetitorRepository)
	fixedNow := func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	suite.service = services.NewCompetitorService(suite.mockRepo, fixedNow)
	suite.sara = domain.Viewer{Username: "sara", Name: "Sara", Role: domain.RoleUser}
	suite.admin = domain.Viewer{Username: "boss", Name: "Boss", Role: domain.RoleAdmin}
}

func (suite *CompetitorServiceTestSuite) TestGetTemplate_EmptyWhenAbsent() {
	ctx := context.Background()
	suite.mockRepo.On("FindTemplate", ctx, "sara", "Central Market", "SoftCo").Return(nil, nil).Once()

	tpl, err := suite.service.GetTemplate(ctx, suite.sara, "Central Market", "SoftCo")

	suite.Require().NoError(err)
	suite.Equal("sara", tpl.Username)
	suite.Equal("Central Market", tpl.Market)
	suite.Equal("SoftCo", tpl.Company)
	suite.NotNil(tpl.Items)
	suite.Empty(tpl.Items)
}

func (suite *CompetitorServiceTestSuite) TestGetTemplate_RequiresPair() {
	_, err := suite.service.GetTemplate(context.Background(), suite.sara, "", "SoftCo")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.GetTemplate(context.Background(), suite.sara, "Central Market", "")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CompetitorServiceTestSuite) TestPutTemplateItems_RequiresPair() {
	_, err := suite.service.PutTemplateItems(context.Background(), suite.sara, dto.PutTemplateRequest{
		Company: "SoftCo",
		Items:   []dto.TemplateItemInput{{Category: "FACIAL", Name: "Rival Facial"}},
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.PutTemplateItems(context.Background(), suite.sara, dto.PutTemplateRequest{
		Market: "Central Market",
		Items:  []dto.TemplateItemInput{{Category: "FACIAL", Name: "Rival Facial"}},
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTemplate", mock.Anything, mock.Anything)
}

func (suite *CompetitorServiceTestSuite) TestUpsertTemplateItem_AppendsWhenIndexNilOrPastEnd() {
	ctx := context.Background()
	existing := &domain.CompetitorTemplate{
		Username: "sara", Market: "Central Market", Company: "SoftCo",
		Items: []domain.PriceItem{{Category: domain.CategoryFacial, Name: "Rival Facial", Price: decimal.NewFromInt(9)}},
	}
	suite.mockRepo.On("FindTemplate", ctx, "sara", "Central Market", "SoftCo").Return(existing, nil).Once()
	suite.mockRepo.On("SaveTemplate", ctx, mock.MatchedBy(func(tpl domain.CompetitorTemplate) bool {
		return len(tpl.Items) == 2 && tpl.Items[1].Name == "Rival Toilet"
	})).Return(nil).Once()

	past := 7
	tpl, err := suite.service.UpsertTemplateItem(ctx, suite.sara, dto.UpsertTemplateItemRequest{
		Market:  "Central Market",
		Company: "SoftCo",
		Index:   &past,
		Item:    dto.TemplateItemInput{Category: "TOILET", Name: "Rival Toilet", Price: decimal.NewFromInt(3)},
	})

	suite.Require().NoError(err)
	suite.Len(tpl.Items, 2)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CompetitorServiceTestSuite) TestUpsertTemplateItem_ReplacesInPlace() {
	ctx := context.Background()
	existing := &domain.CompetitorTemplate{
		Username: "sara", Market: "Central Market", Company: "SoftCo",
		Items: []domain.PriceItem{
			{Category: domain.CategoryFacial, Name: "Rival Facial", Price: decimal.NewFromInt(9)},
			{Category: domain.CategoryToilet, Name: "Rival Toilet", Price: decimal.NewFromInt(3)},
		},
	}
	suite.mockRepo.On("FindTemplate", ctx, "sara", "Central Market", "SoftCo").Return(existing, nil).Once()
	suite.mockRepo.On("SaveTemplate", ctx, mock.MatchedBy(func(tpl domain.CompetitorTemplate) bool {
		return len(tpl.Items) == 2 && tpl.Items[0].Price.Equal(decimal.NewFromInt(11))
	})).Return(nil).Once()

	idx := 0
	tpl, err := suite.service.UpsertTemplateItem(ctx, suite.sara, dto.UpsertTemplateItemRequest{
		Market:  "Central Market",
		Company: "SoftCo",
		Index:   &idx,
		Item:    dto.TemplateItemInput{Category: "FACIAL", Name: "Rival Facial", Price: decimal.NewFromInt(11)},
	})

	suite.Require().NoError(err)
	suite.True(tpl.Items[0].Price.Equal(decimal.NewFromInt(11)))
}

func (suite *CompetitorServiceTestSuite) TestDeleteTemplateItem_IndexOutOfRange() {
	ctx := context.Background()
	existing := &domain.CompetitorTemplate{
		Username: "sara", Market: "Central Market", Company: "SoftCo",
		Items:    []domain.PriceItem{{Category: domain.CategoryFacial, Name: "Rival Facial"}},
	}
	suite.mockRepo.On("FindTemplate", ctx, "sara", "Central Market", "SoftCo").Return(existing, nil).Once()

	_, err := suite.service.DeleteTemplateItem(ctx, suite.sara, dto.DeleteTemplateItemRequest{
		Market:  "Central Market",
		Company: "SoftCo",
		Index:   1,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTemplate", mock.Anything, mock.Anything)
}

func (suite *CompetitorServiceTestSuite) TestPostReport_KeepsOnlyPricedNamedRows() {
	ctx := context.Background()
	existing := &domain.CompetitorTemplate{
		Username: "sara", Market: "Central Market", Company: "SoftCo",
		Items: []domain.PriceItem{
			{Category: domain.CategoryFacial, Name: "Rival Facial", Price: decimal.NewFromInt(9)},
			{Category: domain.CategoryToilet, Name: "", Price: decimal.NewFromInt(3)},
			{Category: domain.CategoryToilet, Name: "Unpriced Row", Price: decimal.Zero},
		},
	}
	suite.mockRepo.On("FindTemplate", ctx, "sara", "Central Market", "SoftCo").Return(existing, nil).Once()
	suite.mockRepo.On("SaveReport", ctx, mock.MatchedBy(func(r domain.CompetitorReport) bool {
		return len(r.Items) == 1 && r.Items[0].Name == "Rival Facial" &&
			r.EmployeeName == "Sara" && r.RecordedBy == "sara" && r.Date == "2025-03-01"
	})).Return("rep-1", nil).Once()

	report, err := suite.service.PostReport(ctx, suite.sara, dto.PostReportRequest{Market: "Central Market", Company: "SoftCo"})

	suite.Require().NoError(err)
	suite.Equal("rep-1", report.ID)
	suite.Len(report.Items, 1)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CompetitorServiceTestSuite) TestPostReport_EmptyTemplateRejected() {
	ctx := context.Background()
	suite.mockRepo.On("FindTemplate", ctx, "sara", "Central Market", "SoftCo").Return(nil, nil).Once()

	_, err := suite.service.PostReport(ctx, suite.sara, dto.PostReportRequest{Market: "Central Market", Company: "SoftCo"})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveReport", mock.Anything, mock.Anything)
}

func (suite *CompetitorServiceTestSuite) TestUpdateReportPrices_ByAuthor() {
	ctx := context.Background()
	stored := &domain.CompetitorReport{
		ID: "rep-1", RecordedBy: "sara", EmployeeName: "Sara",
		Items: []domain.PriceItem{
			{Category: domain.CategoryFacial, Name: "Rival Facial", Price: decimal.NewFromInt(9)},
			{Category: domain.CategoryToilet, Name: "Rival Toilet", Price: decimal.NewFromInt(3)},
		},
	}
	suite.mockRepo.On("FindReportByID", ctx, "rep-1").Return(stored, nil).Once()
	suite.mockRepo.On("UpdateReportItems", ctx, "rep-1", mock.MatchedBy(func(items []domain.PriceItem) bool {
		return items[1].Price.Equal(decimal.NewFromInt(4)) && items[0].Price.Equal(decimal.NewFromInt(9))
	})).Return(nil).Once()

	report, err := suite.service.UpdateReportPrices(ctx, suite.sara, "rep-1", dto.UpdateReportPricesRequest{
		Prices: []dto.ReportPriceUpdate{{Index: 1, Price: decimal.NewFromInt(4)}},
	})

	suite.Require().NoError(err)
	suite.True(report.Items[1].Price.Equal(decimal.NewFromInt(4)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CompetitorServiceTestSuite) TestUpdateReportPrices_RejectsBadEdits() {
	ctx := context.Background()
	stored := &domain.CompetitorReport{
		ID: "rep-1", RecordedBy: "sara",
		Items: []domain.PriceItem{{Category: domain.CategoryFacial, Name: "Rival Facial", Price: decimal.NewFromInt(9)}},
	}

	suite.mockRepo.On("FindReportByID", ctx, "rep-1").Return(stored, nil).Twice()

	_, err := suite.service.UpdateReportPrices(ctx, suite.sara, "rep-1", dto.UpdateReportPricesRequest{
		Prices: []dto.ReportPriceUpdate{{Index: 5, Price: decimal.NewFromInt(4)}},
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.UpdateReportPrices(ctx, suite.sara, "rep-1", dto.UpdateReportPricesRequest{
		Prices: []dto.ReportPriceUpdate{{Index: 0, Price: decimal.Zero}},
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateReportItems", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CompetitorServiceTestSuite) TestUpdateReportPrices_DeniedForNonAuthor() {
	ctx := context.Background()
	stored := &domain.CompetitorReport{ID: "rep-1", RecordedBy: "omar", EmployeeName: "Omar"}
	suite.mockRepo.On("FindReportByID", ctx, "rep-1").Return(stored, nil).Once()

	_, err := suite.service.UpdateReportPrices(ctx, suite.sara, "rep-1", dto.UpdateReportPricesRequest{
		Prices: []dto.ReportPriceUpdate{{Index: 0, Price: decimal.NewFromInt(4)}},
	})

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *CompetitorServiceTestSuite) TestDeleteReport_AdminOverride() {
	ctx := context.Background()
	stored := &domain.CompetitorReport{ID: "rep-1", RecordedBy: "omar"}
	suite.mockRepo.On("FindReportByID", ctx, "rep-1").Return(stored, nil).Once()
	suite.mockRepo.On("DeleteReport", ctx, "rep-1").Return(nil).Once()

	suite.NoError(suite.service.DeleteReport(ctx, suite.admin, "rep-1"))
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestCompetitorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CompetitorServiceTestSuite))
}
