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

// --- Mock LeaveRepositoryFacade ---
type MockLeaveRepository struct {
	mock.Mock
}

func (m *MockLeaveRepository) FindBalance(ctx context.Context, employeeID string) (*domain.LeaveBalance, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeaveBalance), args.Error(1)
}

func (m *MockLeaveRepository) ListBalances(ctx context.Context) ([]domain.LeaveBalance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaveBalance), args.Error(1)
}

func (m *MockLeaveRepository) ListHistory(ctx context.Context) ([]domain.LeaveHistoryEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaveHistoryEntry), args.Error(1)
}

func (m *MockLeaveRepository) SaveBalance(ctx context.Context, balance domain.LeaveBalance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

func (m *MockLeaveRepository) ApplyDebit(ctx context.Context, balance domain.LeaveBalance, entry domain.LeaveHistoryEntry) (string, error) {
	args := m.Called(ctx, balance, entry)
	return args.String(0), args.Error(1)
}

func (m *MockLeaveRepository) DeleteBalance(ctx context.Context, employeeID string) error {
	args := m.Called(ctx, employeeID)
	return args.Error(0)
}

func (m *MockLeaveRepository) SubscribeBalances(ctx context.Context, onChange func([]domain.LeaveBalance)) (store.Unsubscribe, error) {
	args := m.Called(ctx, onChange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Unsubscribe), args.Error(1)
}

// --- Test Suite ---
type LeaveServiceTestSuite struct {
	suite.Suite
	mockRepo *MockLeaveRepository
	service  portssvc.LeaveSvcFacade
	sara     domain.Viewer
	admin    domain.Viewer
}

func (suite *LeaveServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockLeaveRepository)
	fixedNow := func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	suite.service = services.NewLeaveService(suite.mockRepo, fixedNow)
	suite.sara = domain.Viewer{Username: "sara", Name: "Sara", Role: domain.RoleUser}
	suite.admin = domain.Viewer{Username: "boss", Name: "Boss", Role: domain.RoleAdmin}
}

func grantReq(days int64) dto.GrantLeaveRequest {
	return dto.GrantLeaveRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Sara",
		Type:         string(domain.LeaveAnnual),
		Days:         decimal.NewFromInt(days),
		Date:         "2025-03-01",
	}
}

func (suite *LeaveServiceTestSuite) TestGrantLeave_CreatesDefaultBalanceOnFirstGrant() {
	ctx := context.Background()
	suite.mockRepo.On("FindBalance", ctx, "emp-1").Return(nil, nil).Once()
	suite.mockRepo.On("ApplyDebit", ctx,
		mock.MatchedBy(func(b domain.LeaveBalance) bool {
			return b.EmployeeID == "emp-1" && b.Annual.Equal(decimal.NewFromInt(18))
		}),
		mock.MatchedBy(func(e domain.LeaveHistoryEntry) bool {
			return e.EmployeeID == "emp-1" && e.Type == domain.LeaveAnnual && e.Days.Equal(decimal.NewFromInt(3))
		}),
	).Return("hist-1", nil).Once()

	balance, entry, err := suite.service.GrantLeave(ctx, suite.sara, grantReq(3))

	suite.Require().NoError(err)
	suite.True(balance.Annual.Equal(decimal.NewFromInt(18)))
	suite.Equal("hist-1", entry.ID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LeaveServiceTestSuite) TestGrantLeave_OverdraftNeedsConfirmation() {
	ctx := context.Background()
	low := domain.LeaveBalance{EmployeeID: "emp-1", EmployeeName: "Sara", Annual: decimal.NewFromInt(2)}
	suite.mockRepo.On("FindBalance", ctx, "emp-1").Return(&low, nil).Once()

	_, _, err := suite.service.GrantLeave(ctx, suite.sara, grantReq(3))

	suite.ErrorIs(err, apperrors.ErrOverdraftConfirmation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyDebit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LeaveServiceTestSuite) TestGrantLeave_ConfirmedOverdraftGoesNegative() {
	ctx := context.Background()
	low := domain.LeaveBalance{EmployeeID: "emp-1", EmployeeName: "Sara", Annual: decimal.NewFromInt(2)}
	suite.mockRepo.On("FindBalance", ctx, "emp-1").Return(&low, nil).Once()
	suite.mockRepo.On("ApplyDebit", ctx,
		mock.MatchedBy(func(b domain.LeaveBalance) bool {
			return b.Annual.Equal(decimal.NewFromInt(-1))
		}),
		mock.Anything,
	).Return("hist-2", nil).Once()

	req := grantReq(3)
	req.ConfirmOverdraft = true
	balance, _, err := suite.service.GrantLeave(ctx, suite.sara, req)

	suite.Require().NoError(err)
	suite.True(balance.Annual.Equal(decimal.NewFromInt(-1)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LeaveServiceTestSuite) TestGrantLeave_SickNeverAsksForConfirmation() {
	ctx := context.Background()
	drained := domain.LeaveBalance{EmployeeID: "emp-1", EmployeeName: "Sara", Sick: decimal.Zero}
	suite.mockRepo.On("FindBalance", ctx, "emp-1").Return(&drained, nil).Once()
	suite.mockRepo.On("ApplyDebit", ctx,
		mock.MatchedBy(func(b domain.LeaveBalance) bool {
			return b.Sick.Equal(decimal.NewFromInt(-5))
		}),
		mock.Anything,
	).Return("hist-3", nil).Once()

	req := grantReq(5)
	req.Type = string(domain.LeaveSick)
	balance, _, err := suite.service.GrantLeave(ctx, suite.sara, req)

	suite.Require().NoError(err)
	suite.True(balance.Sick.Equal(decimal.NewFromInt(-5)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LeaveServiceTestSuite) TestGrantLeave_NonAdminCannotTargetOthers() {
	req := grantReq(1)
	req.EmployeeName = "Omar"

	_, _, err := suite.service.GrantLeave(context.Background(), suite.sara, req)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindBalance", mock.Anything, mock.Anything)
}

func (suite *LeaveServiceTestSuite) TestGrantLeave_NonAdminCannotDebitForeignBalance() {
	// the request carries the viewer's own display name but someone else's
	// employee id; the stored owner of the balance decides
	ctx := context.Background()
	foreign := domain.LeaveBalance{EmployeeID: "emp-omar", EmployeeName: "Omar", Annual: decimal.NewFromInt(20)}
	suite.mockRepo.On("FindBalance", ctx, "emp-omar").Return(&foreign, nil).Once()

	req := grantReq(5)
	req.EmployeeID = "emp-omar"
	_, _, err := suite.service.GrantLeave(ctx, suite.sara, req)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyDebit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LeaveServiceTestSuite) TestGrantLeave_AdminMayTargetAnyone() {
	ctx := context.Background()
	suite.mockRepo.On("FindBalance", ctx, "emp-1").Return(nil, nil).Once()
	suite.mockRepo.On("ApplyDebit", ctx, mock.Anything, mock.Anything).Return("hist-4", nil).Once()

	_, _, err := suite.service.GrantLeave(ctx, suite.admin, grantReq(1))

	suite.NoError(err)
}

func (suite *LeaveServiceTestSuite) TestGrantLeave_RejectsUnknownTypeAndNonPositiveDays() {
	req := grantReq(1)
	req.Type = "SABBATICAL"
	_, _, err := suite.service.GrantLeave(context.Background(), suite.sara, req)
	suite.ErrorIs(err, apperrors.ErrValidation)

	req = grantReq(0)
	_, _, err = suite.service.GrantLeave(context.Background(), suite.sara, req)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LeaveServiceTestSuite) TestSetBalance_AdminOnly() {
	ctx := context.Background()
	req := dto.SetBalanceRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Sara",
		Annual:       decimal.NewFromInt(30),
		Casual:       decimal.NewFromInt(7),
	}

	_, err := suite.service.SetBalance(ctx, suite.sara, req)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	suite.mockRepo.On("SaveBalance", ctx, mock.MatchedBy(func(b domain.LeaveBalance) bool {
		return b.Annual.Equal(decimal.NewFromInt(30)) && b.EmployeeID == "emp-1"
	})).Return(nil).Once()

	balance, err := suite.service.SetBalance(ctx, suite.admin, req)
	suite.Require().NoError(err)
	suite.True(balance.Annual.Equal(decimal.NewFromInt(30)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LeaveServiceTestSuite) TestDeleteBalance_AdminOnly() {
	ctx := context.Background()

	err := suite.service.DeleteBalance(ctx, suite.sara, "emp-1")
	suite.ErrorIs(err, apperrors.ErrForbidden)

	suite.mockRepo.On("DeleteBalance", ctx, "emp-1").Return(nil).Once()
	suite.NoError(suite.service.DeleteBalance(ctx, suite.admin, "emp-1"))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LeaveServiceTestSuite) TestListBalances_NameScopedForRegularUsers() {
	ctx := context.Background()
	balances := []domain.LeaveBalance{
		{EmployeeID: "emp-1", EmployeeName: "Sara"},
		{EmployeeID: "emp-2", EmployeeName: "Omar"},
	}
	suite.mockRepo.On("ListBalances", ctx).Return(balances, nil)

	mine, err := suite.service.ListBalances(ctx, suite.sara)
	suite.Require().NoError(err)
	suite.Len(mine, 1)
	suite.Equal("Sara", mine[0].EmployeeName)

	// CanViewAllSales widens sales visibility only, never leave
	wide := suite.sara
	wide.CanViewAllSales = true
	mine, err = suite.service.ListBalances(ctx, wide)
	suite.Require().NoError(err)
	suite.Len(mine, 1)
}

func (suite *LeaveServiceTestSuite) TestExportRows() {
	ctx := context.Background()
	entries := []domain.LeaveHistoryEntry{
		{EmployeeName: "Sara", Date: "2025-03-01", Type: domain.LeaveAnnual, Days: decimal.NewFromInt(2)},
	}
	suite.mockRepo.On("ListHistory", ctx).Return(entries, nil).Once()

	rows, err := suite.service.ExportRows(ctx, suite.admin)

	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)
	suite.Equal([]string{"Date", "Employee", "Type", "Days"}, rows[0])
	suite.Equal([]string{"2025-03-01", "Sara", string(domain.LeaveAnnual), "2"}, rows[1])
}

func TestLeaveServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LeaveServiceTestSuite))
}
