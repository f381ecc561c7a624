package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/opsledger/ops_ledger_app/internal/apperrors"
	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	portsrepo "github.com/opsledger/ops_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/opsledger/ops_ledger_app/internal/core/ports/services"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
	"github.com/opsledger/ops_ledger_app/internal/dto"
	"github.com/opsledger/ops_ledger_app/internal/middleware"
)

// LeaveService implements the leave balance ledger.
type LeaveService struct {
	repo portsrepo.LeaveRepositoryFacade
	now  domain.Clock
}

var _ portssvc.LeaveSvcFacade = (*LeaveService)(nil)

// NewLeaveService creates a leave ledger service. A nil clock defaults to
// time.Now.
func NewLeaveService(repo portsrepo.LeaveRepositoryFacade, now domain.Clock) *LeaveService {
	if now == nil {
		now = time.Now
	}
	return &LeaveService{repo: repo, now: now}
}

// GrantLeave debits an employee's balance and appends the matching history
// entry in one atomic store update.
//
// Overdraft policy: annual and casual leave require req.ConfirmOverdraft
// when the counter would cross zero; sick and exams leave debit into the
// negative unconditionally. This asymmetry is long-standing payroll policy.
func (s *LeaveService) GrantLeave(ctx context.Context, viewer domain.Viewer, req dto.GrantLeaveRequest) (*domain.LeaveBalance, *domain.LeaveHistoryEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !viewer.IsAdmin() && req.EmployeeName != viewer.Name {
		logger.Warn("Leave grant denied", slog.String("employee_id", req.EmployeeID), slog.String("username", viewer.Username))
		return nil, nil, fmt.Errorf("%w: non-admins may only record their own leave", apperrors.ErrForbidden)
	}
	leaveType := domain.LeaveType(req.Type)
	if !domain.ValidLeaveType(leaveType) {
		return nil, nil, fmt.Errorf("%w: unknown leave type %q", apperrors.ErrValidation, req.Type)
	}
	if !req.Days.IsPositive() {
		return nil, nil, fmt.Errorf("%w: days must be positive", apperrors.ErrValidation)
	}

	balance, err := s.repo.FindBalance(ctx, req.EmployeeID)
	if err != nil {
		return nil, nil, err
	}
	// The name check above trusts a client-supplied field; the stored owner
	// of the target balance is the authoritative identity.
	if balance != nil && !viewer.IsAdmin() && balance.EmployeeName != viewer.Name {
		logger.Warn("Leave grant denied", slog.String("employee_id", req.EmployeeID), slog.String("username", viewer.Username))
		return nil, nil, fmt.Errorf("%w: non-admins may only record their own leave", apperrors.ErrForbidden)
	}
	if balance == nil {
		def := domain.DefaultLeaveBalance(req.EmployeeID, req.EmployeeName)
		balance = &def
	}

	if balance.RequiresOverdraftConfirmation(leaveType, req.Days) && !req.ConfirmOverdraft {
		logger.Info("Leave grant needs overdraft confirmation", slog.String("employee_id", req.EmployeeID), slog.String("type", req.Type), slog.String("days", req.Days.String()))
		return nil, nil, fmt.Errorf("%w: %s balance is below %s days", apperrors.ErrOverdraftConfirmation, req.Type, req.Days.String())
	}

	debited := balance.Debit(leaveType, req.Days)
	entry := domain.LeaveHistoryEntry{
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Date:         req.Date,
		Days:         req.Days,
		Type:         leaveType,
		Timestamp:    domain.StampOf(s.now()),
	}

	historyID, err := s.repo.ApplyDebit(ctx, debited, entry)
	if err != nil {
		logger.Error("Failed to apply leave debit", slog.String("error", err.Error()), slog.String("employee_id", req.EmployeeID))
		return nil, nil, err
	}
	entry.ID = historyID

	logger.Info("Leave granted", slog.String("employee_id", req.EmployeeID), slog.String("type", req.Type), slog.String("days", req.Days.String()))
	return &debited, &entry, nil
}

// SetBalance directly overwrites a balance record without producing a
// history entry. Admin only.
func (s *LeaveService) SetBalance(ctx context.Context, viewer domain.Viewer, req dto.SetBalanceRequest) (*domain.LeaveBalance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !viewer.IsAdmin() {
		logger.Warn("Balance overwrite denied", slog.String("employee_id", req.EmployeeID), slog.String("username", viewer.Username))
		return nil, fmt.Errorf("%w: only admins may set balances directly", apperrors.ErrForbidden)
	}

	balance := domain.LeaveBalance{
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Annual:       req.Annual,
		Casual:       req.Casual,
		Sick:         req.Sick,
		Exams:        req.Exams,
	}
	if err := s.repo.SaveBalance(ctx, balance); err != nil {
		logger.Error("Failed to save balance", slog.String("error", err.Error()), slog.String("employee_id", req.EmployeeID))
		return nil, err
	}
	logger.Info("Balance overwritten", slog.String("employee_id", req.EmployeeID))
	return &balance, nil
}

// DeleteBalance removes the record, returning the employee to the undefined
// state. History entries are retained. Admin only.
func (s *LeaveService) DeleteBalance(ctx context.Context, viewer domain.Viewer, employeeID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !viewer.IsAdmin() {
		logger.Warn("Balance delete denied", slog.String("employee_id", employeeID), slog.String("username", viewer.Username))
		return fmt.Errorf("%w: only admins may delete balances", apperrors.ErrForbidden)
	}
	if err := s.repo.DeleteBalance(ctx, employeeID); err != nil {
		return err
	}
	logger.Info("Balance deleted", slog.String("employee_id", employeeID))
	return nil
}

func (s *LeaveService) ListBalances(ctx context.Context, viewer domain.Viewer) ([]domain.LeaveBalance, error) {
	balances, err := s.repo.ListBalances(ctx)
	if err != nil {
		return nil, err
	}
	return FilterVisible(balances, viewer, false), nil
}

func (s *LeaveService) ListHistory(ctx context.Context, viewer domain.Viewer) ([]domain.LeaveHistoryEntry, error) {
	entries, err := s.repo.ListHistory(ctx)
	if err != nil {
		return nil, err
	}
	return FilterVisible(entries, viewer, false), nil
}

func (s *LeaveService) ExportRows(ctx context.Context, viewer domain.Viewer) ([][]string, error) {
	entries, err := s.ListHistory(ctx, viewer)
	if err != nil {
		return nil, err
	}
	rows := [][]string{{"Date", "Employee", "Type", "Days"}}
	for _, e := range entries {
		rows = append(rows, []string{e.Date, e.EmployeeName, string(e.Type), e.Days.String()})
	}
	return rows, nil
}

func (s *LeaveService) SubscribeBalances(ctx context.Context, viewer domain.Viewer, onChange func([]domain.LeaveBalance)) (store.Unsubscribe, error) {
	return s.repo.SubscribeBalances(ctx, func(balances []domain.LeaveBalance) {
		onChange(FilterVisible(balances, viewer, false))
	})
}
