package services

import (
	"context"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
	"github.com/opsledger/ops_ledger_app/internal/dto"
)

// LeaveReaderSvc defines read operations for the leave ledger.
type LeaveReaderSvc interface {
	// ListBalances retrieves the balance rows the viewer may see (their own
	// row only, unless admin).
	ListBalances(ctx context.Context, viewer domain.Viewer) ([]domain.LeaveBalance, error)

	// ListHistory retrieves the debit entries the viewer may see.
	ListHistory(ctx context.Context, viewer domain.Viewer) ([]domain.LeaveHistoryEntry, error)

	ExportRows(ctx context.Context, viewer domain.Viewer) ([][]string, error)
}

// LeaveWriterSvc defines write operations for the leave ledger.
type LeaveWriterSvc interface {
	// GrantLeave debits an employee's balance and appends the matching
	// history entry atomically. Overdrafting annual or casual leave requires
	// req.ConfirmOverdraft; sick and exams leave never do. Non-admins may
	// only target themselves.
	GrantLeave(ctx context.Context, viewer domain.Viewer, req dto.GrantLeaveRequest) (*domain.LeaveBalance, *domain.LeaveHistoryEntry, error)

	// SetBalance directly overwrites a balance record without producing
	// history. Admin only.
	SetBalance(ctx context.Context, viewer domain.Viewer, req dto.SetBalanceRequest) (*domain.LeaveBalance, error)

	// DeleteBalance removes a balance record, returning the employee to the
	// undefined state. Admin only.
	DeleteBalance(ctx context.Context, viewer domain.Viewer, employeeID string) error
}

// LeaveStreamerSvc pushes viewer-filtered live balance snapshots.
type LeaveStreamerSvc interface {
	SubscribeBalances(ctx context.Context, viewer domain.Viewer, onChange func([]domain.LeaveBalance)) (store.Unsubscribe, error)
}

// LeaveSvcFacade combines all leave ledger service interfaces.
type LeaveSvcFacade interface {
	LeaveReaderSvc
	LeaveWriterSvc
	LeaveStreamerSvc
}
