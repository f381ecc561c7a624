package repositories

import (
	"context"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
)

// LeaveReader defines read operations for leave balances and history.
type LeaveReader interface {
	// FindBalance retrieves an employee's balance record, or nil when the
	// employee is still in the undefined state.
	FindBalance(ctx context.Context, employeeID string) (*domain.LeaveBalance, error)

	ListBalances(ctx context.Context) ([]domain.LeaveBalance, error)

	// ListHistory retrieves debit entries in timestamp order.
	ListHistory(ctx context.Context) ([]domain.LeaveHistoryEntry, error)
}

// LeaveWriter defines write operations for leave balances and history.
type LeaveWriter interface {
	// SaveBalance overwrites an employee's balance record (admin direct set
	// or first initialization). No history entry is produced.
	SaveBalance(ctx context.Context, balance domain.LeaveBalance) error

	// ApplyDebit persists the debited balance and appends the matching
	// history entry as one atomic update; the two collections never diverge.
	ApplyDebit(ctx context.Context, balance domain.LeaveBalance, entry domain.LeaveHistoryEntry) (historyID string, err error)

	// DeleteBalance removes the record, returning the employee to the
	// undefined state. History is retained.
	DeleteBalance(ctx context.Context, employeeID string) error
}

// LeaveSubscriber delivers live snapshots of all balance records.
type LeaveSubscriber interface {
	SubscribeBalances(ctx context.Context, onChange func([]domain.LeaveBalance)) (store.Unsubscribe, error)
}

// LeaveRepositoryFacade combines all leave repository interfaces.
type LeaveRepositoryFacade interface {
	LeaveReader
	LeaveWriter
	LeaveSubscriber
}
