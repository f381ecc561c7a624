package ledgerkv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/opsledger/ops_ledger_app/internal/apperrors"
	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	portsrepo "github.com/opsledger/ops_ledger_app/internal/core/ports/repositories"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
)

// LeaveStore persists balance records keyed by employee id and the
// append-only debit history.
type LeaveStore struct {
	rs store.RemoteStore
}

var _ portsrepo.LeaveRepositoryFacade = (*LeaveStore)(nil)

// NewLeaveStore creates a leave repository over the remote store.
func NewLeaveStore(rs store.RemoteStore) *LeaveStore {
	return &LeaveStore{rs: rs}
}

func balancePath(employeeID string) string {
	return join(leaveBalancesPath, EscapeKey(employeeID))
}

func (s *LeaveStore) FindBalance(ctx context.Context, employeeID string) (*domain.LeaveBalance, error) {
	raw, err := s.rs.Read(ctx, balancePath(employeeID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read balance for %s: %w", employeeID, err)
	}
	return decodeOne[domain.LeaveBalance](raw)
}

func (s *LeaveStore) ListBalances(ctx context.Context) ([]domain.LeaveBalance, error) {
	raw, err := s.rs.Read(ctx, leaveBalancesPath)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.LeaveBalance{}, nil
		}
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	return decodeBalances(raw)
}

func (s *LeaveStore) ListHistory(ctx context.Context) ([]domain.LeaveHistoryEntry, error) {
	raw, err := s.rs.Read(ctx, leaveHistoryPath)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.LeaveHistoryEntry{}, nil
		}
		return nil, fmt.Errorf("failed to list leave history: %w", err)
	}
	byKey, err := decodeMap[domain.LeaveHistoryEntry](raw)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.LeaveHistoryEntry, 0, len(byKey))
	for key, e := range byKey {
		e.ID = key
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp != entries[j].Timestamp {
			return entries[i].Timestamp < entries[j].Timestamp
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (s *LeaveStore) SaveBalance(ctx context.Context, balance domain.LeaveBalance) error {
	if err := s.rs.Write(ctx, balancePath(balance.EmployeeID), balance); err != nil {
		return fmt.Errorf("failed to save balance for %s: %w", balance.EmployeeID, err)
	}
	return nil
}

// ApplyDebit writes the debited balance and the history entry in one
// multi-path update, so a transport failure can never record one without
// the other.
func (s *LeaveStore) ApplyDebit(ctx context.Context, balance domain.LeaveBalance, entry domain.LeaveHistoryEntry) (string, error) {
	historyID := s.rs.GenerateKey(leaveHistoryPath)
	entry.ID = historyID
	writes := map[string]any{
		balancePath(balance.EmployeeID):   balance,
		join(leaveHistoryPath, historyID): entry,
	}
	err := s.rs.MultiWrite(ctx, writes)
	if err != nil {
		return "", fmt.Errorf("failed to apply leave debit for %s: %w", balance.EmployeeID, err)
	}
	return historyID, nil
}

func (s *LeaveStore) DeleteBalance(ctx context.Context, employeeID string) error {
	if err := s.rs.Delete(ctx, balancePath(employeeID)); err != nil {
		return fmt.Errorf("failed to delete balance for %s: %w", employeeID, err)
	}
	return nil
}

func (s *LeaveStore) SubscribeBalances(ctx context.Context, onChange func([]domain.LeaveBalance)) (store.Unsubscribe, error) {
	return s.rs.Subscribe(ctx, leaveBalancesPath, func(raw json.RawMessage) {
		balances, err := decodeBalances(raw)
		if err != nil {
			return
		}
		onChange(balances)
	})
}

func decodeBalances(raw json.RawMessage) ([]domain.LeaveBalance, error) {
	byKey, err := decodeMap[domain.LeaveBalance](raw)
	if err != nil {
		return nil, err
	}
	balances := make([]domain.LeaveBalance, 0, len(byKey))
	for _, b := range byKey {
		balances = append(balances, b)
	}
	sort.Slice(balances, func(i, j int) bool {
		return balances[i].EmployeeName < balances[j].EmployeeName
	})
	return balances, nil
}
