package dto

import (
	"github.com/shopspring/decimal"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
)

// GrantLeaveRequest debits an employee's balance by a leave grant.
type GrantLeaveRequest struct {
	EmployeeID   string          `json:"employeeID" binding:"required"`
	EmployeeName string          `json:"employeeName" binding:"required"`
	Type         string          `json:"type" binding:"required,leavetype"`
	Days         decimal.Decimal `json:"days" binding:"required"`
	Date         string          `json:"date" binding:"required"`
	// ConfirmOverdraft acknowledges that the debit may push an annual or
	// casual counter below zero.
	ConfirmOverdraft bool `json:"confirmOverdraft"`
}

// SetBalanceRequest directly overwrites a balance record (admin only).
type SetBalanceRequest struct {
	EmployeeID   string          `json:"employeeID" binding:"required"`
	EmployeeName string          `json:"employeeName" binding:"required"`
	Annual       decimal.Decimal `json:"annual"`
	Casual       decimal.Decimal `json:"casual"`
	Sick         decimal.Decimal `json:"sick"`
	Exams        decimal.Decimal `json:"exams"`
}

// BalanceResponse is the wire shape of one balance record.
type BalanceResponse struct {
	EmployeeID   string          `json:"employeeID"`
	EmployeeName string          `json:"employeeName"`
	Annual       decimal.Decimal `json:"annual"`
	Casual       decimal.Decimal `json:"casual"`
	Sick         decimal.Decimal `json:"sick"`
	Exams        decimal.Decimal `json:"exams"`
}

// HistoryResponse is the wire shape of one immutable debit entry.
type HistoryResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employeeID"`
	EmployeeName string          `json:"employeeName"`
	Date         string          `json:"date"`
	Days         decimal.Decimal `json:"days"`
	Type         string          `json:"type"`
	Timestamp    int64           `json:"timestamp"`
}

// GrantLeaveResponse returns the debited balance and the appended entry.
type GrantLeaveResponse struct {
	Balance BalanceResponse `json:"balance"`
	Entry   HistoryResponse `json:"entry"`
}

// ToBalanceResponse converts a balance record to its wire shape.
func ToBalanceResponse(b *domain.LeaveBalance) BalanceResponse {
	return BalanceResponse{
		EmployeeID:   b.EmployeeID,
		EmployeeName: b.EmployeeName,
		Annual:       b.Annual,
		Casual:       b.Casual,
		Sick:         b.Sick,
		Exams:        b.Exams,
	}
}

// ToListBalanceResponse converts a slice of balance records.
func ToListBalanceResponse(balances []domain.LeaveBalance) []BalanceResponse {
	res := make([]BalanceResponse, len(balances))
	for i := range balances {
		res[i] = ToBalanceResponse(&balances[i])
	}
	return res
}

// ToHistoryResponse converts a debit entry to its wire shape.
func ToHistoryResponse(e *domain.LeaveHistoryEntry) HistoryResponse {
	return HistoryResponse{
		ID:           e.ID,
		EmployeeID:   e.EmployeeID,
		EmployeeName: e.EmployeeName,
		Date:         e.Date,
		Days:         e.Days,
		Type:         string(e.Type),
		Timestamp:    e.Timestamp,
	}
}

// ToListHistoryResponse converts a slice of debit entries.
func ToListHistoryResponse(entries []domain.LeaveHistoryEntry) []HistoryResponse {
	res := make([]HistoryResponse, len(entries))
	for i := range entries {
		res[i] = ToHistoryResponse(&entries[i])
	}
	return res
}
