package domain

import (
	"github.com/shopspring/decimal"
)

// LeaveType names one of the four tracked leave counters.
type LeaveType string

const (
	LeaveAnnual LeaveType = "ANNUAL"
	LeaveCasual LeaveType = "CASUAL"
	LeaveSick   LeaveType = "SICK"
	LeaveExams  LeaveType = "EXAMS"
)

// ValidLeaveType reports whether t is one of the four tracked types.
func ValidLeaveType(t LeaveType) bool {
	switch t {
	case LeaveAnnual, LeaveCasual, LeaveSick, LeaveExams:
		return true
	}
	return false
}

// LeaveBalance is the single mutable balance record per employee. Counters
// may go negative, but only through an explicitly confirmed overdraft for
// annual and casual leave; sick and exams debit unconditionally.
type LeaveBalance struct {
	EmployeeID   string          `json:"employeeID"`
	EmployeeName string          `json:"employeeName"`
	Annual       decimal.Decimal `json:"annual"`
	Casual       decimal.Decimal `json:"casual"`
	Sick         decimal.Decimal `json:"sick"`
	Exams        decimal.Decimal `json:"exams"`
}

// DefaultLeaveBalance is the balance an employee starts with the first time
// leave is granted or an admin initializes their record.
func DefaultLeaveBalance(employeeID, employeeName string) LeaveBalance {
	return LeaveBalance{
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		Annual:       decimal.NewFromInt(21),
		Casual:       decimal.NewFromInt(7),
		Sick:         decimal.Zero,
		Exams:        decimal.Zero,
	}
}

// Counter returns the balance value for the given leave type.
func (b LeaveBalance) Counter(t LeaveType) decimal.Decimal {
	switch t {
	case LeaveAnnual:
		return b.Annual
	case LeaveCasual:
		return b.Casual
	case LeaveSick:
		return b.Sick
	default:
		return b.Exams
	}
}

// Debit returns a copy of the balance with the given counter decremented.
func (b LeaveBalance) Debit(t LeaveType, days decimal.Decimal) LeaveBalance {
	switch t {
	case LeaveAnnual:
		b.Annual = b.Annual.Sub(days)
	case LeaveCasual:
		b.Casual = b.Casual.Sub(days)
	case LeaveSick:
		b.Sick = b.Sick.Sub(days)
	case LeaveExams:
		b.Exams = b.Exams.Sub(days)
	}
	return b
}

// RequiresOverdraftConfirmation reports whether debiting days of type t
// from this balance crosses zero on a counter that needs interactive
// confirmation. Sick and exams leave never require confirmation.
func (b LeaveBalance) RequiresOverdraftConfirmation(t LeaveType, days decimal.Decimal) bool {
	if t != LeaveAnnual && t != LeaveCasual {
		return false
	}
	return b.Counter(t).LessThan(days)
}

// OwnerName implements the visibility filter contract.
func (b LeaveBalance) OwnerName() string { return b.EmployeeName }

// LeaveHistoryEntry is one immutable debit record, appended alongside every
// successful leave grant.
type LeaveHistoryEntry struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employeeID"`
	EmployeeName string          `json:"employeeName"`
	Date         string          `json:"date"`
	Days         decimal.Decimal `json:"days"`
	Type         LeaveType       `json:"type"`
	Timestamp    int64           `json:"timestamp"`
}

// OwnerName implements the visibility filter contract.
func (e LeaveHistoryEntry) OwnerName() string { return e.EmployeeName }
