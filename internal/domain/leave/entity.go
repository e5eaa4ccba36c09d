package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveBalance is the paid-leave ledger of one contract for one leave year.
// (ContractID, LeaveYear) is unique.
type LeaveBalance struct {
	ID             string
	ContractID     string
	EmployeeID     string
	EmployerID     string
	LeaveYear      string // "2024-2025"
	AcquiredDays   decimal.Decimal
	TakenDays      decimal.Decimal
	AdjustmentDays decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Remaining is acquired + adjustment - taken. It may be negative when the
// ledger is inconsistent.
func (b LeaveBalance) Remaining() decimal.Decimal {
	return b.AcquiredDays.Add(b.AdjustmentDays).Sub(b.TakenDays)
}

// ContractInfo is what accrual needs to know about a contract.
type ContractInfo struct {
	StartDate   time.Time
	WeeklyHours decimal.Decimal
}
