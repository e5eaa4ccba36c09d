package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

// BalanceRepository - interface for leave_balances table
type BalanceRepository interface {
	// Create returns ErrLeaveBalanceExists on a (contract, leave year) conflict
	// without aborting the surrounding transaction.
	Create(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)
	GetByContractAndYear(ctx context.Context, contractID, leaveYear string) (LeaveBalance, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveBalance, error)
	// IncrementTaken adds days to taken_days in a single statement.
	IncrementTaken(ctx context.Context, contractID, leaveYear string, days decimal.Decimal) error
	// DecrementTaken subtracts days from taken_days, never going below zero,
	// and returns taken_days as it was before the update.
	DecrementTaken(ctx context.Context, contractID, leaveYear string, days decimal.Decimal) (decimal.Decimal, error)
	AddAdjustment(ctx context.Context, contractID, leaveYear string, delta decimal.Decimal) (LeaveBalance, error)
	// RaiseAcquired sets acquired_days to max(acquired_days, acquired).
	RaiseAcquired(ctx context.Context, contractID, leaveYear string, acquired decimal.Decimal) (LeaveBalance, error)
}
