package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

type BalanceService interface {
	GetLeaveBalance(ctx context.Context, contractID, leaveYear string) (LeaveBalance, error)
	InitializeLeaveBalance(ctx context.Context, contractID, employeeID, employerID, leaveYear string, contract ContractInfo) (LeaveBalance, error)
	// AccrueLeaveBalance brings acquiredDays up to what the contract has earned
	// so far. It never lowers it and never creates a balance.
	AccrueLeaveBalance(ctx context.Context, contractID, leaveYear string, contract ContractInfo) (LeaveBalance, error)
	InitializeLeaveBalanceWithOverride(ctx context.Context, contractID, employeeID, employerID, leaveYear string, acquiredDays, takenDays decimal.Decimal) (*LeaveBalance, error)
	AddTakenDays(ctx context.Context, contractID, leaveYear string, days decimal.Decimal) error
	RestoreTakenDays(ctx context.Context, contractID, leaveYear string, days decimal.Decimal) error
	ListLeaveBalances(ctx context.Context, employeeID string) ([]LeaveBalanceResponse, error)
	AdjustLeaveBalance(ctx context.Context, req AdjustLeaveBalanceRequest) (LeaveBalanceResponse, error)
	// CurrentLeaveYear returns the leave-year label containing today.
	CurrentLeaveYear() string
}
