package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/contract"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/leave"
)

type LeaveJobs struct {
	contractRepo contract.Repository
	balances     leave.BalanceService
}

func NewLeaveJobs(contractRepo contract.Repository, balances leave.BalanceService) *LeaveJobs {
	return &LeaveJobs{
		contractRepo: contractRepo,
		balances:     balances,
	}
}

func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("leave_accrual", 24*time.Hour, j.AccrueLeaveBalances)
}

// AccrueLeaveBalances raises the current leave year's acquired days of every
// active contract to what it has earned so far. Contracts without a balance
// for the year are skipped; their balance is created on first use.
func (j *LeaveJobs) AccrueLeaveBalances(ctx context.Context) error {
	slog.Info("Cron: Starting leave accrual job")

	contracts, err := j.contractRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active contracts: %w", err)
	}

	leaveYear := j.balances.CurrentLeaveYear()
	accrued, failed := 0, 0
	for _, c := range contracts {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, err := j.balances.AccrueLeaveBalance(ctx, c.ID, leaveYear, c.AccrualInfo())
		switch {
		case err == nil:
			accrued++
		case errors.Is(err, leave.ErrLeaveBalanceNotFound):
		default:
			failed++
			slog.Error("Cron: Leave accrual failed", "contract_id", c.ID, "leave_year", leaveYear, "error", err)
		}
	}

	slog.Info("Cron: Leave accrual finished", "leave_year", leaveYear, "accrued", accrued, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("leave accrual failed for %d contracts", failed)
	}
	return nil
}
