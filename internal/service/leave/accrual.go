package leave

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

// AccrualPolicy describes how paid leave is earned.
type AccrualPolicy struct {
	DaysPerMonth        decimal.Decimal // default: 2.5
	MaxDays             decimal.Decimal // default: 30
	LeaveYearStartMonth time.Month      // default: June
}

type AccrualCalculator struct {
	policy AccrualPolicy
}

func NewAccrualCalculator(policy AccrualPolicy) *AccrualCalculator {
	if policy.DaysPerMonth.IsZero() {
		policy.DaysPerMonth = decimal.RequireFromString("2.5")
	}
	if policy.MaxDays.IsZero() {
		policy.MaxDays = decimal.NewFromInt(30)
	}
	if policy.LeaveYearStartMonth == 0 {
		policy.LeaveYearStartMonth = calendar.DefaultLeaveYearStartMonth
	}
	return &AccrualCalculator{policy: policy}
}

// AcquiredDays returns the days earned under contract during leaveYear up to
// asOf: DaysPerMonth for every complete month worked inside the period,
// capped at MaxDays. A contract without working hours earns nothing.
func (c *AccrualCalculator) AcquiredDays(contract leave.ContractInfo, leaveYear string, asOf time.Time) (decimal.Decimal, error) {
	yearStart, yearEnd, err := calendar.LeaveYearBounds(leaveYear, c.policy.LeaveYearStartMonth)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", leave.ErrInvalidLeaveYear, err)
	}

	if !contract.WeeklyHours.IsPositive() {
		return decimal.Zero, nil
	}

	from := yearStart
	if start := calendar.DateOnly(contract.StartDate); start.After(from) {
		from = start
	}
	to := yearEnd
	if asOf = calendar.DateOnly(asOf); asOf.Before(to) {
		to = asOf
	}
	if to.Before(from) {
		return decimal.Zero, nil
	}

	return c.AcquiredDaysFromMonths(completeMonths(from, to)), nil
}

// AcquiredDaysFromMonths converts a number of worked months into acquired days.
func (c *AccrualCalculator) AcquiredDaysFromMonths(months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	days := c.policy.DaysPerMonth.Mul(decimal.NewFromInt(int64(months)))
	if days.GreaterThan(c.policy.MaxDays) {
		return c.policy.MaxDays
	}
	return days
}

// completeMonths counts whole months in [from, to], both days included.
func completeMonths(from, to time.Time) int {
	end := to.AddDate(0, 0, 1)

	months := (end.Year()-from.Year())*12 + int(end.Month()) - int(from.Month())
	if end.Day() < from.Day() {
		months--
	}

	if months < 0 {
		months = 0
	}
	return months
}
