package leave

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func days(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAccrualCalculator_AcquiredDays(t *testing.T) {
	calc := NewAccrualCalculator(AccrualPolicy{})
	partTime := decimal.NewFromInt(20)

	cases := []struct {
		name     string
		contract leave.ContractInfo
		asOf     time.Time
		want     decimal.Decimal
	}{
		{
			name:     "three complete months since leave year start",
			contract: leave.ContractInfo{StartDate: date(2023, 1, 1), WeeklyHours: partTime},
			asOf:     date(2024, 9, 15),
			want:     days("7.5"),
		},
		{
			name:     "full leave year is capped",
			contract: leave.ContractInfo{StartDate: date(2020, 1, 1), WeeklyHours: partTime},
			asOf:     date(2025, 7, 1),
			want:     days("30"),
		},
		{
			name:     "mid-month start counts whole months only",
			contract: leave.ContractInfo{StartDate: date(2024, 6, 15), WeeklyHours: partTime},
			asOf:     date(2024, 8, 14),
			want:     days("5"),
		},
		{
			name:     "one day short of second month",
			contract: leave.ContractInfo{StartDate: date(2024, 6, 15), WeeklyHours: partTime},
			asOf:     date(2024, 8, 13),
			want:     days("2.5"),
		},
		{
			name:     "no working hours",
			contract: leave.ContractInfo{StartDate: date(2020, 1, 1), WeeklyHours: decimal.Zero},
			asOf:     date(2025, 1, 1),
			want:     decimal.Zero,
		},
		{
			name:     "contract starts after as-of date",
			contract: leave.ContractInfo{StartDate: date(2024, 10, 1), WeeklyHours: partTime},
			asOf:     date(2024, 9, 1),
			want:     decimal.Zero,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := calc.AcquiredDays(c.contract, "2024-2025", c.asOf)
			require.NoError(t, err)
			assert.True(t, c.want.Equal(got), "want %s, got %s", c.want, got)
		})
	}
}

func TestAccrualCalculator_InvalidLeaveYear(t *testing.T) {
	calc := NewAccrualCalculator(AccrualPolicy{})
	_, err := calc.AcquiredDays(leave.ContractInfo{WeeklyHours: decimal.NewFromInt(10)}, "2024", date(2024, 9, 1))
	assert.ErrorIs(t, err, leave.ErrInvalidLeaveYear)
}

func TestAccrualCalculator_AcquiredDaysFromMonths(t *testing.T) {
	calc := NewAccrualCalculator(AccrualPolicy{})
	assert.True(t, days("10").Equal(calc.AcquiredDaysFromMonths(4)))
	assert.True(t, days("30").Equal(calc.AcquiredDaysFromMonths(13)))
	assert.True(t, decimal.Zero.Equal(calc.AcquiredDaysFromMonths(0)))
	assert.True(t, decimal.Zero.Equal(calc.AcquiredDaysFromMonths(-2)))

	custom := NewAccrualCalculator(AccrualPolicy{DaysPerMonth: days("2.08"), MaxDays: days("25")})
	assert.True(t, days("24.96").Equal(custom.AcquiredDaysFromMonths(12)))
}

func TestCompleteMonths(t *testing.T) {
	assert.Equal(t, 1, completeMonths(date(2024, 6, 1), date(2024, 6, 30)))
	assert.Equal(t, 0, completeMonths(date(2024, 6, 1), date(2024, 6, 29)))
	assert.Equal(t, 12, completeMonths(date(2024, 6, 1), date(2025, 5, 31)))
	assert.Equal(t, 0, completeMonths(date(2024, 6, 10), date(2024, 6, 10)))
}
