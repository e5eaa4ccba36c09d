package contract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCreateContractRequest_Validate(t *testing.T) {
	months := 4
	req := CreateContractRequest{
		EmployeeID:          "123e4567-e89b-12d3-a456-426614174000",
		EmployeeName:        " Marie Dupont ",
		StartDate:           "2024-01-15",
		WeeklyHours:         decimal.NewFromInt(20),
		InitialMonthsWorked: &months,
	}
	assert.NoError(t, req.Validate())
	assert.Equal(t, "Marie Dupont", req.EmployeeName)
	assert.True(t, req.HasInitialBalance())

	tooMany := 13
	negative := decimal.NewFromInt(-1)
	bad := CreateContractRequest{
		EmployeeID:          "nope",
		StartDate:           "2024-13-01",
		WeeklyHours:         decimal.NewFromInt(60),
		InitialMonthsWorked: &tooMany,
		InitialTakenDays:    &negative,
	}
	err := bad.Validate()
	assert.Error(t, err)
	for _, field := range []string{"employee_id", "employee_name", "start_date", "weekly_hours", "initial_months_worked", "initial_taken_days"} {
		assert.Contains(t, err.Error(), field)
	}
}
