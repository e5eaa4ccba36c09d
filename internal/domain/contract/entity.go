package contract

import (
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

// Contract binds one caregiver to one private employer.
type Contract struct {
	ID           string
	EmployeeID   string
	EmployerID   string
	EmployeeName string
	StartDate    time.Time
	WeeklyHours  decimal.Decimal
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (c Contract) IsActive() bool {
	return c.Status == StatusActive
}

// AccrualInfo exposes what the leave ledger needs to compute acquired days.
func (c Contract) AccrualInfo() leave.ContractInfo {
	return leave.ContractInfo{
		StartDate:   c.StartDate,
		WeeklyHours: c.WeeklyHours,
	}
}
