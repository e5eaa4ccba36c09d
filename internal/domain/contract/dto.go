package contract

import (
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateContractRequest struct {
	EmployerID   string          `json:"-"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	StartDate    string          `json:"start_date"`
	WeeklyHours  decimal.Decimal `json:"weekly_hours"`

	// Seed the current leave-year balance when the caregiver already worked
	// for this employer before being registered.
	InitialMonthsWorked *int             `json:"initial_months_worked,omitempty"`
	InitialTakenDays    *decimal.Decimal `json:"initial_taken_days,omitempty"`
}

func (r *CreateContractRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	r.EmployeeName = validator.SanitizeText(r.EmployeeName, 255)
	if validator.IsEmpty(r.EmployeeName) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_name",
			Message: "employee_name is required",
		})
	}

	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if r.WeeklyHours.IsNegative() || r.WeeklyHours.GreaterThan(decimal.NewFromInt(48)) {
		errs = append(errs, validator.ValidationError{
			Field:   "weekly_hours",
			Message: "weekly_hours must be between 0 and 48",
		})
	}

	if r.InitialMonthsWorked != nil && (*r.InitialMonthsWorked < 0 || *r.InitialMonthsWorked > 12) {
		errs = append(errs, validator.ValidationError{
			Field:   "initial_months_worked",
			Message: "initial_months_worked must be between 0 and 12",
		})
	}

	if r.InitialTakenDays != nil && r.InitialTakenDays.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "initial_taken_days",
			Message: "initial_taken_days must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// HasInitialBalance reports whether the request seeds a leave balance.
func (r *CreateContractRequest) HasInitialBalance() bool {
	return r.InitialMonthsWorked != nil || r.InitialTakenDays != nil
}

type ContractResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployerID   string          `json:"employer_id"`
	EmployeeName string          `json:"employee_name"`
	StartDate    string          `json:"start_date"`
	WeeklyHours  decimal.Decimal `json:"weekly_hours"`
	Status       Status          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

func NewContractResponse(c Contract) ContractResponse {
	return ContractResponse{
		ID:           c.ID,
		EmployeeID:   c.EmployeeID,
		EmployerID:   c.EmployerID,
		EmployeeName: c.EmployeeName,
		StartDate:    c.StartDate.Format("2006-01-02"),
		WeeklyHours:  c.WeeklyHours,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
	}
}
