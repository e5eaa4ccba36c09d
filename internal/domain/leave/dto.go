package leave

import (
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AdjustLeaveBalanceRequest struct {
	ContractID string          `json:"-"`
	EmployerID string          `json:"-"`
	LeaveYear  string          `json:"leave_year"`
	Delta      decimal.Decimal `json:"delta"`
	Reason     string          `json:"reason"`
}

func (r *AdjustLeaveBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ContractID) {
		errs = append(errs, validator.ValidationError{
			Field:   "contract_id",
			Message: "contract_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.LeaveYear) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_year",
			Message: "leave_year is required",
		})
	}

	if r.Delta.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "delta",
			Message: "delta must not be zero",
		})
	}

	r.Reason = validator.SanitizeText(r.Reason, 500)
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveBalanceResponse struct {
	ID             string          `json:"id"`
	ContractID     string          `json:"contract_id"`
	EmployeeID     string          `json:"employee_id"`
	EmployerID     string          `json:"employer_id"`
	LeaveYear      string          `json:"leave_year"`
	AcquiredDays   decimal.Decimal `json:"acquired_days"`
	TakenDays      decimal.Decimal `json:"taken_days"`
	AdjustmentDays decimal.Decimal `json:"adjustment_days"`
	RemainingDays  decimal.Decimal `json:"remaining_days"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func NewLeaveBalanceResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		ID:             b.ID,
		ContractID:     b.ContractID,
		EmployeeID:     b.EmployeeID,
		EmployerID:     b.EmployerID,
		LeaveYear:      b.LeaveYear,
		AcquiredDays:   b.AcquiredDays,
		TakenDays:      b.TakenDays,
		AdjustmentDays: b.AdjustmentDays,
		RemainingDays:  b.Remaining(),
		UpdatedAt:      b.UpdatedAt,
	}
}
