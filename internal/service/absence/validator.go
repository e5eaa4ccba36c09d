package absence

import (
	"fmt"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

// ValidateAbsenceRequest checks candidate against the employee's existing
// absences and, for vacation, against the leave balance it would consume.
// It has no side effects. Violations accumulate; warnings never block.
func ValidateAbsenceRequest(candidate absence.Absence, existing []absence.Absence, balance *leave.LeaveBalance) absence.ValidationResult {
	result := absence.ValidationResult{
		Violations: make([]absence.Violation, 0),
		Warnings:   make([]absence.Warning, 0),
	}

	rangeValid := !candidate.StartDate.After(candidate.EndDate)
	if !rangeValid {
		result.Violations = append(result.Violations, absence.Violation{
			Code:    absence.ViolationDateRangeInvalid,
			Message: "start_date must be on or before end_date",
		})
	}

	for _, other := range existing {
		if candidate.ID != "" && other.ID == candidate.ID {
			continue
		}
		if !other.Status.Blocks() {
			continue
		}
		if other.Overlaps(candidate.StartDate, candidate.EndDate) {
			result.Violations = append(result.Violations, absence.Violation{
				Code: absence.ViolationOverlap,
				Message: fmt.Sprintf("overlaps %s absence from %s to %s",
					other.Type, other.StartDate.Format(calendar.DateLayout), other.EndDate.Format(calendar.DateLayout)),
				ConflictingAbsenceID: other.ID,
			})
		}
	}

	switch candidate.Type {
	case absence.TypeVacation:
		if rangeValid {
			checkBalance(&result, candidate, balance)
		}
	case absence.TypeFamilyEvent:
		if candidate.FamilyEventType == nil || !candidate.FamilyEventType.Valid() {
			result.Violations = append(result.Violations, absence.Violation{
				Code:    absence.ViolationFamilyEventTypeInvalid,
				Message: "family_event_type is missing or not recognized",
			})
		}
	case absence.TypeSick:
		if candidate.JustificationURL == nil {
			due := absence.CalculateJustificationDueDate(candidate.StartDate)
			result.Warnings = append(result.Warnings, absence.Warning{
				Code:    absence.WarningJustificationRequired,
				Message: "a medical certificate must be provided by " + due.Format(calendar.DateLayout),
				DueDate: &due,
			})
		}
	case absence.TypeTraining, absence.TypeUnavailable, absence.TypeEmergency:
		// no type-specific rule
	}

	return result
}

func checkBalance(result *absence.ValidationResult, candidate absence.Absence, balance *leave.LeaveBalance) {
	requested := calendar.CountBusinessDays(candidate.StartDate, candidate.EndDate)
	if requested == 0 {
		result.Warnings = append(result.Warnings, absence.Warning{
			Code:    absence.WarningNoBusinessDays,
			Message: "the requested period contains no business day",
		})
	}

	if balance == nil {
		result.Violations = append(result.Violations, absence.Violation{
			Code:    absence.ViolationNoBalance,
			Message: "no leave balance for this contract and leave year",
		})
		return
	}

	remaining := balance.Remaining()
	if decimal.NewFromInt(int64(requested)).GreaterThan(remaining) {
		result.Violations = append(result.Violations, absence.Violation{
			Code:      absence.ViolationInsufficientBalance,
			Message:   fmt.Sprintf("requested %d days but only %s remain", requested, remaining.String()),
			Remaining: &remaining,
			Requested: &requested,
		})
	}
}
