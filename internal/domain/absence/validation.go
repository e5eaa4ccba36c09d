package absence

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ViolationCode string

const (
	ViolationDateRangeInvalid       ViolationCode = "date_range_invalid"
	ViolationOverlap                ViolationCode = "overlap"
	ViolationNoBalance              ViolationCode = "no_balance"
	ViolationInsufficientBalance    ViolationCode = "insufficient_balance"
	ViolationFamilyEventTypeInvalid ViolationCode = "family_event_type_invalid"
)

// Violation is a blocking reason to refuse an absence request.
type Violation struct {
	Code                 ViolationCode    `json:"code"`
	Message              string           `json:"message"`
	ConflictingAbsenceID string           `json:"conflicting_absence_id,omitempty"`
	Remaining            *decimal.Decimal `json:"remaining,omitempty"`
	Requested            *int             `json:"requested,omitempty"`
}

type WarningCode string

const (
	WarningNoBusinessDays        WarningCode = "no_business_days"
	WarningJustificationRequired WarningCode = "justification_required"
)

// Warning is informational and never blocks a request.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
	DueDate *time.Time  `json:"due_date,omitempty"`
}

// ValidationResult is the outcome of checking a candidate absence.
type ValidationResult struct {
	Violations []Violation `json:"violations"`
	Warnings   []Warning   `json:"warnings"`
}

func (r ValidationResult) Valid() bool {
	return len(r.Violations) == 0
}

// Has reports whether the result carries a violation with the given code.
func (r ValidationResult) Has(code ViolationCode) bool {
	for _, v := range r.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// Err returns a *ValidationFailure when the result is invalid, nil otherwise.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationFailure{Violations: r.Violations}
}

// ValidationFailure is returned when an absence request breaks a business rule.
type ValidationFailure struct {
	Violations []Violation
}

func (e *ValidationFailure) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, fmt.Sprintf("%s: %s", v.Code, v.Message))
	}
	return "absence request rejected: " + strings.Join(msgs, "; ")
}
