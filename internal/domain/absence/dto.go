package absence

import (
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/validator"
)

const maxReasonLength = 500

// MaxAbsenceDays bounds the calendar length of a single absence.
const MaxAbsenceDays = 366

type CreateAbsenceRequest struct {
	EmployeeID       string  `json:"-"`
	ContractID       *string `json:"contract_id,omitempty"`
	AbsenceType      string  `json:"absence_type"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	Reason           string  `json:"reason"`
	JustificationURL *string `json:"justification_url,omitempty"`
	FamilyEventType  *string `json:"family_event_type,omitempty"`
}

// Validate checks the request shape. Business rules (date order, overlap,
// balance, family event kind) are left to the absence validator so they are
// reported as violations.
func (r *CreateAbsenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if r.ContractID != nil && !validator.IsValidUUID(*r.ContractID) {
		errs = append(errs, validator.ValidationError{
			Field:   "contract_id",
			Message: "contract_id must be a valid UUID",
		})
	}

	// Absence type
	if validator.IsEmpty(r.AbsenceType) {
		errs = append(errs, validator.ValidationError{
			Field:   "absence_type",
			Message: "absence_type is required",
		})
	} else if !AbsenceType(r.AbsenceType).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "absence_type",
			Message: "absence_type must be one of sick, vacation, training, unavailable, emergency, family_event",
		})
	}

	// Dates
	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && end.Sub(start) >= MaxAbsenceDays*24*time.Hour {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "an absence cannot span more than 366 days",
		})
	}

	// Justification
	if r.JustificationURL != nil {
		if AbsenceType(r.AbsenceType) != TypeSick {
			errs = append(errs, validator.ValidationError{
				Field:   "justification_url",
				Message: "justification_url is only accepted for sick leave",
			})
		} else if !validator.IsValidURL(*r.JustificationURL) {
			errs = append(errs, validator.ValidationError{
				Field:   "justification_url",
				Message: "justification_url must be an http(s) URL",
			})
		}
	}

	r.Reason = validator.SanitizeText(r.Reason, maxReasonLength)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MyAbsenceFilter struct {
	Status      *string
	AbsenceType *string
	StartDate   *string
	EndDate     *string
	Page        int
	Limit       int
}

// Normalize applies pagination defaults.
func (f *MyAbsenceFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

func (f *MyAbsenceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !Status(*f.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of pending, approved, rejected",
		})
	}
	if f.AbsenceType != nil && !AbsenceType(*f.AbsenceType).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "absence_type",
			Message: "absence_type is not recognized",
		})
	}
	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AbsenceResponse struct {
	ID                   string           `json:"id"`
	EmployeeID           string           `json:"employee_id"`
	ContractID           *string          `json:"contract_id,omitempty"`
	AbsenceType          AbsenceType      `json:"absence_type"`
	StartDate            string           `json:"start_date"`
	EndDate              string           `json:"end_date"`
	Reason               string           `json:"reason"`
	JustificationURL     *string          `json:"justification_url,omitempty"`
	JustificationDueDate *string          `json:"justification_due_date,omitempty"`
	FamilyEventType      *FamilyEventType `json:"family_event_type,omitempty"`
	LeaveYear            *string          `json:"leave_year,omitempty"`
	Status               Status           `json:"status"`
	BusinessDaysCount    int              `json:"business_days_count"`
	DecidedBy            *string          `json:"decided_by,omitempty"`
	DecidedAt            *time.Time       `json:"decided_at,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
}

func NewAbsenceResponse(a Absence) AbsenceResponse {
	resp := AbsenceResponse{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		ContractID:        a.ContractID,
		AbsenceType:       a.Type,
		StartDate:         a.StartDate.Format("2006-01-02"),
		EndDate:           a.EndDate.Format("2006-01-02"),
		Reason:            a.Reason,
		JustificationURL:  a.JustificationURL,
		FamilyEventType:   a.FamilyEventType,
		LeaveYear:         a.LeaveYear,
		Status:            a.Status,
		BusinessDaysCount: a.BusinessDaysCount,
		DecidedBy:         a.DecidedBy,
		DecidedAt:         a.DecidedAt,
		CreatedAt:         a.CreatedAt,
	}
	if a.JustificationDueDate != nil {
		due := a.JustificationDueDate.Format("2006-01-02")
		resp.JustificationDueDate = &due
	}
	return resp
}

type CreateAbsenceResponse struct {
	Absence  AbsenceResponse `json:"absence"`
	Warnings []Warning       `json:"warnings"`
}

type ListAbsenceResponse struct {
	Absences   []AbsenceResponse `json:"absences"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
