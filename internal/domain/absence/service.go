package absence

import (
	"context"
)

type Service interface {
	CreateAbsence(ctx context.Context, req CreateAbsenceRequest) (CreateAbsenceResponse, error)
	// ValidateAbsence runs every check of CreateAbsence without writing anything.
	ValidateAbsence(ctx context.Context, req CreateAbsenceRequest) (ValidationResult, error)
	ApproveAbsence(ctx context.Context, absenceID, employerID string) (AbsenceResponse, error)
	RejectAbsence(ctx context.Context, absenceID, employerID string) (AbsenceResponse, error)
	CancelAbsence(ctx context.Context, absenceID, employeeID string) error
	GetAbsence(ctx context.Context, absenceID, callerID string) (AbsenceResponse, error)
	ListMyAbsences(ctx context.Context, employeeID string, filter MyAbsenceFilter) (ListAbsenceResponse, error)
}
