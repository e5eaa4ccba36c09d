package absence

import (
	"context"
	"time"
)

// Repository - interface for absences table
type Repository interface {
	// Create returns ErrAbsenceOverlap when the exclusion constraint fires.
	Create(ctx context.Context, absence Absence) (Absence, error)
	GetByID(ctx context.Context, id string) (Absence, error)
	// ListBlockingByEmployee returns the pending and approved absences of an employee.
	ListBlockingByEmployee(ctx context.Context, employeeID string) ([]Absence, error)
	ListByEmployee(ctx context.Context, employeeID string, filter MyAbsenceFilter) ([]Absence, int64, error)
	// Decide moves a pending absence to status. It returns
	// ErrAbsenceAlreadyDecided when the absence is no longer pending.
	Decide(ctx context.Context, id string, status Status, decidedBy string) (Absence, error)
	// Delete removes the absence only while it is still in status expected and
	// returns it as it was. It returns ErrInvalidStatusTransition when the
	// status moved in the meantime.
	Delete(ctx context.Context, id string, expected Status) (Absence, error)
	// LockEmployee serializes absence creation for one employee until the
	// surrounding transaction ends.
	LockEmployee(ctx context.Context, employeeID string) error
	ListOverdueJustifications(ctx context.Context, asOf time.Time, limit int) ([]Absence, error)
	MarkJustificationReminderSent(ctx context.Context, id string, at time.Time) error
}
