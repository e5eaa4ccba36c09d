package absence

import (
	"time"
)

type AbsenceType string

const (
	TypeSick        AbsenceType = "sick"
	TypeVacation    AbsenceType = "vacation"
	TypeTraining    AbsenceType = "training"
	TypeUnavailable AbsenceType = "unavailable"
	TypeEmergency   AbsenceType = "emergency"
	TypeFamilyEvent AbsenceType = "family_event"
)

// AllAbsenceTypes returns all accepted absence types
func AllAbsenceTypes() []AbsenceType {
	return []AbsenceType{
		TypeSick,
		TypeVacation,
		TypeTraining,
		TypeUnavailable,
		TypeEmergency,
		TypeFamilyEvent,
	}
}

func (t AbsenceType) Valid() bool {
	switch t {
	case TypeSick, TypeVacation, TypeTraining, TypeUnavailable, TypeEmergency, TypeFamilyEvent:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Blocks reports whether an absence in this status occupies its dates.
// Rejected absences free their period.
func (s Status) Blocks() bool {
	switch s {
	case StatusPending, StatusApproved:
		return true
	case StatusRejected:
		return false
	default:
		return false
	}
}

// CanTransitionTo enforces pending -> approved | rejected. Rejected and
// approved are terminal for decisions.
func (s Status) CanTransitionTo(next Status) error {
	switch s {
	case StatusPending:
		if next == StatusApproved || next == StatusRejected {
			return nil
		}
		return ErrInvalidStatusTransition
	case StatusApproved, StatusRejected:
		return ErrAbsenceAlreadyDecided
	default:
		return ErrInvalidStatusTransition
	}
}

// CanBeCancelled reports whether the owner may still withdraw the absence.
func (s Status) CanBeCancelled() bool {
	switch s {
	case StatusPending, StatusApproved:
		return true
	case StatusRejected:
		return false
	default:
		return false
	}
}

type FamilyEventType string

const (
	FamilyEventMarriage               FamilyEventType = "marriage"
	FamilyEventPacs                   FamilyEventType = "pacs"
	FamilyEventBirth                  FamilyEventType = "birth"
	FamilyEventAdoption               FamilyEventType = "adoption"
	FamilyEventChildMarriage          FamilyEventType = "child_marriage"
	FamilyEventDeathSpouse            FamilyEventType = "death_spouse"
	FamilyEventDeathChild             FamilyEventType = "death_child"
	FamilyEventDeathParent            FamilyEventType = "death_parent"
	FamilyEventDeathSibling           FamilyEventType = "death_sibling"
	FamilyEventDisabilityAnnouncement FamilyEventType = "disability_announcement"
)

func (f FamilyEventType) Valid() bool {
	switch f {
	case FamilyEventMarriage, FamilyEventPacs, FamilyEventBirth, FamilyEventAdoption,
		FamilyEventChildMarriage, FamilyEventDeathSpouse, FamilyEventDeathChild,
		FamilyEventDeathParent, FamilyEventDeathSibling, FamilyEventDisabilityAnnouncement:
		return true
	default:
		return false
	}
}

// Absence entity
type Absence struct {
	ID         string
	EmployeeID string
	ContractID *string // set for vacation: the balance it consumes

	Type      AbsenceType
	StartDate time.Time
	EndDate   time.Time // inclusive
	Reason    string

	JustificationURL            *string
	JustificationDueDate        *time.Time
	JustificationReminderSentAt *time.Time

	FamilyEventType *FamilyEventType
	LeaveYear       *string

	Status            Status
	BusinessDaysCount int
	DecidedBy         *string
	DecidedAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps reports whether [StartDate, EndDate] intersects [start, end], bounds inclusive.
func (a Absence) Overlaps(start, end time.Time) bool {
	return !a.StartDate.After(end) && !start.After(a.EndDate)
}

// JustificationGraceDays is the number of calendar days a caregiver has to
// provide a sick-leave certificate.
const JustificationGraceDays = 2

// CalculateJustificationDueDate returns the last day to provide a justification.
func CalculateJustificationDueDate(start time.Time) time.Time {
	return start.AddDate(0, 0, JustificationGraceDays)
}
