package shift

import "time"

type Status string

const (
	StatusPlanned   Status = "planned"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

// Shift is a planned working slot under a contract.
type Shift struct {
	ID         string
	ContractID string
	EmployeeID string
	Date       time.Time
	StartTime  string // "08:00"
	EndTime    string
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
