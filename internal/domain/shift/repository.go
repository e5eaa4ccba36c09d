package shift

import (
	"context"
	"time"
)

// Repository - interface for shifts table
type Repository interface {
	// CancelPlannedShifts marks the employee's planned shifts dated within
	// [start, end] as cancelled and returns how many were affected.
	CancelPlannedShifts(ctx context.Context, employeeID string, start, end time.Time) (int64, error)
}
