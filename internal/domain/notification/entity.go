package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeAbsenceRequested     NotificationType = "absence_requested"
	TypeAbsenceApproved      NotificationType = "absence_approved"
	TypeAbsenceRejected      NotificationType = "absence_rejected"
	TypeJustificationOverdue NotificationType = "justification_overdue"
)

// Notification represents a notification entity
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
