package notification

import (
	"context"
	"time"
)

// Repository defines the notification repository interface
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	CreateBatch(ctx context.Context, notifications []*Notification) error
	GetByUserID(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) ([]*Notification, int, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, ids []string, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
}

// Notifier is the fire-and-forget side used by the absence workflow and
// scheduled jobs. Implementations log failures instead of returning them.
type Notifier interface {
	NotifyAbsenceRequested(ctx context.Context, employerID, employeeName, absenceType string, start, end time.Time)
	NotifyAbsenceResolved(ctx context.Context, employeeID, absenceID, status string, start, end time.Time)
	NotifyJustificationOverdue(ctx context.Context, employeeID, absenceID string, dueDate time.Time)
}
