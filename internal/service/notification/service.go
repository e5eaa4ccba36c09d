package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/notification"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	config Config

	queue    chan notification.CreateNotificationRequest
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(repo notification.Repository, cfg Config) notification.Service {
	// Set defaults
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		config: cfg,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	// Start background workers
	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Notification service started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval,
	)

	return s
}

// worker is the background worker that processes notification queue
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		notifications := make([]*notification.Notification, len(batch))
		for i, req := range batch {
			notifications[i] = newNotification(req)
		}

		if err := s.repo.CreateBatch(ctx, notifications); err != nil {
			slog.Error("Failed to insert notification batch", "worker", id, "count", len(notifications), "error", err)
		} else {
			slog.Debug("Notification batch inserted", "worker", id, "count", len(notifications))
		}

		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// drain what is already queued
			for {
				select {
				case req := <-s.queue:
					batch = append(batch, req)
					if len(batch) >= s.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

func newNotification(req notification.CreateNotificationRequest) *notification.Notification {
	return &notification.Notification{
		ID:          uuid.New().String(),
		RecipientID: req.RecipientID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
		IsRead:      false,
		CreatedAt:   time.Now(),
	}
}

// QueueNotification queues a notification for async processing
func (s *service) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	select {
	case s.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Queue full, try direct insert
		return s.directInsert(ctx, req)
	}
}

// directInsert inserts a notification directly when queue is full
func (s *service) directInsert(ctx context.Context, req notification.CreateNotificationRequest) error {
	if err := s.repo.Create(ctx, newNotification(req)); err != nil {
		return fmt.Errorf("%w: %v", notification.ErrQueueFull, err)
	}
	return nil
}

// enqueue is the fire-and-forget path behind the Notifier methods.
func (s *service) enqueue(ctx context.Context, req notification.CreateNotificationRequest) {
	if err := s.QueueNotification(ctx, req); err != nil {
		slog.Error("Failed to queue notification",
			"recipient_id", req.RecipientID,
			"type", req.Type,
			"error", err,
		)
	}
}

// NotifyAbsenceRequested tells an employer a caregiver declared an absence.
func (s *service) NotifyAbsenceRequested(ctx context.Context, employerID, employeeName, absenceType string, start, end time.Time) {
	s.enqueue(ctx, notification.CreateNotificationRequest{
		RecipientID: employerID,
		Type:        notification.TypeAbsenceRequested,
		Title:       "New absence request",
		Message: fmt.Sprintf("%s requested %s absence from %s to %s",
			employeeName, absenceType, start.Format("2006-01-02"), end.Format("2006-01-02")),
		Data: map[string]interface{}{
			"absence_type": absenceType,
			"start_date":   start.Format("2006-01-02"),
			"end_date":     end.Format("2006-01-02"),
		},
	})
}

// NotifyAbsenceResolved tells the caregiver the employer decided.
func (s *service) NotifyAbsenceResolved(ctx context.Context, employeeID, absenceID, status string, start, end time.Time) {
	notifType := notification.TypeAbsenceRejected
	title := "Absence rejected"
	if status == "approved" {
		notifType = notification.TypeAbsenceApproved
		title = "Absence approved"
	}

	s.enqueue(ctx, notification.CreateNotificationRequest{
		RecipientID: employeeID,
		Type:        notifType,
		Title:       title,
		Message: fmt.Sprintf("Your absence from %s to %s was %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"), status),
		Data: map[string]interface{}{
			"absence_id": absenceID,
			"status":     status,
		},
	})
}

// NotifyJustificationOverdue reminds the caregiver to send a sick note.
func (s *service) NotifyJustificationOverdue(ctx context.Context, employeeID, absenceID string, dueDate time.Time) {
	s.enqueue(ctx, notification.CreateNotificationRequest{
		RecipientID: employeeID,
		Type:        notification.TypeJustificationOverdue,
		Title:       "Medical certificate missing",
		Message: fmt.Sprintf("The medical certificate for your sick leave was due on %s",
			dueDate.Format("2006-01-02")),
		Data: map[string]interface{}{
			"absence_id": absenceID,
			"due_date":   dueDate.Format("2006-01-02"),
		},
	})
}

// toResponse converts a Notification entity to NotificationResponse
func toResponse(n *notification.Notification) notification.NotificationResponse {
	return notification.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// GetNotifications retrieves paginated notifications for a user
func (s *service) GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.repo.GetByUserID(ctx, userID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, err
	}

	unreadCount, err := s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = toResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// MarkAsRead marks specified notifications as read
func (s *service) MarkAsRead(ctx context.Context, userID string, req notification.MarkAsReadRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, req.NotificationIDs, userID)
}

// MarkAllAsRead marks all notifications as read for a user
func (s *service) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// Stop flushes queued notifications and waits for the workers to exit.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
	slog.Info("Notification service stopped")
}
