package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/calendar"
)

const reminderBatchSize = 100

type AbsenceJobs struct {
	absenceRepo absence.Repository
	notifier    notification.Notifier

	// hour of day (UTC) in which reminders go out
	reminderHour int
	now          func() time.Time
}

func NewAbsenceJobs(absenceRepo absence.Repository, notifier notification.Notifier, reminderHour int) *AbsenceJobs {
	if reminderHour < 0 || reminderHour > 23 {
		reminderHour = 8
	}
	return &AbsenceJobs{
		absenceRepo:  absenceRepo,
		notifier:     notifier,
		reminderHour: reminderHour,
		now:          time.Now,
	}
}

func (j *AbsenceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("justification_reminders", 1*time.Hour, j.SendJustificationReminders)
}

// SendJustificationReminders notifies caregivers whose sick leave is past its
// justification due date without a certificate. Each absence is reminded once.
func (j *AbsenceJobs) SendJustificationReminders(ctx context.Context) error {
	now := j.now().UTC()
	if now.Hour() != j.reminderHour {
		return nil
	}

	slog.Info("Cron: Starting justification reminders job")

	today := calendar.DateOnly(now)
	sent := 0
	for {
		overdue, err := j.absenceRepo.ListOverdueJustifications(ctx, today, reminderBatchSize)
		if err != nil {
			return fmt.Errorf("failed to list overdue justifications: %w", err)
		}

		for _, a := range overdue {
			if err := j.absenceRepo.MarkJustificationReminderSent(ctx, a.ID, now); err != nil {
				return fmt.Errorf("failed to mark reminder for absence %s: %w", a.ID, err)
			}
			j.notifier.NotifyJustificationOverdue(ctx, a.EmployeeID, a.ID, *a.JustificationDueDate)
			sent++
		}

		if len(overdue) < reminderBatchSize {
			break
		}
	}

	slog.Info("Cron: Justification reminders sent", "count", sent)
	return nil
}
