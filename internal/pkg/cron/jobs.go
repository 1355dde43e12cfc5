package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/peopledesk/hrops-backend-go/internal/domain/employee"
	"github.com/peopledesk/hrops-backend-go/internal/domain/notification"
	"github.com/peopledesk/hrops-backend-go/internal/domain/task"
	attendanceService "github.com/peopledesk/hrops-backend-go/internal/service/attendance"
)

// ReconciliationJobs holds the two idempotent, externally triggerable
// reconciliation entry points: the midnight attendance closeout and the
// reminder sweep. Both log and continue past single-entity failures; partial
// progress is fine because re-running either job is safe.
type ReconciliationJobs struct {
	attendanceSvc *attendanceService.Service
	notifier      notification.Service
	employeeRepo  employee.Repository
	taskRepo      task.Repository
}

func NewReconciliationJobs(
	attendanceSvc *attendanceService.Service,
	notifier notification.Service,
	employeeRepo employee.Repository,
	taskRepo task.Repository,
) *ReconciliationJobs {
	return &ReconciliationJobs{
		attendanceSvc: attendanceSvc,
		notifier:      notifier,
		employeeRepo:  employeeRepo,
		taskRepo:      taskRepo,
	}
}

func (j *ReconciliationJobs) Register(scheduler *Scheduler, closeoutInterval, reminderInterval time.Duration) {
	scheduler.AddJob("midnight_closeout", closeoutInterval, func(ctx context.Context) error {
		// The ticker fires hourly; actual closeout happens only in the
		// midnight window. The HTTP trigger bypasses this gate.
		if time.Now().UTC().Hour() != 0 {
			return nil
		}
		return j.RunMidnightCloseout(ctx, time.Now().UTC())
	})
	scheduler.AddJob("reminder_sweep", reminderInterval, j.RunReminderSweep)
}

// RunMidnightCloseout force-closes sessions older than cutoffDate and tells
// each affected employee. Safe to re-run: the close is guarded by the open
// predicate and the notifications by the dedup ledger.
func (j *ReconciliationJobs) RunMidnightCloseout(ctx context.Context, cutoffDate time.Time) error {
	closed, err := j.attendanceSvc.AutoCloseStale(ctx, cutoffDate)
	if err != nil {
		return fmt.Errorf("midnight closeout: %w", err)
	}

	for _, session := range closed {
		_, err := j.notifier.TryEmit(ctx, notification.Candidate{
			RecipientID: session.EmployeeID,
			Type:        notification.TypeAutoClosed,
			SubjectKey:  session.ID,
			Title:       "Attendance auto-closed",
			Message: fmt.Sprintf("Your attendance for %s had no clock-out and was closed automatically. Contact HR if this is incorrect.",
				session.Date.Format("2006-01-02")),
			Data: map[string]interface{}{
				"session_id": session.ID,
				"date":       session.Date.Format("2006-01-02"),
			},
		})
		if err != nil {
			slog.Error("closeout notification failed", "session_id", session.ID, "error", err)
			continue
		}
	}

	slog.Info("midnight closeout finished", "closed", len(closed), "cutoff", cutoffDate.Format("2006-01-02"))
	return nil
}

// RunReminderSweep emits today's operational reminders: checkout reminders
// for open sessions, task-due alerts, and registration alerts fanned out to
// active admins. Every emission is deduped per (recipient, subject, day), so
// concurrent or repeated sweeps converge on the same end state.
func (j *ReconciliationJobs) RunReminderSweep(ctx context.Context) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	if err := j.sweepCheckoutReminders(ctx, today); err != nil {
		slog.Error("checkout reminder sweep failed", "error", err)
	}
	if err := j.sweepTaskDueAlerts(ctx, today); err != nil {
		slog.Error("task-due sweep failed", "error", err)
	}
	if err := j.sweepRegistrationAlerts(ctx); err != nil {
		slog.Error("registration alert sweep failed", "error", err)
	}
	return nil
}

func (j *ReconciliationJobs) sweepCheckoutReminders(ctx context.Context, today time.Time) error {
	open, err := j.attendanceSvc.ListOpenOn(ctx, today)
	if err != nil {
		return err
	}

	emitted := 0
	for _, session := range open {
		outcome, err := j.notifier.TryEmit(ctx, notification.Candidate{
			RecipientID: session.EmployeeID,
			Type:        notification.TypeCheckoutReminder,
			SubjectKey:  session.ID,
			Title:       "Don't forget to clock out",
			Message:     "You are still clocked in. Remember to clock out before you leave.",
			Data:        map[string]interface{}{"session_id": session.ID},
		})
		if err != nil {
			slog.Error("checkout reminder failed", "session_id", session.ID, "error", err)
			continue
		}
		if outcome == notification.Emitted {
			emitted++
		}
	}

	slog.Debug("checkout reminder sweep done", "open_sessions", len(open), "emitted", emitted)
	return nil
}

func (j *ReconciliationJobs) sweepTaskDueAlerts(ctx context.Context, today time.Time) error {
	due, err := j.taskRepo.ListDueOn(ctx, today)
	if err != nil {
		return err
	}

	for _, t := range due {
		_, err := j.notifier.TryEmit(ctx, notification.Candidate{
			RecipientID: t.AssigneeID,
			Type:        notification.TypeTaskDue,
			SubjectKey:  t.ID,
			Title:       "Task due today",
			Message:     fmt.Sprintf("%q is due today.", t.Title),
			Data:        map[string]interface{}{"task_id": t.ID},
		})
		if err != nil {
			slog.Error("task-due alert failed", "task_id", t.ID, "error", err)
			continue
		}
	}
	return nil
}

func (j *ReconciliationJobs) sweepRegistrationAlerts(ctx context.Context) error {
	pending, err := j.employeeRepo.GetPendingRegistrations(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	admins, err := j.employeeRepo.GetActiveAdmins(ctx)
	if err != nil {
		return err
	}
	adminIDs := make([]string, 0, len(admins))
	for _, a := range admins {
		adminIDs = append(adminIDs, a.ID)
	}

	for _, newcomer := range pending {
		_, err := j.notifier.EmitToRecipients(ctx, adminIDs, notification.Candidate{
			Type:       notification.TypeRegistrationAlert,
			SubjectKey: newcomer.ID,
			Title:      "New registration awaiting review",
			Message:    fmt.Sprintf("%s registered and is waiting for activation.", newcomer.FullName),
			Data:       map[string]interface{}{"employee_id": newcomer.ID},
		})
		if err != nil {
			slog.Error("registration alert failed", "employee_id", newcomer.ID, "error", err)
			continue
		}
	}
	return nil
}
