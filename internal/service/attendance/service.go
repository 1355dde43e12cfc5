package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/peopledesk/hrops-backend-go/internal/domain/attendance"
	"github.com/peopledesk/hrops-backend-go/internal/domain/employee"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/calendar"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/database"
)

// Service owns the attendance session lifecycle: one session per employee per
// calendar date, open until clocked out or force-closed by the midnight job.
type Service struct {
	tx           database.TxRunner
	sessionRepo  attendance.Repository
	employeeRepo employee.Repository

	// Org-wide policy. Lateness is computed once at clock-in; changing the
	// threshold never recomputes stored sessions.
	defaultThreshold calendar.TimeOfDay
	workdayEnd       calendar.TimeOfDay
}

func NewService(
	tx database.TxRunner,
	sessionRepo attendance.Repository,
	employeeRepo employee.Repository,
	defaultThreshold calendar.TimeOfDay,
	workdayEnd calendar.TimeOfDay,
) *Service {
	return &Service{
		tx:               tx,
		sessionRepo:      sessionRepo,
		employeeRepo:     employeeRepo,
		defaultThreshold: defaultThreshold,
		workdayEnd:       workdayEnd,
	}
}

// ClockIn opens the employee's session for the date of at, computing lateness
// against the employee's threshold (org default when none is assigned).
func (s *Service) ClockIn(ctx context.Context, employeeID string, at time.Time) (attendance.Session, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.Session{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if emp.Status != employee.StatusActive {
		return attendance.Session{}, employee.ErrEmployeeInactive
	}

	date := dateOf(at)

	existing, err := s.sessionRepo.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return attendance.Session{}, fmt.Errorf("failed to check existing session: %w", err)
	}
	if existing != nil {
		return attendance.Session{}, attendance.ErrDuplicateSession
	}

	threshold := s.defaultThreshold
	if emp.LateThreshold != nil {
		threshold, err = calendar.ParseTimeOfDay(*emp.LateThreshold)
		if err != nil {
			return attendance.Session{}, fmt.Errorf("invalid late threshold for employee %s: %w", emp.ID, err)
		}
	}

	isLate, lateMinutes := calendar.Lateness(calendar.TimeOfDayOf(at), threshold)

	// The unique constraint on (employee_id, date) closes the race two
	// concurrent clock-ins leave open between the check above and this insert.
	session, err := s.sessionRepo.Create(ctx, attendance.Session{
		EmployeeID:  employeeID,
		Date:        date,
		ClockIn:     at,
		IsLate:      isLate,
		LateMinutes: lateMinutes,
	})
	if err != nil {
		return attendance.Session{}, err
	}

	slog.Info("employee clocked in",
		"employee_id", employeeID,
		"date", date.Format("2006-01-02"),
		"late", isLate,
		"late_minutes", lateMinutes,
	)
	return session, nil
}

// ClockOut closes the employee's open session for the date of at.
func (s *Service) ClockOut(ctx context.Context, employeeID string, at time.Time) (attendance.Session, error) {
	var session attendance.Session

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		sess, err := s.sessionRepo.GetForUpdate(ctx, employeeID, dateOf(at))
		if err != nil {
			if errors.Is(err, attendance.ErrSessionNotFound) {
				return attendance.ErrNoOpenSession
			}
			return err
		}
		if !sess.Open() {
			return attendance.ErrAlreadyClosed
		}
		if at.Before(sess.ClockIn) {
			return attendance.ErrClockOutBeforeIn
		}

		if err := s.sessionRepo.Close(ctx, sess.ID, at, attendance.ClosedBySelf); err != nil {
			return err
		}

		closedBy := attendance.ClosedBySelf
		sess.ClockOut = &at
		sess.ClosedBy = &closedBy
		session = sess
		return nil
	})
	if err != nil {
		return attendance.Session{}, err
	}
	return session, nil
}

// ManualClose lets an admin terminate a session that self clock-out missed.
func (s *Service) ManualClose(ctx context.Context, employeeID string, date time.Time, at time.Time) (attendance.Session, error) {
	var session attendance.Session

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		sess, err := s.sessionRepo.GetForUpdate(ctx, employeeID, dateOf(date))
		if err != nil {
			return err
		}
		if !sess.Open() {
			return attendance.ErrAlreadyClosed
		}
		if at.Before(sess.ClockIn) {
			return attendance.ErrClockOutBeforeIn
		}

		if err := s.sessionRepo.Close(ctx, sess.ID, at, attendance.ClosedByAdmin); err != nil {
			return err
		}

		closedBy := attendance.ClosedByAdmin
		sess.ClockOut = &at
		sess.ClosedBy = &closedBy
		session = sess
		return nil
	})
	if err != nil {
		return attendance.Session{}, err
	}
	return session, nil
}

// AutoCloseStale force-closes every open session dated before cutoffDate at
// the configured workday end. Idempotent: the closure predicate
// (clock_out IS NULL) is itself the guard, so a re-run for the same cutoff
// closes nothing.
func (s *Service) AutoCloseStale(ctx context.Context, cutoffDate time.Time) ([]attendance.Session, error) {
	closed, err := s.sessionRepo.CloseStaleBefore(ctx, dateOf(cutoffDate), s.workdayEnd.String(), attendance.ClosedByMidnight)
	if err != nil {
		return nil, fmt.Errorf("failed to auto-close stale sessions: %w", err)
	}

	if len(closed) > 0 {
		slog.Info("auto-closed stale attendance sessions", "count", len(closed), "cutoff", dateOf(cutoffDate).Format("2006-01-02"))
	}
	return closed, nil
}

// ListOpenOn returns sessions still open on the date; the checkout-reminder
// sweep feeds on it.
func (s *Service) ListOpenOn(ctx context.Context, date time.Time) ([]attendance.Session, error) {
	return s.sessionRepo.ListOpenOn(ctx, dateOf(date))
}

func (s *Service) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Session, error) {
	return s.sessionRepo.ListByEmployee(ctx, employeeID, dateOf(from), dateOf(to))
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
