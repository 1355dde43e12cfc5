package attendance

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, session Session) (Session, error)

	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Session, error)

	// GetForUpdate locks the employee's session on the date for the enclosing
	// transaction. Returns ErrSessionNotFound when none exists.
	GetForUpdate(ctx context.Context, employeeID string, date time.Time) (Session, error)

	// Close terminates a session.
	Close(ctx context.Context, id string, clockOut time.Time, closedBy ClosedBy) error

	// CloseStaleBefore closes every open session dated strictly before cutoff
	// in one statement, stamping each with its own workday-end clock-out and
	// the given closer. The clock_out IS NULL predicate makes re-runs no-ops.
	CloseStaleBefore(ctx context.Context, cutoff time.Time, workdayEnd string, closedBy ClosedBy) ([]Session, error)

	// ListOpenOn returns the sessions still open on the given date.
	ListOpenOn(ctx context.Context, date time.Time) ([]Session, error)

	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Session, error)
}
