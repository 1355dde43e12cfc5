package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/peopledesk/hrops-backend-go/internal/domain/attendance"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepositoryImpl{db: db}
}

const sessionColumns = `
	id, employee_id, date, clock_in, clock_out, is_late, late_minutes, closed_by,
	created_at, updated_at
`

func scanSession(row pgx.Row) (attendance.Session, error) {
	var s attendance.Session
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.Date, &s.ClockIn, &s.ClockOut,
		&s.IsLate, &s.LateMinutes, &s.ClosedBy,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *attendanceRepositoryImpl) Create(ctx context.Context, session attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	query := fmt.Sprintf(`
		INSERT INTO attendance_sessions (id, employee_id, date, clock_in, is_late, late_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`, sessionColumns)

	created, err := scanSession(q.QueryRow(ctx, query,
		session.ID, session.EmployeeID, session.Date, session.ClockIn,
		session.IsLate, session.LateMinutes,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique_violation on (employee_id, date)
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Session{}, attendance.ErrDuplicateSession
		}
		return attendance.Session{}, fmt.Errorf("failed to create attendance session: %w", err)
	}
	return created, nil
}

func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM attendance_sessions
		WHERE employee_id = $1 AND date = $2
	`, sessionColumns)

	session, err := scanSession(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *attendanceRepositoryImpl) GetForUpdate(ctx context.Context, employeeID string, date time.Time) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM attendance_sessions
		WHERE employee_id = $1 AND date = $2
		FOR UPDATE
	`, sessionColumns)

	session, err := scanSession(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, err
	}
	return session, nil
}

func (r *attendanceRepositoryImpl) Close(ctx context.Context, id string, clockOut time.Time, closedBy attendance.ClosedBy) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET clock_out = $2, closed_by = $3, updated_at = NOW()
		WHERE id = $1 AND clock_out IS NULL
	`

	tag, err := q.Exec(ctx, query, id, clockOut, string(closedBy))
	if err != nil {
		return fmt.Errorf("failed to close attendance session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAlreadyClosed
	}
	return nil
}

func (r *attendanceRepositoryImpl) CloseStaleBefore(ctx context.Context, cutoff time.Time, workdayEnd string, closedBy attendance.ClosedBy) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	// The clock_out IS NULL predicate is the idempotency guard: a re-run for
	// the same cutoff matches nothing.
	query := fmt.Sprintf(`
		UPDATE attendance_sessions
		SET clock_out = date + $2::time, closed_by = $3, updated_at = NOW()
		WHERE date < $1 AND clock_out IS NULL
		RETURNING %s
	`, sessionColumns)

	rows, err := q.Query(ctx, query, cutoff, workdayEnd, string(closedBy))
	if err != nil {
		return nil, fmt.Errorf("failed to close stale sessions: %w", err)
	}
	defer rows.Close()

	closed := make([]attendance.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		closed = append(closed, s)
	}
	return closed, rows.Err()
}

func (r *attendanceRepositoryImpl) ListOpenOn(ctx context.Context, date time.Time) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM attendance_sessions
		WHERE date = $1 AND clock_out IS NULL
		ORDER BY clock_in
	`, sessionColumns)

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]attendance.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM attendance_sessions
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date DESC
	`, sessionColumns)

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]attendance.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
