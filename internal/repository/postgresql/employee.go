package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/peopledesk/hrops-backend-go/internal/domain/employee"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, full_name, email, role, status, working_days, late_threshold,
	leave_total_days, leave_used_days, leave_remaining_days,
	created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	var workingDays []int16

	err := row.Scan(
		&emp.ID, &emp.FullName, &emp.Email, &emp.Role, &emp.Status,
		&workingDays, &emp.LateThreshold,
		&emp.LeaveTotalDays, &emp.LeaveUsedDays, &emp.LeaveRemainingDays,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	for _, d := range workingDays {
		emp.WorkingDays = append(emp.WorkingDays, time.Weekday(d))
	}
	return emp, nil
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM employees WHERE id = $1`, employeeColumns)

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return emp, nil
}

func (r *employeeRepositoryImpl) GetActiveAdmins(ctx context.Context) ([]employee.Employee, error) {
	return r.list(ctx, fmt.Sprintf(
		`SELECT %s FROM employees WHERE status = 'active' AND role IN ('admin', 'hr') ORDER BY full_name`,
		employeeColumns,
	))
}

func (r *employeeRepositoryImpl) GetPendingRegistrations(ctx context.Context) ([]employee.Employee, error) {
	return r.list(ctx, fmt.Sprintf(
		`SELECT %s FROM employees WHERE status = 'pending' ORDER BY created_at`,
		employeeColumns,
	))
}

func (r *employeeRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (r *employeeRepositoryImpl) UpdateLeaveSummary(ctx context.Context, employeeID string, totalDays, usedDays, remainingDays int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET leave_total_days = $2, leave_used_days = $3, leave_remaining_days = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, employeeID, totalDays, usedDays, remainingDays)
	if err != nil {
		return fmt.Errorf("failed to update leave summary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
