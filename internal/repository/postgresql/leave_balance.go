package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/peopledesk/hrops-backend-go/internal/domain/leave"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const leaveBalanceColumns = `
	id, employee_id, year, leave_type, total_days, used_days, remaining_days,
	created_at, updated_at
`

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.Year, &b.LeaveType,
		&b.TotalDays, &b.UsedDays, &b.RemainingDays,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *leaveBalanceRepositoryImpl) Create(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	if balance.ID == "" {
		balance.ID = uuid.New().String()
	}

	query := fmt.Sprintf(`
		INSERT INTO leave_balances (id, employee_id, year, leave_type, total_days, used_days, remaining_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s
	`, leaveBalanceColumns)

	created, err := scanLeaveBalance(q.QueryRow(ctx, query,
		balance.ID, balance.EmployeeID, balance.Year, string(balance.LeaveType),
		balance.TotalDays, balance.UsedDays, balance.RemainingDays,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique_violation on (employee_id, year, leave_type)
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return leave.LeaveBalance{}, leave.ErrBalanceExists
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}
	return created, nil
}

func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType) (leave.LeaveBalance, error) {
	return r.get(ctx, employeeID, year, leaveType, false)
}

func (r *leaveBalanceRepositoryImpl) GetForUpdate(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType) (leave.LeaveBalance, error) {
	return r.get(ctx, employeeID, year, leaveType, true)
}

func (r *leaveBalanceRepositoryImpl) get(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, forUpdate bool) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM leave_balances
		WHERE employee_id = $1 AND year = $2 AND leave_type = $3
	`, leaveBalanceColumns)
	if forUpdate {
		query += " FOR UPDATE"
	}

	balance, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, year, string(leaveType)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, err
	}
	return balance, nil
}

func (r *leaveBalanceRepositoryImpl) UpdateCounters(ctx context.Context, id string, totalDays, usedDays, remainingDays int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET total_days = $2, used_days = $3, remaining_days = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, totalDays, usedDays, remainingDays)
	if err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}
	return nil
}

func (r *leaveBalanceRepositoryImpl) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM leave_balances
		WHERE employee_id = $1 AND year = $2
		ORDER BY leave_type
	`, leaveBalanceColumns)

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}
