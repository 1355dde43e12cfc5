package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/peopledesk/hrops-backend-go/internal/domain/employee"
	"github.com/peopledesk/hrops-backend-go/internal/domain/leave"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/database"
)

// Ledger owns all leave_balances mutation. Every operation runs as one
// transaction: the balance row is locked, counters change, and the employee's
// denormalized summary is recomputed from the source rows before commit. The
// summary is never trusted incrementally, so it cannot drift.
type Ledger struct {
	tx           database.TxRunner
	balanceRepo  leave.BalanceRepository
	employeeRepo employee.Repository
}

func NewLedger(tx database.TxRunner, balanceRepo leave.BalanceRepository, employeeRepo employee.Repository) *Ledger {
	return &Ledger{
		tx:           tx,
		balanceRepo:  balanceRepo,
		employeeRepo: employeeRepo,
	}
}

// Open creates the balance row for (employee, year, type). Called on employee
// activation or first accrual; calling it again for the same key returns the
// existing row untouched.
func (l *Ledger) Open(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, totalDays int) (leave.LeaveBalance, error) {
	if totalDays < 0 {
		return leave.LeaveBalance{}, leave.ErrInvalidDays
	}

	var balance leave.LeaveBalance
	err := l.tx.RunInTx(ctx, func(ctx context.Context) error {
		created, err := l.balanceRepo.Create(ctx, leave.LeaveBalance{
			EmployeeID:    employeeID,
			Year:          year,
			LeaveType:     leaveType,
			TotalDays:     totalDays,
			UsedDays:      0,
			RemainingDays: totalDays,
		})
		if err != nil {
			if errors.Is(err, leave.ErrBalanceExists) {
				balance, err = l.balanceRepo.Get(ctx, employeeID, year, leaveType)
				return err
			}
			return err
		}
		balance = created
		return l.resync(ctx, employeeID, year)
	})
	if err != nil {
		return leave.LeaveBalance{}, err
	}
	return balance, nil
}

// Debit consumes days from the balance. Fails with ErrInsufficientBalance
// when days exceed the remaining balance; nothing is applied partially.
func (l *Ledger) Debit(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (leave.LeaveBalance, error) {
	return l.mutate(ctx, employeeID, year, leaveType, func(b *leave.LeaveBalance) error {
		if days <= 0 {
			return leave.ErrInvalidDays
		}
		if days > b.RemainingDays {
			return leave.ErrInsufficientBalance
		}
		b.UsedDays += days
		b.RemainingDays -= days
		return nil
	})
}

// Credit returns days to the balance, reversing an earlier debit. UsedDays is
// clamped at zero and RemainingDays recomputed from the clamped value, so the
// invariant holds even when a repair credits more than was used.
func (l *Ledger) Credit(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (leave.LeaveBalance, error) {
	return l.mutate(ctx, employeeID, year, leaveType, func(b *leave.LeaveBalance) error {
		if days <= 0 {
			return leave.ErrInvalidDays
		}
		b.UsedDays -= days
		if b.UsedDays < 0 {
			b.UsedDays = 0
		}
		b.RemainingDays = b.TotalDays - b.UsedDays
		return nil
	})
}

// Reset replaces the balance total. When newTotal is below the days already
// used the operation fails with ErrNegativeBalance rather than flooring the
// remainder; the caller must credit back usage first.
func (l *Ledger) Reset(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, newTotal int) (leave.LeaveBalance, error) {
	return l.mutate(ctx, employeeID, year, leaveType, func(b *leave.LeaveBalance) error {
		if newTotal < 0 {
			return leave.ErrInvalidDays
		}
		if newTotal < b.UsedDays {
			return leave.ErrNegativeBalance
		}
		b.TotalDays = newTotal
		b.RemainingDays = newTotal - b.UsedDays
		return nil
	})
}

// Resync recomputes the employee's denormalized leave summary from the
// balance rows for the year. Invoked automatically after every mutation;
// exposed as a repair operation as well.
func (l *Ledger) Resync(ctx context.Context, employeeID string, year int) error {
	return l.tx.RunInTx(ctx, func(ctx context.Context) error {
		return l.resync(ctx, employeeID, year)
	})
}

func (l *Ledger) Balances(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	return l.balanceRepo.ListByEmployeeYear(ctx, employeeID, year)
}

func (l *Ledger) mutate(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, apply func(*leave.LeaveBalance) error) (leave.LeaveBalance, error) {
	var balance leave.LeaveBalance

	err := l.tx.RunInTx(ctx, func(ctx context.Context) error {
		b, err := l.balanceRepo.GetForUpdate(ctx, employeeID, year, leaveType)
		if err != nil {
			return err
		}

		if err := apply(&b); err != nil {
			return err
		}

		if err := checkInvariant(b); err != nil {
			return err
		}

		if err := l.balanceRepo.UpdateCounters(ctx, b.ID, b.TotalDays, b.UsedDays, b.RemainingDays); err != nil {
			return err
		}

		balance = b
		return l.resync(ctx, employeeID, year)
	})
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	slog.Debug("leave balance updated",
		"employee_id", balance.EmployeeID,
		"year", balance.Year,
		"leave_type", balance.LeaveType,
		"used", balance.UsedDays,
		"remaining", balance.RemainingDays,
	)
	return balance, nil
}

func (l *Ledger) resync(ctx context.Context, employeeID string, year int) error {
	balances, err := l.balanceRepo.ListByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return fmt.Errorf("failed to list balances for resync: %w", err)
	}

	var total, used, remaining int
	for _, b := range balances {
		total += b.TotalDays
		used += b.UsedDays
		remaining += b.RemainingDays
	}

	if err := l.employeeRepo.UpdateLeaveSummary(ctx, employeeID, total, used, remaining); err != nil {
		return fmt.Errorf("failed to resync leave summary: %w", err)
	}
	return nil
}

func checkInvariant(b leave.LeaveBalance) error {
	if b.UsedDays < 0 || b.RemainingDays < 0 || b.RemainingDays != b.TotalDays-b.UsedDays {
		return fmt.Errorf("leave balance invariant violated for %s/%d/%s: total=%d used=%d remaining=%d",
			b.EmployeeID, b.Year, b.LeaveType, b.TotalDays, b.UsedDays, b.RemainingDays)
	}
	return nil
}
