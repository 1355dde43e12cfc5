package leave

import (
	"context"
	"time"
)

// BalanceRepository owns leave_balances rows. Mutation happens only through
// the ledger, which wraps every call sequence in a transaction.
type BalanceRepository interface {
	Create(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)

	Get(ctx context.Context, employeeID string, year int, leaveType LeaveType) (LeaveBalance, error)

	// GetForUpdate locks the row for the duration of the enclosing
	// transaction, serializing concurrent debits and credits.
	GetForUpdate(ctx context.Context, employeeID string, year int, leaveType LeaveType) (LeaveBalance, error)

	// UpdateCounters persists total/used/remaining for an existing row.
	UpdateCounters(ctx context.Context, id string, totalDays, usedDays, remainingDays int) error

	ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)
}

type RequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)

	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// GetForUpdate locks the request row so racing decisions serialize.
	GetForUpdate(ctx context.Context, id string) (LeaveRequest, error)

	// UpdateStatus flips the request into a decided state.
	UpdateStatus(ctx context.Context, id string, status RequestStatus, decidedBy *string, decidedAt *time.Time, rejectionReason *string) error

	// HasOverlapping reports whether the employee already has a pending or
	// approved request intersecting [start, end].
	HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
}
