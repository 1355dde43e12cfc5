package employee

import (
	"context"
)

// Repository reads the directory. Identity fields are owned by the directory
// service and never mutated here; only the leave summary columns are written,
// and only by the leave ledger's resync.
type Repository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetActiveAdmins returns active admin/HR employees, the recipients of
	// registration alerts.
	GetActiveAdmins(ctx context.Context) ([]Employee, error)

	// GetPendingRegistrations returns employees still awaiting activation.
	GetPendingRegistrations(ctx context.Context) ([]Employee, error)

	// UpdateLeaveSummary overwrites the denormalized leave summary columns.
	UpdateLeaveSummary(ctx context.Context, employeeID string, totalDays, usedDays, remainingDays int) error
}
