package employee

import (
	"time"
)

type Employee struct {
	ID            string
	FullName      string
	Email         string
	Role          Role
	Status        Status
	WorkingDays   WorkingDays
	LateThreshold *string // "15:04:05"; nil falls back to the org-wide threshold

	// Denormalized leave summary for the current year, maintained by the
	// leave ledger. Recomputed from leave_balances rows on every mutation.
	LeaveTotalDays     int
	LeaveUsedDays      int
	LeaveRemainingDays int

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Role string

const (
	RoleEmployee Role = "employee"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// WorkingDays is the employee's working-day set, a subset of Monday-Friday.
type WorkingDays []time.Weekday

// DefaultWorkingDays is the organization's Monday-Friday week.
var DefaultWorkingDays = WorkingDays{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

func (w WorkingDays) Contains(day time.Weekday) bool {
	for _, d := range w {
		if d == day {
			return true
		}
	}
	return false
}
