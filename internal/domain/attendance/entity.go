package attendance

import (
	"time"
)

// Session is one clock-in/clock-out record. Exactly one session exists per
// (employee, calendar date); a session with a nil ClockOut is open.
type Session struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	ClockIn     time.Time
	ClockOut    *time.Time
	IsLate      bool
	LateMinutes int
	ClosedBy    *ClosedBy
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s Session) Open() bool {
	return s.ClockOut == nil
}

// ClosedBy records which path terminated the session.
type ClosedBy string

const (
	ClosedBySelf     ClosedBy = "self"
	ClosedByMidnight ClosedBy = "system-midnight"
	ClosedByAdmin    ClosedBy = "manual-admin"
)
