package leave

import (
	"time"
)

// LeaveBalance is one row per (employee, year, leave type).
//
// Invariant enforced by the ledger at every exit point:
//
//	RemainingDays == TotalDays - UsedDays, UsedDays >= 0, RemainingDays >= 0
type LeaveBalance struct {
	ID            string
	EmployeeID    string
	Year          int
	LeaveType     LeaveType
	TotalDays     int
	UsedDays      int
	RemainingDays int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "annual"
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypePersonal  LeaveType = "personal"
	LeaveTypeUnpaid    LeaveType = "unpaid"
	LeaveTypeMaternity LeaveType = "maternity"
)

func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypeAnnual, LeaveTypeSick, LeaveTypePersonal, LeaveTypeUnpaid, LeaveTypeMaternity:
		return true
	}
	return false
}

type LeaveRequest struct {
	ID         string
	EmployeeID string
	LeaveType  LeaveType
	StartDate  time.Time
	EndDate    time.Time

	// WorkingDays is the weekday count of [StartDate, EndDate], computed once
	// at submission and debited verbatim on approval.
	WorkingDays int

	Status          RequestStatus
	Reason          *string
	RejectionReason *string
	IsBackdated     bool
	DecidedBy       *string
	DecidedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RequestStatus drives the pending -> approved | rejected | cancelled state
// machine. Terminal states allow no further transition, except that approved
// requests may still be cancelled (a compensating credit, not a re-decision).
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
)
