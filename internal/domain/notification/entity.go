package notification

import (
	"time"
)

// Record is the dedup ledger row. The unique key
// (recipient_id, type, subject_key, emission_date) guarantees at most one
// emission per notifiable event per recipient per day; existence of a row
// blocks re-emission.
type Record struct {
	ID           string
	RecipientID  string
	Type         Type
	SubjectKey   string
	EmissionDate time.Time
	Title        string
	Message      string
	Data         map[string]interface{}
	IsRead       bool
	CreatedAt    time.Time
}

type Type string

const (
	TypeCheckoutReminder  Type = "checkout_reminder"
	TypeAutoClosed        Type = "attendance_auto_closed"
	TypeTaskDue           Type = "task_due"
	TypeRegistrationAlert Type = "registration_alert"
	TypeLeaveDecided      Type = "leave_decided"
)

// Outcome reports what TryEmit did.
type Outcome string

const (
	Emitted    Outcome = "emitted"
	Suppressed Outcome = "suppressed"
)
