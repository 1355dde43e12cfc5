package leave

import (
	"time"

	"github.com/peopledesk/hrops-backend-go/internal/pkg/validator"
)

type SubmitRequestRequest struct {
	EmployeeID string  `json:"employee_id"`
	LeaveType  string  `json:"leave_type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Reason     *string `json:"reason,omitempty"`
}

func (r SubmitRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !LeaveType(r.LeaveType).Valid() {
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "unknown leave type"})
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecideRequestRequest struct {
	RequestID string `json:"request_id"`
	DeciderID string `json:"decider_id"`
	Reason    string `json:"reason,omitempty"`
}

type ResetBalanceRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	LeaveType  string `json:"leave_type"`
	TotalDays  int    `json:"total_days"`
}

func (r ResetBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !LeaveType(r.LeaveType).Valid() {
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "unknown leave type"})
	}
	if r.Year < 2000 || r.Year > 2200 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "out of range"})
	}
	if r.TotalDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "total_days", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BalanceResponse struct {
	EmployeeID    string `json:"employee_id"`
	Year          int    `json:"year"`
	LeaveType     string `json:"leave_type"`
	TotalDays     int    `json:"total_days"`
	UsedDays      int    `json:"used_days"`
	RemainingDays int    `json:"remaining_days"`
}

func NewBalanceResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		EmployeeID:    b.EmployeeID,
		Year:          b.Year,
		LeaveType:     string(b.LeaveType),
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays,
	}
}

type RequestResponse struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employee_id"`
	LeaveType   string     `json:"leave_type"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	WorkingDays int        `json:"working_days"`
	Status      string     `json:"status"`
	Reason      *string    `json:"reason,omitempty"`
	IsBackdated bool       `json:"is_backdated"`
	DecidedBy   *string    `json:"decided_by,omitempty"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}

func NewRequestResponse(r LeaveRequest) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		LeaveType:   string(r.LeaveType),
		StartDate:   r.StartDate.Format("2006-01-02"),
		EndDate:     r.EndDate.Format("2006-01-02"),
		WorkingDays: r.WorkingDays,
		Status:      string(r.Status),
		Reason:      r.Reason,
		IsBackdated: r.IsBackdated,
		DecidedBy:   r.DecidedBy,
		DecidedAt:   r.DecidedAt,
	}
}
