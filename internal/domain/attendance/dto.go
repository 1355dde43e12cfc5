package attendance

import (
	"time"

	"github.com/peopledesk/hrops-backend-go/internal/pkg/validator"
)

type ClockRequest struct {
	EmployeeID string `json:"employee_id"`
	// At is optional; when empty the server clock is used.
	At string `json:"at,omitempty"`
}

func (r ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.At != "" {
		if _, ok := validator.IsValidDateTime(r.At); !ok {
			errs = append(errs, validator.ValidationError{Field: "at", Message: "must be an RFC3339 timestamp"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SessionResponse struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employee_id"`
	Date        string     `json:"date"`
	ClockIn     time.Time  `json:"clock_in"`
	ClockOut    *time.Time `json:"clock_out,omitempty"`
	IsLate      bool       `json:"is_late"`
	LateMinutes int        `json:"late_minutes"`
	ClosedBy    *string    `json:"closed_by,omitempty"`
}

func NewSessionResponse(s Session) SessionResponse {
	resp := SessionResponse{
		ID:          s.ID,
		EmployeeID:  s.EmployeeID,
		Date:        s.Date.Format("2006-01-02"),
		ClockIn:     s.ClockIn,
		ClockOut:    s.ClockOut,
		IsLate:      s.IsLate,
		LateMinutes: s.LateMinutes,
	}
	if s.ClosedBy != nil {
		closedBy := string(*s.ClosedBy)
		resp.ClosedBy = &closedBy
	}
	return resp
}
