package response

import (
	"errors"
	"net/http"

	"github.com/peopledesk/hrops-backend-go/internal/domain/attendance"
	"github.com/peopledesk/hrops-backend-go/internal/domain/employee"
	"github.com/peopledesk/hrops-backend-go/internal/domain/leave"
	"github.com/peopledesk/hrops-backend-go/internal/domain/notification"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/calendar"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Validation-class errors: rejected before any mutation
	case errors.Is(err, calendar.ErrInvalidRange):
		BadRequest(w, "End date is before start date", nil)
	case errors.Is(err, leave.ErrZeroDuration):
		BadRequest(w, "Leave range contains no working days", nil)
	case errors.Is(err, leave.ErrInvalidDays):
		BadRequest(w, "Days must be positive", nil)

	// Business-rule rejections: surfaced verbatim to the approver
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrNegativeBalance):
		BadRequest(w, "Operation would make remaining balance negative", nil)

	// State conflicts: caller must re-fetch current state
	case errors.Is(err, leave.ErrInvalidState):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrOverlappingRequest):
		Conflict(w, "Leave request overlaps an existing request")
	case errors.Is(err, leave.ErrBalanceExists):
		Conflict(w, "Leave balance already exists")
	case errors.Is(err, attendance.ErrDuplicateSession):
		Conflict(w, "Already clocked in today")
	case errors.Is(err, attendance.ErrAlreadyClosed):
		Conflict(w, "Session is already closed")
	case errors.Is(err, attendance.ErrClockOutBeforeIn):
		BadRequest(w, "Clock-out is before clock-in", nil)
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is not active")

	// Not found
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, attendance.ErrNoOpenSession):
		NotFound(w, "No open session to clock out of")
	case errors.Is(err, attendance.ErrSessionNotFound):
		NotFound(w, "Session not found")
	case errors.Is(err, notification.ErrRecordNotFound):
		NotFound(w, "Notification not found")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
