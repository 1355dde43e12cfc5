package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/peopledesk/hrops-backend-go/internal/domain/attendance"
	"github.com/peopledesk/hrops-backend-go/internal/handler/http/response"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/jwt"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/validator"
	attendanceService "github.com/peopledesk/hrops-backend-go/internal/service/attendance"
)

type AttendanceHandler struct {
	svc *attendanceService.Service
}

func NewAttendanceHandler(svc *attendanceService.Service) AttendanceHandler {
	return AttendanceHandler{svc: svc}
}

func (h AttendanceHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	at, ok := h.requestTime(w, r)
	if !ok {
		return
	}

	session, err := h.svc.ClockIn(r.Context(), claims.EmployeeID, at)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in", attendance.NewSessionResponse(session))
}

func (h AttendanceHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	at, ok := h.requestTime(w, r)
	if !ok {
		return
	}

	session, err := h.svc.ClockOut(r.Context(), claims.EmployeeID, at)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out", attendance.NewSessionResponse(session))
}

func (h AttendanceHandler) ListMy(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	now := time.Now().UTC()
	from := now.AddDate(0, -1, 0)
	if s := r.URL.Query().Get("from"); s != "" {
		if d, ok := validator.IsValidDate(s); ok {
			from = d
		}
	}
	to := now
	if s := r.URL.Query().Get("to"); s != "" {
		if d, ok := validator.IsValidDate(s); ok {
			to = d
		}
	}

	sessions, err := h.svc.ListByEmployee(r.Context(), claims.EmployeeID, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]attendance.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		resp = append(resp, attendance.NewSessionResponse(s))
	}
	response.Success(w, resp)
}

type manualCloseRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	At         string `json:"at,omitempty"`
}

// ManualClose is the admin fix-up for sessions self clock-out missed.
func (h AttendanceHandler) ManualClose(w http.ResponseWriter, r *http.Request) {
	var req manualCloseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	date, ok := validator.IsValidDate(req.Date)
	if !ok {
		response.ValidationError(w, map[string]string{"date": "must be YYYY-MM-DD"})
		return
	}

	at := time.Now().UTC()
	if req.At != "" {
		parsed, ok := validator.IsValidDateTime(req.At)
		if !ok {
			response.ValidationError(w, map[string]string{"at": "must be an RFC3339 timestamp"})
			return
		}
		at = parsed
	}

	session, err := h.svc.ManualClose(r.Context(), req.EmployeeID, date, at)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Session closed", attendance.NewSessionResponse(session))
}

// requestTime reads the optional "at" override from the body; the server
// clock is the default.
func (h AttendanceHandler) requestTime(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	at := time.Now().UTC()

	if r.Body == nil || r.ContentLength == 0 {
		return at, true
	}

	var req attendance.ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return time.Time{}, false
	}
	if req.At != "" {
		parsed, ok := validator.IsValidDateTime(req.At)
		if !ok {
			response.ValidationError(w, map[string]string{"at": "must be an RFC3339 timestamp"})
			return time.Time{}, false
		}
		at = parsed.UTC()
	}
	return at, true
}
