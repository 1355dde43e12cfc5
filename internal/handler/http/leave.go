package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/peopledesk/hrops-backend-go/internal/domain/leave"
	"github.com/peopledesk/hrops-backend-go/internal/handler/http/response"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/jwt"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/validator"
	leaveService "github.com/peopledesk/hrops-backend-go/internal/service/leave"
)

type LeaveHandler struct {
	ledger   *leaveService.Ledger
	requests *leaveService.RequestService
}

func NewLeaveHandler(ledger *leaveService.Ledger, requests *leaveService.RequestService) LeaveHandler {
	return LeaveHandler{ledger: ledger, requests: requests}
}

func (h LeaveHandler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req leave.SubmitRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	// requests are always filed on the caller's own behalf
	req.EmployeeID = claims.EmployeeID

	created, err := h.requests.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", leave.NewRequestResponse(created))
}

func (h LeaveHandler) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	requests, err := h.requests.ListByEmployee(r.Context(), claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]leave.RequestResponse, 0, len(requests))
	for _, req := range requests {
		resp = append(resp, leave.NewRequestResponse(req))
	}
	response.Success(w, resp)
}

func (h LeaveHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")
	if !validator.IsValidUUID(requestID) {
		response.ValidationError(w, map[string]string{"request_id": "must be a valid UUID"})
		return
	}

	request, err := h.requests.GetByID(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewRequestResponse(request))
}

func (h LeaveHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.RequestStatusApproved)
}

func (h LeaveHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.RequestStatusRejected)
}

func (h LeaveHandler) decide(w http.ResponseWriter, r *http.Request, target leave.RequestStatus) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	requestID := chi.URLParam(r, "requestID")
	if !validator.IsValidUUID(requestID) {
		response.ValidationError(w, map[string]string{"request_id": "must be a valid UUID"})
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	var request leave.LeaveRequest
	switch target {
	case leave.RequestStatusApproved:
		request, err = h.requests.Approve(r.Context(), requestID, claims.EmployeeID)
	case leave.RequestStatusRejected:
		if validator.IsEmpty(body.Reason) {
			response.ValidationError(w, map[string]string{"reason": "is required when rejecting"})
			return
		}
		request, err = h.requests.Reject(r.Context(), requestID, claims.EmployeeID, body.Reason)
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request "+string(target), leave.NewRequestResponse(request))
}

func (h LeaveHandler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	requestID := chi.URLParam(r, "requestID")
	if !validator.IsValidUUID(requestID) {
		response.ValidationError(w, map[string]string{"request_id": "must be a valid UUID"})
		return
	}

	existing, err := h.requests.GetByID(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if existing.EmployeeID != claims.EmployeeID {
		response.Forbidden(w, "Only the owner can cancel a leave request")
		return
	}

	request, err := h.requests.Cancel(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", leave.NewRequestResponse(request))
}

func (h LeaveHandler) ListMyBalances(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	year := time.Now().UTC().Year()
	if s := r.URL.Query().Get("year"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			response.ValidationError(w, map[string]string{"year": "must be a number"})
			return
		}
		year = parsed
	}

	balances, err := h.ledger.Balances(r.Context(), claims.EmployeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		resp = append(resp, leave.NewBalanceResponse(b))
	}
	response.Success(w, resp)
}

type openBalanceRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	LeaveType  string `json:"leave_type"`
	TotalDays  int    `json:"total_days"`
}

func (h LeaveHandler) OpenBalance(w http.ResponseWriter, r *http.Request) {
	var req openBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := (leave.ResetBalanceRequest{
		EmployeeID: req.EmployeeID,
		Year:       req.Year,
		LeaveType:  req.LeaveType,
		TotalDays:  req.TotalDays,
	}).Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	balance, err := h.ledger.Open(r.Context(), req.EmployeeID, req.Year, leave.LeaveType(req.LeaveType), req.TotalDays)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave balance opened", leave.NewBalanceResponse(balance))
}

func (h LeaveHandler) ResetBalance(w http.ResponseWriter, r *http.Request) {
	var req leave.ResetBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	balance, err := h.ledger.Reset(r.Context(), req.EmployeeID, req.Year, leave.LeaveType(req.LeaveType), req.TotalDays)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balance reset", leave.NewBalanceResponse(balance))
}

func (h LeaveHandler) ResyncSummary(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if !validator.IsValidUUID(employeeID) {
		response.ValidationError(w, map[string]string{"employee_id": "must be a valid UUID"})
		return
	}

	year := time.Now().UTC().Year()
	if s := r.URL.Query().Get("year"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			response.ValidationError(w, map[string]string{"year": "must be a number"})
			return
		}
		year = parsed
	}

	if err := h.ledger.Resync(r.Context(), employeeID, year); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave summary resynced", nil)
}
