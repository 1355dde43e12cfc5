package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/peopledesk/hrops-backend-go/internal/domain/notification"
	"github.com/peopledesk/hrops-backend-go/internal/handler/http/response"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/jwt"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/sse"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/validator"
)

type NotificationHandler struct {
	svc notification.Service
	hub *sse.Hub
}

func NewNotificationHandler(svc notification.Service, hub *sse.Hub) NotificationHandler {
	return NotificationHandler{svc: svc, hub: hub}
}

func (h NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 1 {
			response.ValidationError(w, map[string]string{"limit": "must be a positive number"})
			return
		}
		limit = parsed
	}

	notifications, err := h.svc.List(r.Context(), claims.EmployeeID, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, notifications)
}

func (h NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	notificationID := chi.URLParam(r, "notificationID")
	if !validator.IsValidUUID(notificationID) {
		response.ValidationError(w, map[string]string{"notification_id": "must be a valid UUID"})
		return
	}

	if err := h.svc.MarkRead(r.Context(), notificationID, claims.EmployeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notification marked as read", nil)
}

// Stream is the SSE endpoint. Events published to the hub for the caller are
// written as they arrive; a heartbeat comment keeps idle connections alive
// through proxies.
func (h NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events, cleanup := h.hub.Subscribe(claims.EmployeeID)
	defer cleanup()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		case event, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, payload)
			flusher.Flush()
		}
	}
}
