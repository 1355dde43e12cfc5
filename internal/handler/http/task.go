package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/peopledesk/hrops-backend-go/internal/domain/task"
	"github.com/peopledesk/hrops-backend-go/internal/handler/http/response"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/jwt"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/validator"
)

type TaskHandler struct {
	repo task.Repository
}

func NewTaskHandler(repo task.Repository) TaskHandler {
	return TaskHandler{repo: repo}
}

type createTaskRequest struct {
	AssigneeID string `json:"assignee_id"`
	Title      string `json:"title"`
	DueDate    string `json:"due_date"`
}

type taskResponse struct {
	ID         string `json:"id"`
	AssigneeID string `json:"assignee_id"`
	Title      string `json:"title"`
	DueDate    string `json:"due_date"`
	Status     string `json:"status"`
}

func newTaskResponse(t task.Task) taskResponse {
	return taskResponse{
		ID:         t.ID,
		AssigneeID: t.AssigneeID,
		Title:      t.Title,
		DueDate:    t.DueDate.Format("2006-01-02"),
		Status:     string(t.Status),
	}
}

func (h TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	details := map[string]string{}
	if validator.IsEmpty(req.AssigneeID) {
		details["assignee_id"] = "is required"
	}
	if validator.IsEmpty(req.Title) {
		details["title"] = "is required"
	}
	dueDate, ok := validator.IsValidDate(req.DueDate)
	if !ok {
		details["due_date"] = "must be YYYY-MM-DD"
	}
	if len(details) > 0 {
		response.ValidationError(w, details)
		return
	}

	created, err := h.repo.Create(r.Context(), task.Task{
		AssigneeID: req.AssigneeID,
		Title:      req.Title,
		DueDate:    dueDate,
		Status:     task.StatusOpen,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Task created", newTaskResponse(created))
}

func (h TaskHandler) ListMy(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	tasks, err := h.repo.ListByAssignee(r.Context(), claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, newTaskResponse(t))
	}
	response.Success(w, resp)
}
