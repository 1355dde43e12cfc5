package http

import (
	"net/http"
	"time"

	"github.com/peopledesk/hrops-backend-go/internal/handler/http/response"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/cron"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/validator"
)

// JobsHandler exposes the reconciliation jobs as admin-triggered endpoints,
// used for backfills and as a safety net when the scheduler was down.
type JobsHandler struct {
	jobs *cron.ReconciliationJobs
}

func NewJobsHandler(jobs *cron.ReconciliationJobs) JobsHandler {
	return JobsHandler{jobs: jobs}
}

func (h JobsHandler) RunMidnightCloseout(w http.ResponseWriter, r *http.Request) {
	cutoff := time.Now().UTC()
	if s := r.URL.Query().Get("cutoff"); s != "" {
		parsed, ok := validator.IsValidDate(s)
		if !ok {
			response.ValidationError(w, map[string]string{"cutoff": "must be YYYY-MM-DD"})
			return
		}
		cutoff = parsed
	}

	if err := h.jobs.RunMidnightCloseout(r.Context(), cutoff); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Midnight closeout completed", nil)
}

func (h JobsHandler) RunReminderSweep(w http.ResponseWriter, r *http.Request) {
	if err := h.jobs.RunReminderSweep(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Reminder sweep completed", nil)
}
