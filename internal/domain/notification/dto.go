package notification

import (
	"time"
)

// Candidate is a notification that may or may not be emitted, depending on
// the dedup ledger.
type Candidate struct {
	RecipientID string
	Type        Type
	SubjectKey  string
	Title       string
	Message     string
	Data        map[string]interface{}
}

type Response struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	CreatedAt time.Time              `json:"created_at"`
}

func NewResponse(r Record) Response {
	return Response{
		ID:        r.ID,
		Type:      string(r.Type),
		Title:     r.Title,
		Message:   r.Message,
		Data:      r.Data,
		IsRead:    r.IsRead,
		CreatedAt: r.CreatedAt,
	}
}
