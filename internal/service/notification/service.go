package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/peopledesk/hrops-backend-go/internal/domain/notification"
)

type service struct {
	repo       notification.Repository
	deliverers []notification.Deliverer
}

// NewService builds the deduplicating notification service. Deliverers are
// best-effort: a delivery failure is logged and the dedup record stands, so
// an event is recorded at most once and delivery attempted at least once.
func NewService(repo notification.Repository, deliverers ...notification.Deliverer) notification.Service {
	return &service{
		repo:       repo,
		deliverers: deliverers,
	}
}

func (s *service) TryEmit(ctx context.Context, candidate notification.Candidate) (notification.Outcome, error) {
	record := notification.Record{
		ID:           uuid.New().String(),
		RecipientID:  candidate.RecipientID,
		Type:         candidate.Type,
		SubjectKey:   candidate.SubjectKey,
		EmissionDate: emissionDate(time.Now()),
		Title:        candidate.Title,
		Message:      candidate.Message,
		Data:         candidate.Data,
		CreatedAt:    time.Now().UTC(),
	}

	inserted, err := s.repo.Insert(ctx, record)
	if err != nil {
		return "", fmt.Errorf("failed to record notification: %w", err)
	}
	if !inserted {
		slog.Debug("notification suppressed",
			"recipient_id", candidate.RecipientID,
			"type", candidate.Type,
			"subject_key", candidate.SubjectKey,
		)
		return notification.Suppressed, nil
	}

	for _, d := range s.deliverers {
		if err := d.Deliver(ctx, record.RecipientID, record); err != nil {
			slog.Error("notification delivery failed",
				"recipient_id", record.RecipientID,
				"type", record.Type,
				"error", err,
			)
		}
	}

	return notification.Emitted, nil
}

func (s *service) EmitToRecipients(ctx context.Context, recipientIDs []string, candidate notification.Candidate) (int, error) {
	emitted := 0
	for _, recipientID := range recipientIDs {
		c := candidate
		c.RecipientID = recipientID

		outcome, err := s.TryEmit(ctx, c)
		if err != nil {
			// keep fanning out; a failed recipient must not starve the rest
			slog.Error("fan-out emission failed", "recipient_id", recipientID, "type", c.Type, "error", err)
			continue
		}
		if outcome == notification.Emitted {
			emitted++
		}
	}
	return emitted, nil
}

func (s *service) List(ctx context.Context, recipientID string, limit int) ([]notification.Response, error) {
	records, err := s.repo.ListByRecipient(ctx, recipientID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]notification.Response, 0, len(records))
	for _, r := range records {
		responses = append(responses, notification.NewResponse(r))
	}
	return responses, nil
}

func (s *service) MarkRead(ctx context.Context, id string, recipientID string) error {
	return s.repo.MarkRead(ctx, id, recipientID)
}

// emissionDate is the dedup day boundary: the UTC calendar date.
func emissionDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
