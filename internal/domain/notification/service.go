package notification

import (
	"context"
)

// Service decides whether a candidate notification is emitted and, when it
// is, hands the payload to the delivery collaborators. Delivery is
// fire-and-forget: a failed delivery never rolls back the dedup record.
type Service interface {
	TryEmit(ctx context.Context, candidate Candidate) (Outcome, error)

	// EmitToRecipients fans one event out to several recipients, deduping
	// each independently. Returns how many were actually emitted.
	EmitToRecipients(ctx context.Context, recipientIDs []string, candidate Candidate) (int, error)

	List(ctx context.Context, recipientID string, limit int) ([]Response, error)

	MarkRead(ctx context.Context, id string, recipientID string) error
}

// Deliverer is the external delivery collaborator (in-app stream, email).
type Deliverer interface {
	Deliver(ctx context.Context, recipientID string, record Record) error
}
