package notification

import (
	"context"
	"time"
)

type Repository interface {
	// Insert writes the dedup row. It returns false, without error, when a
	// record with the same (recipient, type, subject key, emission date)
	// already exists; the insert and the existence check are one atomic
	// statement so concurrent emitters cannot both win.
	Insert(ctx context.Context, record Record) (inserted bool, err error)

	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]Record, error)

	MarkRead(ctx context.Context, id string, recipientID string) error

	// CountSince supports the unread badge on the API surface.
	CountUnread(ctx context.Context, recipientID string, since time.Time) (int64, error)
}
