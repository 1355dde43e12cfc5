package task

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, t Task) (Task, error)

	// ListDueOn returns open tasks whose due date falls on the given day; the
	// reminder sweep turns each into a task-due alert.
	ListDueOn(ctx context.Context, date time.Time) ([]Task, error)

	ListByAssignee(ctx context.Context, assigneeID string) ([]Task, error)
}
