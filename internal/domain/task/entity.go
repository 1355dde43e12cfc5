package task

import (
	"time"
)

type Task struct {
	ID         string
	AssigneeID string
	Title      string
	DueDate    time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Status string

const (
	StatusOpen Status = "open"
	StatusDone Status = "done"
)
