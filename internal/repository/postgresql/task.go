package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/peopledesk/hrops-backend-go/internal/domain/task"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/database"
)

type taskRepositoryImpl struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.Repository {
	return &taskRepositoryImpl{db: db}
}

const taskColumns = `id, assignee_id, title, due_date, status, created_at, updated_at`

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	err := row.Scan(&t.ID, &t.AssigneeID, &t.Title, &t.DueDate, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *taskRepositoryImpl) Create(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = task.StatusOpen
	}

	query := fmt.Sprintf(`
		INSERT INTO tasks (id, assignee_id, title, due_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`, taskColumns)

	created, err := scanTask(q.QueryRow(ctx, query, t.ID, t.AssigneeID, t.Title, t.DueDate, string(t.Status)))
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

func (r *taskRepositoryImpl) ListDueOn(ctx context.Context, date time.Time) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM tasks
		WHERE due_date = $1 AND status = 'open'
		ORDER BY created_at
	`, taskColumns)

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepositoryImpl) ListByAssignee(ctx context.Context, assigneeID string) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM tasks
		WHERE assignee_id = $1
		ORDER BY due_date
	`, taskColumns)

	rows, err := q.Query(ctx, query, assigneeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
