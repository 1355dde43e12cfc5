package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/peopledesk/hrops-backend-go/internal/domain/attendance"
	"github.com/peopledesk/hrops-backend-go/internal/domain/employee"
	"github.com/peopledesk/hrops-backend-go/internal/domain/notification"
	"github.com/peopledesk/hrops-backend-go/internal/domain/task"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/calendar"
	attendanceService "github.com/peopledesk/hrops-backend-go/internal/service/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memSessionRepo struct {
	sessions map[string]*attendance.Session
}

func (r *memSessionRepo) Create(ctx context.Context, session attendance.Session) (attendance.Session, error) {
	session.ID = uuid.New().String()
	r.sessions[session.ID] = &session
	return session, nil
}

func (r *memSessionRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Session, error) {
	for _, s := range r.sessions {
		if s.EmployeeID == employeeID && s.Date.Equal(date) {
			found := *s
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memSessionRepo) GetForUpdate(ctx context.Context, employeeID string, date time.Time) (attendance.Session, error) {
	for _, s := range r.sessions {
		if s.EmployeeID == employeeID && s.Date.Equal(date) {
			return *s, nil
		}
	}
	return attendance.Session{}, attendance.ErrSessionNotFound
}

func (r *memSessionRepo) Close(ctx context.Context, id string, clockOut time.Time, closedBy attendance.ClosedBy) error {
	s, ok := r.sessions[id]
	if !ok || s.ClockOut != nil {
		return attendance.ErrAlreadyClosed
	}
	s.ClockOut = &clockOut
	s.ClosedBy = &closedBy
	return nil
}

func (r *memSessionRepo) CloseStaleBefore(ctx context.Context, cutoff time.Time, workdayEnd string, closedBy attendance.ClosedBy) ([]attendance.Session, error) {
	end, err := calendar.ParseTimeOfDay(workdayEnd)
	if err != nil {
		return nil, err
	}

	var closed []attendance.Session
	for _, s := range r.sessions {
		if s.ClockOut == nil && s.Date.Before(cutoff) {
			clockOut := calendar.EndOfWorkday(s.Date, end)
			s.ClockOut = &clockOut
			by := closedBy
			s.ClosedBy = &by
			closed = append(closed, *s)
		}
	}
	return closed, nil
}

func (r *memSessionRepo) ListOpenOn(ctx context.Context, date time.Time) ([]attendance.Session, error) {
	var out []attendance.Session
	for _, s := range r.sessions {
		if s.ClockOut == nil && s.Date.Equal(date) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memSessionRepo) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Session, error) {
	return nil, nil
}

type memEmployeeRepo struct {
	employees []employee.Employee
}

func (r *memEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *memEmployeeRepo) GetActiveAdmins(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.Status == employee.StatusActive && (e.Role == employee.RoleAdmin || e.Role == employee.RoleHR) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEmployeeRepo) GetPendingRegistrations(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.Status == employee.StatusPending {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEmployeeRepo) UpdateLeaveSummary(ctx context.Context, employeeID string, totalDays, usedDays, remainingDays int) error {
	return nil
}

type memTaskRepo struct {
	tasks []task.Task
}

func (r *memTaskRepo) Create(ctx context.Context, t task.Task) (task.Task, error) {
	t.ID = uuid.New().String()
	r.tasks = append(r.tasks, t)
	return t, nil
}

func (r *memTaskRepo) ListDueOn(ctx context.Context, date time.Time) ([]task.Task, error) {
	var out []task.Task
	for _, t := range r.tasks {
		if t.Status == task.StatusOpen && t.DueDate.Equal(date) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTaskRepo) ListByAssignee(ctx context.Context, assigneeID string) ([]task.Task, error) {
	return nil, nil
}

// dedupNotifier reproduces the at-most-once contract in memory.
type dedupNotifier struct {
	seen    map[string]struct{}
	emitted []notification.Candidate
}

func newDedupNotifier() *dedupNotifier {
	return &dedupNotifier{seen: make(map[string]struct{})}
}

func (n *dedupNotifier) TryEmit(ctx context.Context, candidate notification.Candidate) (notification.Outcome, error) {
	key := fmt.Sprintf("%s/%s/%s", candidate.RecipientID, candidate.Type, candidate.SubjectKey)
	if _, ok := n.seen[key]; ok {
		return notification.Suppressed, nil
	}
	n.seen[key] = struct{}{}
	n.emitted = append(n.emitted, candidate)
	return notification.Emitted, nil
}

func (n *dedupNotifier) EmitToRecipients(ctx context.Context, recipientIDs []string, candidate notification.Candidate) (int, error) {
	emitted := 0
	for _, id := range recipientIDs {
		c := candidate
		c.RecipientID = id
		outcome, _ := n.TryEmit(ctx, c)
		if outcome == notification.Emitted {
			emitted++
		}
	}
	return emitted, nil
}

func (n *dedupNotifier) List(ctx context.Context, recipientID string, limit int) ([]notification.Response, error) {
	return nil, nil
}

func (n *dedupNotifier) MarkRead(ctx context.Context, id string, recipientID string) error {
	return nil
}

func (n *dedupNotifier) countByType(typ notification.Type) int {
	count := 0
	for _, c := range n.emitted {
		if c.Type == typ {
			count++
		}
	}
	return count
}

type jobsFixture struct {
	jobs        *ReconciliationJobs
	sessionRepo *memSessionRepo
	notifier    *dedupNotifier
}

func newJobsFixture(t *testing.T, employees []employee.Employee, tasks []task.Task) jobsFixture {
	t.Helper()

	threshold, err := calendar.ParseTimeOfDay("09:00:00")
	require.NoError(t, err)
	workdayEnd, err := calendar.ParseTimeOfDay("17:00:00")
	require.NoError(t, err)

	sessionRepo := &memSessionRepo{sessions: make(map[string]*attendance.Session)}
	employeeRepo := &memEmployeeRepo{employees: employees}
	taskRepo := &memTaskRepo{tasks: tasks}
	notifier := newDedupNotifier()

	svc := attendanceService.NewService(passthroughTx{}, sessionRepo, employeeRepo, threshold, workdayEnd)
	jobs := NewReconciliationJobs(svc, notifier, employeeRepo, taskRepo)

	return jobsFixture{jobs: jobs, sessionRepo: sessionRepo, notifier: notifier}
}

func activeWorker(id string) employee.Employee {
	return employee.Employee{ID: id, Status: employee.StatusActive, Role: employee.RoleEmployee}
}

func TestReconciliationJobs_MidnightCloseout_NotifiesOncePerSession(t *testing.T) {
	ctx := context.Background()
	f := newJobsFixture(t, []employee.Employee{activeWorker("emp-1"), activeWorker("emp-2")}, nil)

	yesterday := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"emp-1", "emp-2"} {
		_, err := f.sessionRepo.Create(ctx, attendance.Session{
			EmployeeID: id,
			Date:       yesterday,
			ClockIn:    yesterday.Add(9 * time.Hour),
		})
		require.NoError(t, err)
	}

	cutoff := time.Date(2026, 6, 2, 0, 5, 0, 0, time.UTC)
	require.NoError(t, f.jobs.RunMidnightCloseout(ctx, cutoff))
	assert.Equal(t, 2, f.notifier.countByType(notification.TypeAutoClosed))

	// Re-running closes nothing and emits nothing new.
	require.NoError(t, f.jobs.RunMidnightCloseout(ctx, cutoff))
	assert.Equal(t, 2, f.notifier.countByType(notification.TypeAutoClosed))
}

func TestReconciliationJobs_ReminderSweep_Converges(t *testing.T) {
	ctx := context.Background()
	today := time.Now().UTC().Truncate(24 * time.Hour)

	admin := employee.Employee{ID: "admin-1", Status: employee.StatusActive, Role: employee.RoleAdmin}
	newcomer := employee.Employee{ID: "newbie-1", FullName: "Rin Okada", Status: employee.StatusPending}

	f := newJobsFixture(t,
		[]employee.Employee{activeWorker("emp-1"), admin, newcomer},
		[]task.Task{{ID: "task-1", AssigneeID: "emp-1", Title: "File Q2 report", DueDate: today, Status: task.StatusOpen}},
	)

	_, err := f.sessionRepo.Create(ctx, attendance.Session{
		EmployeeID: "emp-1",
		Date:       today,
		ClockIn:    today.Add(9 * time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, f.jobs.RunReminderSweep(ctx))
	assert.Equal(t, 1, f.notifier.countByType(notification.TypeCheckoutReminder))
	assert.Equal(t, 1, f.notifier.countByType(notification.TypeTaskDue))
	assert.Equal(t, 1, f.notifier.countByType(notification.TypeRegistrationAlert))

	// A second sweep in the same window is fully suppressed.
	require.NoError(t, f.jobs.RunReminderSweep(ctx))
	assert.Equal(t, 1, f.notifier.countByType(notification.TypeCheckoutReminder))
	assert.Equal(t, 1, f.notifier.countByType(notification.TypeTaskDue))
	assert.Equal(t, 1, f.notifier.countByType(notification.TypeRegistrationAlert))
}
