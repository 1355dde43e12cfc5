package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/peopledesk/hrops-backend-go/internal/domain/employee"
	"github.com/peopledesk/hrops-backend-go/internal/domain/leave"
	"github.com/peopledesk/hrops-backend-go/internal/domain/notification"
)

// passthroughTx satisfies database.TxRunner without a real transaction; the
// in-memory repositories below mutate directly.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memBalanceRepo struct {
	balances map[string]*leave.LeaveBalance
}

func newMemBalanceRepo() *memBalanceRepo {
	return &memBalanceRepo{balances: make(map[string]*leave.LeaveBalance)}
}

func balanceKey(employeeID string, year int, leaveType leave.LeaveType) string {
	return fmt.Sprintf("%s/%d/%s", employeeID, year, leaveType)
}

func (r *memBalanceRepo) Create(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	key := balanceKey(balance.EmployeeID, balance.Year, balance.LeaveType)
	if _, ok := r.balances[key]; ok {
		return leave.LeaveBalance{}, leave.ErrBalanceExists
	}
	balance.ID = uuid.New().String()
	r.balances[key] = &balance
	return balance, nil
}

func (r *memBalanceRepo) Get(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType) (leave.LeaveBalance, error) {
	b, ok := r.balances[balanceKey(employeeID, year, leaveType)]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	return *b, nil
}

func (r *memBalanceRepo) GetForUpdate(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType) (leave.LeaveBalance, error) {
	return r.Get(ctx, employeeID, year, leaveType)
}

func (r *memBalanceRepo) UpdateCounters(ctx context.Context, id string, totalDays, usedDays, remainingDays int) error {
	for _, b := range r.balances {
		if b.ID == id {
			b.TotalDays = totalDays
			b.UsedDays = usedDays
			b.RemainingDays = remainingDays
			return nil
		}
	}
	return leave.ErrBalanceNotFound
}

func (r *memBalanceRepo) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	var out []leave.LeaveBalance
	for _, b := range r.balances {
		if b.EmployeeID == employeeID && b.Year == year {
			out = append(out, *b)
		}
	}
	return out, nil
}

type memRequestRepo struct {
	requests map[string]*leave.LeaveRequest
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: make(map[string]*leave.LeaveRequest)}
}

func (r *memRequestRepo) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	request.ID = uuid.New().String()
	request.CreatedAt = time.Now().UTC()
	r.requests[request.ID] = &request
	return request, nil
}

func (r *memRequestRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrRequestNotFound
	}
	return *req, nil
}

func (r *memRequestRepo) GetForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *memRequestRepo) UpdateStatus(ctx context.Context, id string, status leave.RequestStatus, decidedBy *string, decidedAt *time.Time, rejectionReason *string) error {
	req, ok := r.requests[id]
	if !ok {
		return leave.ErrRequestNotFound
	}
	req.Status = status
	req.DecidedBy = decidedBy
	req.DecidedAt = decidedAt
	req.RejectionReason = rejectionReason
	return nil
}

func (r *memRequestRepo) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	for _, req := range r.requests {
		if req.EmployeeID != employeeID {
			continue
		}
		if req.Status != leave.RequestStatusPending && req.Status != leave.RequestStatusApproved {
			continue
		}
		if !req.StartDate.After(end) && !req.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRequestRepo) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, req := range r.requests {
		if req.EmployeeID == employeeID {
			out = append(out, *req)
		}
	}
	return out, nil
}

type memEmployeeRepo struct {
	employees map[string]*employee.Employee
}

func newMemEmployeeRepo(employees ...employee.Employee) *memEmployeeRepo {
	r := &memEmployeeRepo{employees: make(map[string]*employee.Employee)}
	for i := range employees {
		e := employees[i]
		r.employees[e.ID] = &e
	}
	return r
}

func (r *memEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return *e, nil
}

func (r *memEmployeeRepo) GetActiveAdmins(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.Status == employee.StatusActive && (e.Role == employee.RoleAdmin || e.Role == employee.RoleHR) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *memEmployeeRepo) GetPendingRegistrations(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.Status == employee.StatusPending {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *memEmployeeRepo) UpdateLeaveSummary(ctx context.Context, employeeID string, totalDays, usedDays, remainingDays int) error {
	e, ok := r.employees[employeeID]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.LeaveTotalDays = totalDays
	e.LeaveUsedDays = usedDays
	e.LeaveRemainingDays = remainingDays
	return nil
}

// recordingNotifier captures emissions instead of delivering them.
type recordingNotifier struct {
	emitted []notification.Candidate
}

func (n *recordingNotifier) TryEmit(ctx context.Context, candidate notification.Candidate) (notification.Outcome, error) {
	n.emitted = append(n.emitted, candidate)
	return notification.Emitted, nil
}

func (n *recordingNotifier) EmitToRecipients(ctx context.Context, recipientIDs []string, candidate notification.Candidate) (int, error) {
	for _, id := range recipientIDs {
		c := candidate
		c.RecipientID = id
		n.emitted = append(n.emitted, c)
	}
	return len(recipientIDs), nil
}

func (n *recordingNotifier) List(ctx context.Context, recipientID string, limit int) ([]notification.Response, error) {
	return nil, nil
}

func (n *recordingNotifier) MarkRead(ctx context.Context, id string, recipientID string) error {
	return nil
}
