package leave

import (
	"context"
	"testing"
	"time"

	"github.com/peopledesk/hrops-backend-go/internal/domain/employee"
	"github.com/peopledesk/hrops-backend-go/internal/domain/leave"
	"github.com/peopledesk/hrops-backend-go/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testApproverID = "f30b6c4e-9d8a-4c2b-8e17-5b2d6c7a8f02"

type requestFixture struct {
	svc          *RequestService
	ledger       *Ledger
	requestRepo  *memRequestRepo
	employeeRepo *memEmployeeRepo
	notifier     *recordingNotifier
}

func newRequestFixture(t *testing.T, status employee.Status) requestFixture {
	t.Helper()

	balanceRepo := newMemBalanceRepo()
	requestRepo := newMemRequestRepo()
	employeeRepo := newMemEmployeeRepo(employee.Employee{
		ID:     testEmployeeID,
		Status: status,
	})
	notifier := &recordingNotifier{}

	ledger := NewLedger(passthroughTx{}, balanceRepo, employeeRepo)
	svc := NewRequestService(passthroughTx{}, requestRepo, employeeRepo, ledger, notifier)

	return requestFixture{
		svc:          svc,
		ledger:       ledger,
		requestRepo:  requestRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
	}
}

func submitPending(t *testing.T, f requestFixture, start, end string) leave.LeaveRequest {
	t.Helper()
	req, err := f.svc.Submit(context.Background(), leave.SubmitRequestRequest{
		EmployeeID: testEmployeeID,
		LeaveType:  string(leave.LeaveTypeAnnual),
		StartDate:  start,
		EndDate:    end,
	})
	require.NoError(t, err)
	return req
}

func TestRequestService_Submit_CountsWorkingDays(t *testing.T) {
	f := newRequestFixture(t, employee.StatusActive)

	// Mon 2026-06-01 through Sun 2026-06-07: five weekdays.
	req := submitPending(t, f, "2026-06-01", "2026-06-07")

	assert.Equal(t, 5, req.WorkingDays)
	assert.Equal(t, leave.RequestStatusPending, req.Status)
	assert.False(t, req.IsBackdated)
}

func TestRequestService_Submit_WeekendOnlyRange(t *testing.T) {
	f := newRequestFixture(t, employee.StatusActive)

	_, err := f.svc.Submit(context.Background(), leave.SubmitRequestRequest{
		EmployeeID: testEmployeeID,
		LeaveType:  string(leave.LeaveTypeAnnual),
		StartDate:  "2026-06-06", // Saturday
		EndDate:    "2026-06-07", // Sunday
	})
	assert.ErrorIs(t, err, leave.ErrZeroDuration)
}

func TestRequestService_Submit_InactiveEmployee(t *testing.T) {
	f := newRequestFixture(t, employee.StatusInactive)

	_, err := f.svc.Submit(context.Background(), leave.SubmitRequestRequest{
		EmployeeID: testEmployeeID,
		LeaveType:  string(leave.LeaveTypeAnnual),
		StartDate:  "2026-06-01",
		EndDate:    "2026-06-02",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestRequestService_Submit_OverlapRejected(t *testing.T) {
	f := newRequestFixture(t, employee.StatusActive)

	submitPending(t, f, "2026-06-01", "2026-06-05")

	_, err := f.svc.Submit(context.Background(), leave.SubmitRequestRequest{
		EmployeeID: testEmployeeID,
		LeaveType:  string(leave.LeaveTypeSick),
		StartDate:  "2026-06-05",
		EndDate:    "2026-06-09",
	})
	assert.ErrorIs(t, err, leave.ErrOverlappingRequest)
}

func TestRequestService_Submit_BackdatedFlag(t *testing.T) {
	f := newRequestFixture(t, employee.StatusActive)

	start := time.Now().UTC().AddDate(0, 0, -10)
	end := start.AddDate(0, 0, 4)
	req, err := f.svc.Submit(context.Background(), leave.SubmitRequestRequest{
		EmployeeID: testEmployeeID,
		LeaveType:  string(leave.LeaveTypeSick),
		StartDate:  start.Format("2006-01-02"),
		EndDate:    end.Format("2006-01-02"),
	})
	require.NoError(t, err)
	assert.True(t, req.IsBackdated)
}

func TestRequestService_Approve_DebitsWorkingDays(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(t, employee.StatusActive)

	_, err := f.ledger.Open(ctx, testEmployeeID, 2026, leave.LeaveTypeAnnual, 12)
	require.NoError(t, err)

	req := submitPending(t, f, "2026-06-01", "2026-06-05")

	approved, err := f.svc.Approve(ctx, req.ID, testApproverID)
	require.NoError(t, err)
	assert.Equal(t, leave.RequestStatusApproved, approved.Status)
	require.NotNil(t, approved.DecidedBy)
	assert.Equal(t, testApproverID, *approved.DecidedBy)

	balances, err := f.ledger.Balances(ctx, testEmployeeID, 2026)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, 5, balances[0].UsedDays)
	assert.Equal(t, 7, balances[0].RemainingDays)

	// The decision reached the employee exactly once.
	require.Len(t, f.notifier.emitted, 1)
	assert.Equal(t, notification.TypeLeaveDecided, f.notifier.emitted[0].Type)
	assert.Equal(t, testEmployeeID, f.notifier.emitted[0].RecipientID)
}

func TestRequestService_Approve_InsufficientBalanceKeepsPending(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(t, employee.StatusActive)

	_, err := f.ledger.Open(ctx, testEmployeeID, 2026, leave.LeaveTypeAnnual, 2)
	require.NoError(t, err)

	req := submitPending(t, f, "2026-06-01", "2026-06-05")

	_, err = f.svc.Approve(ctx, req.ID, testApproverID)
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	current, err := f.svc.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.RequestStatusPending, current.Status)
	assert.Empty(t, f.notifier.emitted)
}

func TestRequestService_Approve_AlreadyDecided(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(t, employee.StatusActive)

	_, err := f.ledger.Open(ctx, testEmployeeID, 2026, leave.LeaveTypeAnnual, 12)
	require.NoError(t, err)

	req := submitPending(t, f, "2026-06-01", "2026-06-05")
	_, err = f.svc.Approve(ctx, req.ID, testApproverID)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, req.ID, testApproverID)
	assert.ErrorIs(t, err, leave.ErrInvalidState)

	// The double approval did not double the debit.
	balances, err := f.ledger.Balances(ctx, testEmployeeID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 5, balances[0].UsedDays)
}

func TestRequestService_Reject_LeavesBalanceUntouched(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(t, employee.StatusActive)

	_, err := f.ledger.Open(ctx, testEmployeeID, 2026, leave.LeaveTypeAnnual, 12)
	require.NoError(t, err)

	req := submitPending(t, f, "2026-06-01", "2026-06-05")

	rejected, err := f.svc.Reject(ctx, req.ID, testApproverID, "headcount too thin that week")
	require.NoError(t, err)
	assert.Equal(t, leave.RequestStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)

	balances, err := f.ledger.Balances(ctx, testEmployeeID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, balances[0].UsedDays)
	assert.Equal(t, 12, balances[0].RemainingDays)
}

func TestRequestService_Cancel_PendingIsPlainFlip(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(t, employee.StatusActive)

	req := submitPending(t, f, "2026-06-01", "2026-06-05")

	cancelled, err := f.svc.Cancel(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.RequestStatusCancelled, cancelled.Status)
}

func TestRequestService_Cancel_ApprovedRestoresBalance(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(t, employee.StatusActive)

	_, err := f.ledger.Open(ctx, testEmployeeID, 2026, leave.LeaveTypeAnnual, 12)
	require.NoError(t, err)

	req := submitPending(t, f, "2026-06-01", "2026-06-05")
	_, err = f.svc.Approve(ctx, req.ID, testApproverID)
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.RequestStatusCancelled, cancelled.Status)

	balances, err := f.ledger.Balances(ctx, testEmployeeID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, balances[0].UsedDays)
	assert.Equal(t, 12, balances[0].RemainingDays)
}

func TestRequestService_NovemberRange_DebitsSixOfTen(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(t, employee.StatusActive)

	_, err := f.ledger.Open(ctx, testEmployeeID, 2025, leave.LeaveTypeAnnual, 10)
	require.NoError(t, err)

	// Nov 16 2025 is a Sunday and Nov 25 a Tuesday: six weekdays in between.
	req := submitPending(t, f, "2025-11-16", "2025-11-25")
	assert.Equal(t, 6, req.WorkingDays)

	_, err = f.svc.Approve(ctx, req.ID, testApproverID)
	require.NoError(t, err)

	balances, err := f.ledger.Balances(ctx, testEmployeeID, 2025)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, 6, balances[0].UsedDays)
	assert.Equal(t, 4, balances[0].RemainingDays)
}

func TestRequestService_Cancel_RejectedIsTerminal(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(t, employee.StatusActive)

	req := submitPending(t, f, "2026-06-01", "2026-06-05")
	_, err := f.svc.Reject(ctx, req.ID, testApproverID, "no")
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, req.ID)
	assert.ErrorIs(t, err, leave.ErrInvalidState)
}
