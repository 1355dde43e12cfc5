package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/peopledesk/hrops-backend-go/internal/domain/employee"
	"github.com/peopledesk/hrops-backend-go/internal/domain/leave"
	"github.com/peopledesk/hrops-backend-go/internal/domain/notification"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/calendar"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/database"
)

// RequestService drives a leave request through
// pending -> approved | rejected | cancelled, calling the ledger on the
// transitions that move days. The status flip and the ledger mutation share
// one transaction, so an insufficient balance aborts the approval entirely
// and the request stays pending.
type RequestService struct {
	tx           database.TxRunner
	requestRepo  leave.RequestRepository
	employeeRepo employee.Repository
	ledger       *Ledger
	notifier     notification.Service
}

func NewRequestService(
	tx database.TxRunner,
	requestRepo leave.RequestRepository,
	employeeRepo employee.Repository,
	ledger *Ledger,
	notifier notification.Service,
) *RequestService {
	return &RequestService{
		tx:           tx,
		requestRepo:  requestRepo,
		employeeRepo: employeeRepo,
		ledger:       ledger,
		notifier:     notifier,
	}
}

func (s *RequestService) Submit(ctx context.Context, req leave.SubmitRequestRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if emp.Status != employee.StatusActive {
		return leave.LeaveRequest{}, employee.ErrEmployeeInactive
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	workingDays, err := calendar.WeekdayCount(startDate, endDate)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if workingDays == 0 {
		return leave.LeaveRequest{}, leave.ErrZeroDuration
	}

	hasOverlap, err := s.requestRepo.HasOverlapping(ctx, emp.ID, startDate, endDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to check overlapping leave requests: %w", err)
	}
	if hasOverlap {
		return leave.LeaveRequest{}, leave.ErrOverlappingRequest
	}

	request := leave.LeaveRequest{
		EmployeeID:  emp.ID,
		LeaveType:   leave.LeaveType(req.LeaveType),
		StartDate:   startDate,
		EndDate:     endDate,
		WorkingDays: workingDays,
		Reason:      req.Reason,
		Status:      leave.RequestStatusPending,
		IsBackdated: startDate.Before(time.Now().UTC().Truncate(24 * time.Hour)),
	}

	created, err := s.requestRepo.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return created, nil
}

// Approve debits the computed working days and flips the request to approved.
// Only pending requests can be approved.
func (s *RequestService) Approve(ctx context.Context, requestID string, approverID string) (leave.LeaveRequest, error) {
	var request leave.LeaveRequest

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		req, err := s.requestRepo.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != leave.RequestStatusPending {
			return leave.ErrInvalidState
		}

		if _, err := s.ledger.Debit(ctx, req.EmployeeID, req.StartDate.Year(), req.LeaveType, req.WorkingDays); err != nil {
			return err
		}

		decidedAt := time.Now().UTC()
		if err := s.requestRepo.UpdateStatus(ctx, req.ID, leave.RequestStatusApproved, &approverID, &decidedAt, nil); err != nil {
			return err
		}

		req.Status = leave.RequestStatusApproved
		req.DecidedBy = &approverID
		req.DecidedAt = &decidedAt
		request = req
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	s.notifyDecision(ctx, request)
	return request, nil
}

// Reject flips a pending request to rejected. The ledger is never touched: no
// debit has happened yet.
func (s *RequestService) Reject(ctx context.Context, requestID string, approverID string, reason string) (leave.LeaveRequest, error) {
	var request leave.LeaveRequest

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		req, err := s.requestRepo.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != leave.RequestStatusPending {
			return leave.ErrInvalidState
		}

		decidedAt := time.Now().UTC()
		if err := s.requestRepo.UpdateStatus(ctx, req.ID, leave.RequestStatusRejected, &approverID, &decidedAt, &reason); err != nil {
			return err
		}

		req.Status = leave.RequestStatusRejected
		req.RejectionReason = &reason
		req.DecidedBy = &approverID
		req.DecidedAt = &decidedAt
		request = req
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	s.notifyDecision(ctx, request)
	return request, nil
}

// Cancel withdraws a request. From pending it is a plain status flip; from
// approved it credits back exactly the working days the approval debited.
// Rejected and cancelled requests cannot be cancelled.
func (s *RequestService) Cancel(ctx context.Context, requestID string) (leave.LeaveRequest, error) {
	var request leave.LeaveRequest

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		req, err := s.requestRepo.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		switch req.Status {
		case leave.RequestStatusPending:
			// no debit to reverse
		case leave.RequestStatusApproved:
			if _, err := s.ledger.Credit(ctx, req.EmployeeID, req.StartDate.Year(), req.LeaveType, req.WorkingDays); err != nil {
				return err
			}
		default:
			return leave.ErrInvalidState
		}

		decidedAt := time.Now().UTC()
		if err := s.requestRepo.UpdateStatus(ctx, req.ID, leave.RequestStatusCancelled, req.DecidedBy, &decidedAt, nil); err != nil {
			return err
		}

		req.Status = leave.RequestStatusCancelled
		req.DecidedAt = &decidedAt
		request = req
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

func (s *RequestService) GetByID(ctx context.Context, requestID string) (leave.LeaveRequest, error) {
	return s.requestRepo.GetByID(ctx, requestID)
}

func (s *RequestService) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	return s.requestRepo.ListByEmployee(ctx, employeeID)
}

func (s *RequestService) notifyDecision(ctx context.Context, req leave.LeaveRequest) {
	if s.notifier == nil {
		return
	}

	_, err := s.notifier.TryEmit(ctx, notification.Candidate{
		RecipientID: req.EmployeeID,
		Type:        notification.TypeLeaveDecided,
		SubjectKey:  fmt.Sprintf("%s:%s", req.ID, req.Status),
		Title:       "Leave request " + string(req.Status),
		Message: fmt.Sprintf("Your %s leave request for %s to %s was %s",
			req.LeaveType,
			req.StartDate.Format("2006-01-02"),
			req.EndDate.Format("2006-01-02"),
			req.Status,
		),
		Data: map[string]interface{}{
			"request_id": req.ID,
			"status":     string(req.Status),
		},
	})
	if err != nil {
		slog.Error("failed to emit leave decision notification", "request_id", req.ID, "error", err)
	}
}
