package notification

import (
	"context"
	"fmt"

	"github.com/peopledesk/hrops-backend-go/internal/domain/employee"
	"github.com/peopledesk/hrops-backend-go/internal/domain/notification"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/mail"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/sse"
)

// SSEDeliverer pushes emitted notifications to the recipient's open
// event streams.
type SSEDeliverer struct {
	hub *sse.Hub
}

func NewSSEDeliverer(hub *sse.Hub) *SSEDeliverer {
	return &SSEDeliverer{hub: hub}
}

func (d *SSEDeliverer) Deliver(_ context.Context, recipientID string, record notification.Record) error {
	d.hub.Publish(recipientID, sse.Event{
		UserID: recipientID,
		Event:  "notification",
		Data:   notification.NewResponse(record),
	})
	return nil
}

// MailDeliverer sends emitted notifications to the recipient's directory
// email address.
type MailDeliverer struct {
	sender       mail.Sender
	employeeRepo employee.Repository
}

func NewMailDeliverer(sender mail.Sender, employeeRepo employee.Repository) *MailDeliverer {
	return &MailDeliverer{sender: sender, employeeRepo: employeeRepo}
}

func (d *MailDeliverer) Deliver(ctx context.Context, recipientID string, record notification.Record) error {
	emp, err := d.employeeRepo.GetByID(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient %s: %w", recipientID, err)
	}
	return d.sender.Send(emp.Email, record.Title, record.Message)
}
