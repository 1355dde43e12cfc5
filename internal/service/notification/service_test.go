package notification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/peopledesk/hrops-backend-go/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memNotificationRepo struct {
	records []notification.Record
}

func dedupKey(r notification.Record) string {
	return fmt.Sprintf("%s/%s/%s/%s", r.RecipientID, r.Type, r.SubjectKey, r.EmissionDate.Format("2006-01-02"))
}

func (m *memNotificationRepo) Insert(ctx context.Context, record notification.Record) (bool, error) {
	for _, existing := range m.records {
		if dedupKey(existing) == dedupKey(record) {
			return false, nil
		}
	}
	m.records = append(m.records, record)
	return true, nil
}

func (m *memNotificationRepo) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]notification.Record, error) {
	var out []notification.Record
	for _, r := range m.records {
		if r.RecipientID == recipientID {
			out = append(out, r)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memNotificationRepo) MarkRead(ctx context.Context, id string, recipientID string) error {
	for i, r := range m.records {
		if r.ID == id && r.RecipientID == recipientID {
			m.records[i].IsRead = true
			return nil
		}
	}
	return notification.ErrRecordNotFound
}

func (m *memNotificationRepo) CountUnread(ctx context.Context, recipientID string, since time.Time) (int64, error) {
	var n int64
	for _, r := range m.records {
		if r.RecipientID == recipientID && !r.IsRead && r.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

type captureDeliverer struct {
	delivered []notification.Record
	fail      bool
}

func (d *captureDeliverer) Deliver(ctx context.Context, recipientID string, record notification.Record) error {
	if d.fail {
		return errors.New("smtp unreachable")
	}
	d.delivered = append(d.delivered, record)
	return nil
}

func candidate(recipientID, subjectKey string) notification.Candidate {
	return notification.Candidate{
		RecipientID: recipientID,
		Type:        notification.TypeCheckoutReminder,
		SubjectKey:  subjectKey,
		Title:       "Don't forget to clock out",
		Message:     "You are still clocked in.",
	}
}

func TestService_TryEmit_FirstEmitsThenSuppresses(t *testing.T) {
	ctx := context.Background()
	repo := &memNotificationRepo{}
	deliverer := &captureDeliverer{}
	svc := NewService(repo, deliverer)

	outcome, err := svc.TryEmit(ctx, candidate("emp-1", "session-1"))
	require.NoError(t, err)
	assert.Equal(t, notification.Emitted, outcome)

	outcome, err = svc.TryEmit(ctx, candidate("emp-1", "session-1"))
	require.NoError(t, err)
	assert.Equal(t, notification.Suppressed, outcome)

	// One dedup row, one delivery.
	assert.Len(t, repo.records, 1)
	assert.Len(t, deliverer.delivered, 1)
}

func TestService_TryEmit_DistinctSubjectsBothEmit(t *testing.T) {
	ctx := context.Background()
	repo := &memNotificationRepo{}
	svc := NewService(repo)

	outcome, err := svc.TryEmit(ctx, candidate("emp-1", "session-1"))
	require.NoError(t, err)
	assert.Equal(t, notification.Emitted, outcome)

	outcome, err = svc.TryEmit(ctx, candidate("emp-1", "session-2"))
	require.NoError(t, err)
	assert.Equal(t, notification.Emitted, outcome)

	assert.Len(t, repo.records, 2)
}

func TestService_TryEmit_DeliveryFailureKeepsRecord(t *testing.T) {
	ctx := context.Background()
	repo := &memNotificationRepo{}
	svc := NewService(repo, &captureDeliverer{fail: true})

	outcome, err := svc.TryEmit(ctx, candidate("emp-1", "session-1"))
	require.NoError(t, err)
	assert.Equal(t, notification.Emitted, outcome)

	// The dedup record stands, so the failed delivery is not retried blindly.
	outcome, err = svc.TryEmit(ctx, candidate("emp-1", "session-1"))
	require.NoError(t, err)
	assert.Equal(t, notification.Suppressed, outcome)
}

func TestService_EmitToRecipients_DedupsPerRecipient(t *testing.T) {
	ctx := context.Background()
	repo := &memNotificationRepo{}
	svc := NewService(repo)

	admins := []string{"admin-1", "admin-2", "admin-3"}

	emitted, err := svc.EmitToRecipients(ctx, admins, notification.Candidate{
		Type:       notification.TypeRegistrationAlert,
		SubjectKey: "newcomer-1",
		Title:      "New registration awaiting review",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, emitted)

	// The second sweep finds every admin already notified.
	emitted, err = svc.EmitToRecipients(ctx, admins, notification.Candidate{
		Type:       notification.TypeRegistrationAlert,
		SubjectKey: "newcomer-1",
		Title:      "New registration awaiting review",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, emitted)
}

func TestService_MarkRead_WrongRecipient(t *testing.T) {
	ctx := context.Background()
	repo := &memNotificationRepo{}
	svc := NewService(repo)

	_, err := svc.TryEmit(ctx, candidate("emp-1", "session-1"))
	require.NoError(t, err)
	require.Len(t, repo.records, 1)

	err = svc.MarkRead(ctx, repo.records[0].ID, "emp-2")
	assert.ErrorIs(t, err, notification.ErrRecordNotFound)

	err = svc.MarkRead(ctx, repo.records[0].ID, "emp-1")
	require.NoError(t, err)

	listed, err := svc.List(ctx, "emp-1", 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].IsRead)
}
