package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/peopledesk/hrops-backend-go/internal/domain/notification"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/database"
)

type notificationRepositoryImpl struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepositoryImpl{db: db}
}

func (r *notificationRepositoryImpl) Insert(ctx context.Context, record notification.Record) (bool, error) {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	dataJSON, err := json.Marshal(record.Data)
	if err != nil {
		return false, fmt.Errorf("failed to marshal notification data: %w", err)
	}

	// ON CONFLICT DO NOTHING against the unique index on
	// (recipient_id, type, subject_key, emission_date) makes the
	// check-and-insert a single atomic statement. RowsAffected() == 0 means a
	// concurrent or earlier emitter already won.
	query := `
		INSERT INTO notification_log
			(id, recipient_id, type, subject_key, emission_date, title, message, data, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, $9)
		ON CONFLICT (recipient_id, type, subject_key, emission_date) DO NOTHING
	`

	tag, err := q.Exec(ctx, query,
		record.ID, record.RecipientID, string(record.Type), record.SubjectKey,
		record.EmissionDate, record.Title, record.Message, dataJSON, record.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert notification record: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *notificationRepositoryImpl) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]notification.Record, error) {
	q := GetQuerier(ctx, r.db)

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
		SELECT id, recipient_id, type, subject_key, emission_date, title, message, data, is_read, created_at
		FROM notification_log
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]notification.Record, 0)
	for rows.Next() {
		var rec notification.Record
		var dataJSON []byte
		if err := rows.Scan(
			&rec.ID, &rec.RecipientID, &rec.Type, &rec.SubjectKey, &rec.EmissionDate,
			&rec.Title, &rec.Message, &dataJSON, &rec.IsRead, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(dataJSON) > 0 {
			if err := json.Unmarshal(dataJSON, &rec.Data); err != nil {
				return nil, fmt.Errorf("failed to unmarshal notification data: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *notificationRepositoryImpl) MarkRead(ctx context.Context, id string, recipientID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notification_log
		SET is_read = true
		WHERE id = $1 AND recipient_id = $2
	`

	tag, err := q.Exec(ctx, query, id, recipientID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepositoryImpl) CountUnread(ctx context.Context, recipientID string, since time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*) FROM notification_log
		WHERE recipient_id = $1 AND is_read = false AND created_at >= $2
	`

	var count int64
	if err := q.QueryRow(ctx, query, recipientID, since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
