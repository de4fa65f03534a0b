package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/okanassist/okanassist-backend/internal/models"
)

// ReminderRepository handles reminder data access
type ReminderRepository struct {
	db *sqlx.DB
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db *sqlx.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Save persists a reminder
func (r *ReminderRepository) Save(ctx context.Context, rem *models.Reminder) error {
	now := time.Now().UTC()
	if rem.ID == uuid.Nil {
		rem.ID = uuid.New()
	}
	if rem.CreatedAt.IsZero() {
		rem.CreatedAt = now
	}
	rem.UpdatedAt = now

	query := `
		INSERT INTO reminders (
			id, user_id, title, description, due_datetime, priority,
			reminder_type, is_recurring, recurrence_pattern,
			notification_sent, is_completed, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)`

	_, err := r.db.ExecContext(ctx, query,
		rem.ID, rem.UserID, rem.Title, rem.Description, rem.DueAt, rem.Priority,
		rem.Type, rem.IsRecurring, rem.RecurrencePattern,
		rem.NotificationSent, rem.IsCompleted, rem.CreatedAt, rem.UpdatedAt,
	)
	return err
}

// ListByUser retrieves a user's reminders narrowed by the filter
func (r *ReminderRepository) ListByUser(ctx context.Context, userID uuid.UUID, f models.ReminderFilter) ([]models.Reminder, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT
			id, user_id, title, description, due_datetime, priority,
			reminder_type, is_recurring, recurrence_pattern,
			notification_sent, is_completed, created_at, updated_at
		FROM reminders
		WHERE user_id = $1
		  AND ($2::boolean OR is_completed = false)
		  AND ($3::text IS NULL OR priority = $3)
		  AND ($4::timestamp IS NULL OR due_datetime >= $4)
		  AND ($5::timestamp IS NULL OR due_datetime <= $5)
		ORDER BY due_datetime ASC NULLS LAST
		LIMIT $6`

	var priority *string
	if f.Priority != nil {
		p := string(*f.Priority)
		priority = &p
	}

	var reminders []models.Reminder
	err := r.db.SelectContext(ctx, &reminders, query,
		userID, f.IncludeCompleted, priority, f.Start, f.End, limit)
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

// ClaimNotification marks a reminder notified if and only if it has not been
// notified yet. The conditional write makes concurrent batch runs race-safe:
// exactly one caller observes claimed=true for a given occurrence.
func (r *ReminderRepository) ClaimNotification(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE reminders
		SET notification_sent = true, updated_at = $2
		WHERE id = $1 AND notification_sent = false AND is_completed = false`

	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// UpdateDueDate renews a recurring reminder with a fresh due instant and a
// cleared notification flag, returning it to the pending state
func (r *ReminderRepository) UpdateDueDate(ctx context.Context, id uuid.UUID, due time.Time) error {
	query := `
		UPDATE reminders
		SET due_datetime = $2, notification_sent = false, updated_at = $3
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, due.UTC(), time.Now().UTC())
	return err
}

// MarkCompleteRange completes all pending reminders due within the bounds
func (r *ReminderRepository) MarkCompleteRange(ctx context.Context, userID uuid.UUID, start, end *time.Time) (int64, error) {
	query := `
		UPDATE reminders
		SET is_completed = true, updated_at = $4
		WHERE user_id = $1
		  AND is_completed = false
		  AND ($2::timestamp IS NULL OR due_datetime >= $2)
		  AND ($3::timestamp IS NULL OR due_datetime <= $3)`

	res, err := r.db.ExecContext(ctx, query, userID, start, end, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MarkAllComplete completes every pending reminder for the user
func (r *ReminderRepository) MarkAllComplete(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.MarkCompleteRange(ctx, userID, nil, nil)
}
