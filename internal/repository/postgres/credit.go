package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CreditRepository handles the metered-usage ledger
type CreditRepository struct {
	db *sqlx.DB
}

// NewCreditRepository creates a new credit repository
func NewCreditRepository(db *sqlx.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

// Consume checks and deducts credits in one conditional decrement. The check
// and the write are a single statement so no other request for the same user
// can interleave between them. When the condition fails the current balance
// is read back so callers can report what is available.
func (r *CreditRepository) Consume(ctx context.Context, userID uuid.UUID, amount int) (int, bool, error) {
	query := `
		UPDATE users
		SET credits = credits - $2, updated_at = $3
		WHERE id = $1 AND credits >= $2
		RETURNING credits`

	var remaining int
	err := r.db.GetContext(ctx, &remaining, query, userID, amount, time.Now().UTC())
	if err == nil {
		return remaining, true, nil
	}
	if err != sql.ErrNoRows {
		return 0, false, err
	}

	// Conditional write matched nothing: insufficient balance (or unknown
	// user, which reads as zero available).
	available, err := r.Remaining(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	return available, false, nil
}

// Remaining returns the user's current credit balance
func (r *CreditRepository) Remaining(ctx context.Context, userID uuid.UUID) (int, error) {
	var credits int
	err := r.db.GetContext(ctx, &credits, `SELECT credits FROM users WHERE id = $1`, userID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return credits, nil
}

// RecordUsage appends a historical consumption row for a billable operation
func (r *CreditRepository) RecordUsage(ctx context.Context, userID uuid.UUID, operationType string, amount int) error {
	query := `
		INSERT INTO credit_usage (id, user_id, operation_type, credits_used, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, uuid.New(), userID, operationType, amount, time.Now().UTC())
	return err
}
