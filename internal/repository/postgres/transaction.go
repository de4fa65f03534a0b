package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/okanassist/okanassist-backend/internal/models"
)

// TransactionRepository handles transaction data access
type TransactionRepository struct {
	db *sqlx.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Save persists a transaction
func (r *TransactionRepository) Save(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO transactions (
			id, user_id, amount, description, category, transaction_type,
			merchant, confidence_score, source, original_message, occurred_on,
			created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID, tx.UserID, tx.Amount, tx.Description, tx.Category, tx.Type,
		tx.Merchant, tx.Confidence, tx.Source, tx.OriginalMessage, tx.OccurredOn,
		tx.CreatedAt,
	)
	return err
}

// ListByUser retrieves a user's transactions within optional bounds
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]models.Transaction, error) {
	query := `
		SELECT
			id, user_id, amount, description, category, transaction_type,
			merchant, confidence_score, source, original_message, occurred_on,
			created_at
		FROM transactions
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC`

	var txs []models.Transaction
	if err := r.db.SelectContext(ctx, &txs, query, userID, start, end); err != nil {
		return nil, err
	}
	return txs, nil
}

// Summary aggregates a user's income and expenses within optional bounds
func (r *TransactionRepository) Summary(ctx context.Context, userID uuid.UUID, start, end *time.Time) (*models.TransactionSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'income'), 0)  AS total_income,
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'expense'), 0) AS total_expenses,
			COUNT(*) FILTER (WHERE transaction_type = 'income')                  AS income_count,
			COUNT(*) FILTER (WHERE transaction_type = 'expense')                 AS expense_count
		FROM transactions
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)`

	var summary models.TransactionSummary
	if err := r.db.GetContext(ctx, &summary, query, userID, start, end); err != nil {
		return nil, err
	}

	catQuery := `
		SELECT category, SUM(amount) AS total
		FROM transactions
		WHERE user_id = $1
		  AND transaction_type = 'expense'
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		GROUP BY category
		ORDER BY total DESC
		LIMIT 5`

	if err := r.db.SelectContext(ctx, &summary.TopCategories, catQuery, userID, start, end); err != nil {
		return nil, err
	}

	if start != nil && end != nil {
		summary.PeriodDays = int(end.Sub(*start).Hours()/24) + 1
	}
	return &summary, nil
}
