// Package repository defines the persistence gateway contracts. Storage
// internals are opaque to the core; implementations live in the postgres
// subpackage.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/okanassist/okanassist-backend/internal/models"
)

// UserRepository handles user identity data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByHandle(ctx context.Context, telegramID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// LinkHandle binds an external handle to an existing internal identity
	LinkHandle(ctx context.Context, userID uuid.UUID, telegramID string) error
	SetPremium(ctx context.Context, userID uuid.UUID, premium bool, until *time.Time) error
}

// TransactionRepository handles transaction data access
type TransactionRepository interface {
	Save(ctx context.Context, tx *models.Transaction) error
	ListByUser(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]models.Transaction, error)
	Summary(ctx context.Context, userID uuid.UUID, start, end *time.Time) (*models.TransactionSummary, error)
}

// ReminderRepository handles reminder data access
type ReminderRepository interface {
	Save(ctx context.Context, r *models.Reminder) error
	ListByUser(ctx context.Context, userID uuid.UUID, f models.ReminderFilter) ([]models.Reminder, error)
	// ClaimNotification sets notification_sent for a pending reminder and
	// reports whether this call won the flag. A concurrent batch run that
	// loses the claim must skip both the send and the recurrence renewal.
	ClaimNotification(ctx context.Context, id uuid.UUID) (bool, error)
	// UpdateDueDate renews a recurring reminder: new due instant, cleared
	// notification flag.
	UpdateDueDate(ctx context.Context, id uuid.UUID, due time.Time) error
	MarkCompleteRange(ctx context.Context, userID uuid.UUID, start, end *time.Time) (int64, error)
	MarkAllComplete(ctx context.Context, userID uuid.UUID) (int64, error)
}

// CreditRepository handles the metered-usage ledger
type CreditRepository interface {
	// Consume atomically checks and deducts credits in a single conditional
	// write. ok is false when the balance was insufficient; remaining always
	// reflects the post-call balance.
	Consume(ctx context.Context, userID uuid.UUID, amount int) (remaining int, ok bool, err error)
	Remaining(ctx context.Context, userID uuid.UUID) (int, error)
	RecordUsage(ctx context.Context, userID uuid.UUID, operationType string, amount int) error
}
