package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/okanassist/okanassist-backend/internal/models"
)

// UserRepository handles user data access
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			id, email, name, telegram_id, password_hash,
			language, timezone, currency, is_premium, premium_until, credits,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.TelegramID, user.PasswordHash,
		user.Language, user.Timezone, user.Currency, user.IsPremium,
		user.PremiumUntil, user.Credits, user.CreatedAt, user.UpdatedAt,
	)
	return err
}

// GetByID retrieves a user by internal id
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `
		SELECT
			id, email, name, telegram_id, password_hash,
			language, timezone, currency, is_premium, premium_until, credits,
			created_at, updated_at
		FROM users
		WHERE id = $1`

	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByHandle retrieves a user by linked external handle
func (r *UserRepository) GetByHandle(ctx context.Context, telegramID string) (*models.User, error) {
	var user models.User
	query := `
		SELECT
			id, email, name, telegram_id, password_hash,
			language, timezone, currency, is_premium, premium_until, credits,
			created_at, updated_at
		FROM users
		WHERE telegram_id = $1`

	if err := r.db.GetContext(ctx, &user, query, telegramID); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT
			id, email, name, telegram_id, password_hash,
			language, timezone, currency, is_premium, premium_until, credits,
			created_at, updated_at
		FROM users
		WHERE email = $1`

	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// LinkHandle binds an external handle to an existing internal identity
func (r *UserRepository) LinkHandle(ctx context.Context, userID uuid.UUID, telegramID string) error {
	query := `UPDATE users SET telegram_id = $2, updated_at = $3 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, userID, telegramID, time.Now().UTC())
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPremium updates a user's premium status and expiry
func (r *UserRepository) SetPremium(ctx context.Context, userID uuid.UUID, premium bool, until *time.Time) error {
	query := `UPDATE users SET is_premium = $2, premium_until = $3, updated_at = $4 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, userID, premium, until, time.Now().UTC())
	return err
}
