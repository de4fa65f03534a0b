package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user in the system
type User struct {
	ID           uuid.UUID  `json:"user_id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Name         string     `json:"name" db:"name"`
	TelegramID   string     `json:"telegram_id" db:"telegram_id"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never expose
	Language     string     `json:"language" db:"language"`
	Timezone     string     `json:"timezone" db:"timezone"`
	Currency     string     `json:"currency" db:"currency"`
	IsPremium    bool       `json:"is_premium" db:"is_premium"`
	PremiumUntil *time.Time `json:"premium_until" db:"premium_until"`
	Credits      int        `json:"credits" db:"credits"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Premium reports whether the user currently bypasses credit metering.
// A premium flag with an elapsed expiry no longer counts.
func (u *User) Premium() bool {
	if !u.IsPremium {
		return false
	}
	if u.PremiumUntil != nil && u.PremiumUntil.Before(time.Now()) {
		return false
	}
	return true
}

// Complete reports whether the record carries every field the rest of the
// pipeline relies on. Partially-populated records must never leave the
// identity layer.
func (u *User) Complete() bool {
	return u.ID != uuid.Nil && u.Email != "" && u.Name != ""
}

// CreditUsage records a single metered operation against a user's ledger
type CreditUsage struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	OperationType string    `json:"operation_type" db:"operation_type"`
	CreditsUsed   int       `json:"credits_used" db:"credits_used"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
