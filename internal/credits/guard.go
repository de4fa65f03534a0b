// Package credits enforces the metered-usage policy: one atomic
// check-and-consume per billable operation.
package credits

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/okanassist/okanassist-backend/internal/repository"
	"github.com/okanassist/okanassist-backend/internal/session"
)

// ErrInsufficientCredits is returned when the conditional decrement failed;
// always surfaced to the user, never retried automatically.
var ErrInsufficientCredits = errors.New("insufficient credits")

// Billable operation types and their costs
const (
	OpTextMessage   = "text_message"
	OpReceipt       = "receipt_processing"
	OpBankStatement = "bank_statement"
)

// Cost maps operation types to credit amounts. Unlisted operations are free.
var Cost = map[string]int{
	OpTextMessage:   1,
	OpReceipt:       5,
	OpBankStatement: 5,
}

// LowBalanceThreshold is where replies start carrying a credit warning
const LowBalanceThreshold = 10

// Result reports the outcome of a check-and-consume
type Result struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
	IsPremium bool `json:"is_premium"`
	Needed    int  `json:"needed,omitempty"`
}

// LowBalance reports whether the caller should warn about remaining credits
func (r Result) LowBalance() bool {
	return !r.IsPremium && r.Remaining <= LowBalanceThreshold
}

// Guard performs the atomic quota check for billable operations. Atomicity
// is delegated to the persistence gateway's conditional decrement; the guard
// holds no lock of its own and makes exactly one attempt per request — a
// retry without idempotency keys could double-charge on a doubtful write.
type Guard struct {
	credits repository.CreditRepository
	log     *logrus.Logger
}

// NewGuard creates a credit guard
func NewGuard(credits repository.CreditRepository, log *logrus.Logger) *Guard {
	return &Guard{credits: credits, log: log}
}

// CheckAndConsume deducts the operation's cost from the user's ledger.
// Premium users short-circuit before the ledger is touched. The error is
// ErrInsufficientCredits when the balance did not cover the cost; the
// accompanying Result still carries what is available.
func (g *Guard) CheckAndConsume(ctx context.Context, sess *session.Session, operationType string, amount int) (Result, error) {
	if sess.IsPremium {
		return Result{Allowed: true, IsPremium: true}, nil
	}

	userID, err := uuid.Parse(sess.UserID)
	if err != nil {
		return Result{}, fmt.Errorf("invalid user id %q: %w", sess.UserID, err)
	}

	remaining, ok, err := g.credits.Consume(ctx, userID, amount)
	if err != nil {
		return Result{}, fmt.Errorf("consume credits: %w", err)
	}
	if !ok {
		g.log.WithFields(logrus.Fields{
			"user_id":   sess.UserID,
			"operation": operationType,
			"needed":    amount,
			"available": remaining,
		}).Info("credit check denied")
		return Result{Remaining: remaining, Needed: amount}, ErrInsufficientCredits
	}

	// Usage history is advisory; a failed insert does not undo the charge.
	if err := g.credits.RecordUsage(ctx, userID, operationType, amount); err != nil {
		g.log.WithError(err).WithField("user_id", sess.UserID).Warn("failed to record credit usage")
	}

	return Result{Allowed: true, Remaining: remaining}, nil
}
