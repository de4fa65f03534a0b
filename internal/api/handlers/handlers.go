// Package handlers implements the HTTP surface. Handlers own translation of
// service errors into localized user-facing replies; the services themselves
// stay message-free.
package handlers

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/okanassist/okanassist-backend/internal/agent"
	"github.com/okanassist/okanassist-backend/internal/credits"
	"github.com/okanassist/okanassist-backend/internal/i18n"
	"github.com/okanassist/okanassist-backend/internal/identity"
	"github.com/okanassist/okanassist-backend/internal/llm"
	"github.com/okanassist/okanassist-backend/internal/repository"
	"github.com/okanassist/okanassist-backend/internal/session"
)

// IdentityService resolves handles to sessions and onboards new users
type IdentityService interface {
	ResolveSession(ctx context.Context, req identity.AuthCheckRequest) (*session.Session, error)
	Register(ctx context.Context, req identity.RegisterRequest) (*session.Session, string, error)
	Invalidate(handle string)
}

// CreditGuard meters billable operations
type CreditGuard interface {
	CheckAndConsume(ctx context.Context, sess *session.Session, operationType string, amount int) (credits.Result, error)
}

// MessageRouter dispatches free-text and voice messages through the agent
// pipeline
type MessageRouter interface {
	RouteMessage(ctx context.Context, sess *session.Session, message string) (string, error)
	RouteAudio(ctx context.Context, sess *session.Session, audio llm.Attachment) (string, error)
}

// TransactionService handles document processing and summaries
type TransactionService interface {
	ProcessReceipt(ctx context.Context, sess *session.Session, attachment llm.Attachment) (string, error)
	ProcessBankStatement(ctx context.Context, sess *session.Session, attachment llm.Attachment) (string, error)
	Summary(ctx context.Context, sess *session.Session, days int) (string, error)
}

// ReminderService lists reminders and runs notification batches
type ReminderService interface {
	List(ctx context.Context, sess *session.Session, limit int) (string, error)
	NotifyBatch(ctx context.Context, items []agent.NotifyItem) ([]uuid.UUID, error)
}

// Handlers carries the wired services behind the HTTP surface
type Handlers struct {
	identity     IdentityService
	guard        CreditGuard
	router       MessageRouter
	transactions TransactionService
	reminders    ReminderService
	users        repository.UserRepository
	sessions     *session.Manager
	validate     *validator.Validate
	log          *logrus.Logger

	paymentLinkURL string
	downloadURL    string
}

// Config bundles the handler dependencies
type Config struct {
	Identity       IdentityService
	Guard          CreditGuard
	Router         MessageRouter
	Transactions   TransactionService
	Reminders      ReminderService
	Users          repository.UserRepository
	Sessions       *session.Manager
	Log            *logrus.Logger
	PaymentLinkURL string
	DownloadURL    string
}

// New creates the handler set
func New(cfg Config) *Handlers {
	downloadURL := cfg.DownloadURL
	if downloadURL == "" {
		downloadURL = "https://play.google.com/store/apps/details?id=com.okanassist"
	}
	return &Handlers{
		identity:       cfg.Identity,
		guard:          cfg.Guard,
		router:         cfg.Router,
		transactions:   cfg.Transactions,
		reminders:      cfg.Reminders,
		users:          cfg.Users,
		sessions:       cfg.Sessions,
		validate:       validator.New(),
		log:            cfg.Log,
		paymentLinkURL: cfg.PaymentLinkURL,
		downloadURL:    downloadURL,
	}
}

// reply is the uniform envelope the bot gateway consumes
type reply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ok(c *fiber.Ctx, message string) error {
	return c.JSON(reply{Success: true, Message: message})
}

func refused(c *fiber.Ctx, message string) error {
	return c.JSON(reply{Success: false, Message: message})
}

// authFailed maps identity errors onto localized messages with a 401. Any
// unexpected error stays a 500 so upstream retries treat it as transient.
func (h *Handlers) authFailed(c *fiber.Ctx, err error, lang string) error {
	key := ""
	switch err {
	case identity.ErrNotRegistered:
		key = "user_not_registered"
	case identity.ErrLinkFailed:
		key = "link_failed"
	case identity.ErrIncomplete:
		key = "failed_retrieve_user_data"
	}
	if key == "" {
		h.log.WithError(err).Error("authentication failed unexpectedly")
		return c.Status(fiber.StatusInternalServerError).
			JSON(reply{Success: false, Message: i18n.Message("generic_error", lang, nil)})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(reply{Success: false, Message: i18n.Message(key, lang, nil)})
}

// creditFooter appends the remaining-balance warning to a reply when the
// balance is low. Premium sessions never carry a footer.
func creditFooter(message string, res credits.Result, lang string) string {
	if !res.LowBalance() {
		return message
	}
	message += i18n.Message("credit_warning", lang, i18n.Args{
		"credits_remaining": strconv.Itoa(res.Remaining),
	})
	message += i18n.Message("credit_low", lang, nil)
	return message
}
