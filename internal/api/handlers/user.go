package handlers

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/okanassist/okanassist-backend/internal/i18n"
	"github.com/okanassist/okanassist-backend/internal/identity"
)

// StartRequest is the /start command payload. Args carries deep-link
// parameters: [0] is an internal-id hint for account linking, [2] and [3]
// optional timezone and currency.
type StartRequest struct {
	UserID       string   `json:"user_id" validate:"required"`
	Name         string   `json:"name"`
	LanguageCode string   `json:"language_code"`
	Args         []string `json:"args"`
}

// Start handles the /start command. An unauthenticated user is not an
// error here: they get the onboarding welcome with success=true so the bot
// gateway renders it as a normal reply.
func (h *Handlers) Start(c *fiber.Ctx) error {
	var req StartRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	auth := identity.AuthCheckRequest{
		Handle:   req.UserID,
		Name:     req.Name,
		Language: req.LanguageCode,
	}
	if len(req.Args) > 0 {
		auth.LinkUserID = req.Args[0]
	}
	if len(req.Args) > 2 {
		auth.Timezone = req.Args[2]
	}
	if len(req.Args) > 3 {
		auth.Currency = req.Args[3]
	}

	sess, err := h.identity.ResolveSession(c.Context(), auth)
	if err != nil {
		return ok(c, i18n.Message("welcome_unauthenticated", req.LanguageCode, nil))
	}

	return ok(c, i18n.Message("welcome_authenticated", sess.Language, i18n.Args{
		"name": sess.Name,
	}))
}

// Help returns the command reference. No authentication required.
func (h *Handlers) Help(c *fiber.Ctx) error {
	lang := c.Query("language_code", "en")
	return ok(c, i18n.Message("help_message", lang, nil))
}

// RegisterRequest is the /register command payload
type RegisterRequest struct {
	TelegramID   string `json:"telegram_id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	LanguageCode string `json:"language_code"`
	Timezone     string `json:"timezone"`
}

// Register onboards a new user and returns the one-time mobile-app password
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	lang := req.LanguageCode

	sess, password, err := h.identity.Register(c.Context(), identity.RegisterRequest{
		Handle:   req.TelegramID,
		Name:     req.Name,
		Email:    req.Email,
		Language: lang,
		Timezone: req.Timezone,
	})
	if err != nil {
		if errors.Is(err, identity.ErrAlreadyRegistered) {
			email := "unknown"
			if existing, rerr := h.identity.ResolveSession(c.Context(), identity.AuthCheckRequest{Handle: req.TelegramID}); rerr == nil {
				email = existing.Email
			}
			return refused(c, i18n.Message("already_registered", lang, i18n.Args{"email": email}))
		}
		h.log.WithError(err).WithField("handle", req.TelegramID).Error("registration failed")
		return refused(c, i18n.Message("registration_failed", lang, i18n.Args{"message": err.Error()}))
	}

	return ok(c, i18n.Message("registration_success", sess.Language, i18n.Args{
		"name":         sess.Name,
		"password":     password,
		"download_url": h.downloadURL,
	}))
}

// Profile returns the resolved session state for a handle
func (h *Handlers) Profile(c *fiber.Ctx) error {
	handle := c.Query("user_id")
	if handle == "" {
		return fiber.NewError(fiber.StatusBadRequest, "user_id is required")
	}

	sess, err := h.identity.ResolveSession(c.Context(), identity.AuthCheckRequest{Handle: handle})
	if err != nil {
		return h.authFailed(c, err, c.Query("language_code", "en"))
	}

	return c.JSON(fiber.Map{"success": true, "user_data": sess})
}

// UpgradeRequest asks for a premium payment link
type UpgradeRequest struct {
	UserID       string `json:"user_id" validate:"required"`
	LanguageCode string `json:"language_code"`
}

// Upgrade hands out the payment link for non-premium users
func (h *Handlers) Upgrade(c *fiber.Ctx) error {
	var req UpgradeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	sess, err := h.identity.ResolveSession(c.Context(), identity.AuthCheckRequest{Handle: req.UserID})
	if err != nil {
		return h.authFailed(c, err, req.LanguageCode)
	}
	if sess.IsPremium {
		return refused(c, i18n.Message("already_premium", sess.Language, nil))
	}

	return ok(c, i18n.Message("upgrade_to_premium", sess.Language, i18n.Args{
		"payment_url": h.paymentLinkURL,
	}))
}

// PaymentWebhook is the payment provider's confirmation callback, guarded by
// the service token middleware.
type PaymentWebhook struct {
	TelegramID   string     `json:"telegram_id" validate:"required"`
	PremiumUntil *time.Time `json:"premium_until"`
}

// ConfirmPayment flips the user to premium and drops the cached session so
// the next request resolves the fresh state.
func (h *Handlers) ConfirmPayment(c *fiber.Ctx) error {
	var req PaymentWebhook
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	user, err := h.users.GetByHandle(c.Context(), req.TelegramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "failed"})
		}
		h.log.WithError(err).Error("payment confirmation lookup failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error"})
	}

	until := req.PremiumUntil
	if until == nil {
		t := time.Now().UTC().AddDate(0, 1, 0)
		until = &t
	}
	if err := h.users.SetPremium(c.Context(), user.ID, true, until); err != nil {
		h.log.WithError(err).Error("payment confirmation update failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error"})
	}

	h.identity.Invalidate(req.TelegramID)
	h.log.WithField("handle", req.TelegramID).Info("premium activated")
	return c.JSON(fiber.Map{"status": "success"})
}

// Health reports service liveness and the current session cache size
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":          "healthy",
		"service":         "okanassist-backend",
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"active_sessions": h.sessions.Len(),
	})
}
