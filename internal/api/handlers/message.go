package handlers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/okanassist/okanassist-backend/internal/agent"
	"github.com/okanassist/okanassist-backend/internal/credits"
	"github.com/okanassist/okanassist-backend/internal/i18n"
	"github.com/okanassist/okanassist-backend/internal/identity"
	"github.com/okanassist/okanassist-backend/internal/llm"
	"github.com/okanassist/okanassist-backend/internal/metrics"
	"github.com/okanassist/okanassist-backend/internal/session"
)

// MessageRequest is a free-text message to route through the agent pipeline
type MessageRequest struct {
	UserID       string `json:"user_id" validate:"required"`
	Message      string `json:"message" validate:"required"`
	LanguageCode string `json:"language_code"`
}

// RouteMessage authenticates, charges one text-message credit, and runs the
// message through the intent router. This is the single place an
// insufficient-credits result is turned into user-facing text.
func (h *Handlers) RouteMessage(c *fiber.Ctx) error {
	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	sess, err := h.identity.ResolveSession(c.Context(), identity.AuthCheckRequest{
		Handle:   req.UserID,
		Language: req.LanguageCode,
	})
	if err != nil {
		return h.authFailed(c, err, req.LanguageCode)
	}

	res, err := h.charge(c, sess, credits.OpTextMessage)
	if err != nil {
		return h.creditDenied(c, sess, err)
	}

	result, err := h.router.RouteMessage(c.Context(), sess, req.Message)
	if err != nil {
		h.log.WithError(err).Error("message routing failed")
		return c.Status(fiber.StatusInternalServerError).
			JSON(reply{Success: false, Message: i18n.Message("generic_error", sess.Language, nil)})
	}

	return ok(c, creditFooter(result, res, sess.Language))
}

// ProcessAudio authenticates, charges one text-message credit, transcribes
// the uploaded voice note, and routes the transcript like a typed message.
func (h *Handlers) ProcessAudio(c *fiber.Ctx) error {
	return h.processDocument(c, credits.OpTextMessage, h.router.RouteAudio)
}

// ProcessReceipt authenticates, charges the receipt cost, and extracts a
// transaction from the uploaded image.
func (h *Handlers) ProcessReceipt(c *fiber.Ctx) error {
	return h.processDocument(c, credits.OpReceipt, h.transactions.ProcessReceipt)
}

// ProcessBankStatement authenticates, charges the statement cost, and
// imports the uploaded statement as a transaction batch.
func (h *Handlers) ProcessBankStatement(c *fiber.Ctx) error {
	return h.processDocument(c, credits.OpBankStatement, h.transactions.ProcessBankStatement)
}

type documentFunc func(ctx context.Context, sess *session.Session, attachment llm.Attachment) (string, error)

func (h *Handlers) processDocument(c *fiber.Ctx, operation string, process documentFunc) error {
	handle := c.FormValue("user_id")
	if handle == "" {
		return fiber.NewError(fiber.StatusBadRequest, "user_id is required")
	}
	lang := c.FormValue("language_code")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}

	sess, err := h.identity.ResolveSession(c.Context(), identity.AuthCheckRequest{Handle: handle, Language: lang})
	if err != nil {
		return h.authFailed(c, err, lang)
	}

	res, err := h.charge(c, sess, operation)
	if err != nil {
		return h.creditDenied(c, sess, err)
	}

	attachment, err := readAttachment(fileHeader)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not read uploaded file")
	}

	result, err := process(c.Context(), sess, attachment)
	if err != nil {
		h.log.WithError(err).WithField("operation", operation).Error("document processing failed")
		return c.Status(fiber.StatusInternalServerError).
			JSON(reply{Success: false, Message: i18n.Message("generic_error", sess.Language, nil)})
	}

	return ok(c, creditFooter(result, res, sess.Language))
}

// SummaryRequest asks for the fixed last-N-days financial summary
type SummaryRequest struct {
	UserID       string `json:"user_id" validate:"required"`
	Days         int    `json:"days"`
	LanguageCode string `json:"language_code"`
}

// TransactionSummary builds the last-N-days summary. Summaries are free.
func (h *Handlers) TransactionSummary(c *fiber.Ctx) error {
	var req SummaryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	sess, err := h.identity.ResolveSession(c.Context(), identity.AuthCheckRequest{
		Handle:   req.UserID,
		Language: req.LanguageCode,
	})
	if err != nil {
		return h.authFailed(c, err, req.LanguageCode)
	}

	result, err := h.transactions.Summary(c.Context(), sess, req.Days)
	if err != nil {
		h.log.WithError(err).Error("transaction summary failed")
		return c.Status(fiber.StatusInternalServerError).
			JSON(reply{Success: false, Message: i18n.Message("generic_error", sess.Language, nil)})
	}
	return ok(c, result)
}

// Reminders lists the user's pending reminders. Listing is free.
func (h *Handlers) Reminders(c *fiber.Ctx) error {
	handle := c.Query("user_id")
	if handle == "" {
		return fiber.NewError(fiber.StatusBadRequest, "user_id is required")
	}
	limit := c.QueryInt("limit", 10)

	sess, err := h.identity.ResolveSession(c.Context(), identity.AuthCheckRequest{Handle: handle})
	if err != nil {
		return h.authFailed(c, err, c.Query("language_code", "en"))
	}

	result, err := h.reminders.List(c.Context(), sess, limit)
	if err != nil {
		h.log.WithError(err).Error("reminder listing failed")
		return c.Status(fiber.StatusInternalServerError).
			JSON(reply{Success: false, Message: i18n.Message("reminder_fetch_failed", sess.Language, nil)})
	}
	return ok(c, result)
}

// BatchNotifyRequest carries due reminders joined with delivery handles
type BatchNotifyRequest struct {
	Reminders []agent.NotifyItem `json:"reminders" validate:"required,dive"`
}

// BatchNotify delivers due-reminder notifications. Service-token guarded;
// called by the scheduler, not by users.
func (h *Handlers) BatchNotify(c *fiber.Ctx) error {
	var req BatchNotifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	notified, err := h.reminders.NotifyBatch(c.Context(), req.Reminders)
	if err != nil {
		h.log.WithError(err).Error("batch notification failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success":        false,
			"notified_count": len(notified),
		})
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"notified_count": len(notified),
		"reminder_ids":   notified,
	})
}

// charge runs the credit check for a billable operation and records metrics
func (h *Handlers) charge(c *fiber.Ctx, sess *session.Session, operation string) (credits.Result, error) {
	res, err := h.guard.CheckAndConsume(c.Context(), sess, operation, credits.Cost[operation])
	if err == nil && !res.IsPremium {
		metrics.CreditsConsumed.WithLabelValues(operation).Add(float64(credits.Cost[operation]))
	}
	return res, err
}

// creditDenied formats the insufficient-credits refusal. Infrastructure
// errors from the ledger stay 500s.
func (h *Handlers) creditDenied(c *fiber.Ctx, sess *session.Session, err error) error {
	if errors.Is(err, credits.ErrInsufficientCredits) {
		metrics.CreditDenials.Inc()
		return refused(c, i18n.Message("insufficient_credits", sess.Language, nil))
	}
	h.log.WithError(err).Error("credit check failed")
	return c.Status(fiber.StatusInternalServerError).
		JSON(reply{Success: false, Message: i18n.Message("generic_error", sess.Language, nil)})
}

func readAttachment(fileHeader *multipart.FileHeader) (llm.Attachment, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return llm.Attachment{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return llm.Attachment{}, err
	}

	mime := fileHeader.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}
	return llm.Attachment{MIME: mime, Data: data}, nil
}
