package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/okanassist/okanassist-backend/internal/agent"
	"github.com/okanassist/okanassist-backend/internal/credits"
	"github.com/okanassist/okanassist-backend/internal/identity"
	"github.com/okanassist/okanassist-backend/internal/llm"
	"github.com/okanassist/okanassist-backend/internal/models"
	"github.com/okanassist/okanassist-backend/internal/session"
)

type fakeIdentity struct {
	sess         *session.Session
	resolveErr   error
	resolveCalls int
	lastAuth     identity.AuthCheckRequest

	registerSess *session.Session
	password     string
	registerErr  error

	invalidated []string
}

func (f *fakeIdentity) ResolveSession(ctx context.Context, req identity.AuthCheckRequest) (*session.Session, error) {
	f.resolveCalls++
	f.lastAuth = req
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.sess, nil
}

func (f *fakeIdentity) Register(ctx context.Context, req identity.RegisterRequest) (*session.Session, string, error) {
	if f.registerErr != nil {
		return nil, "", f.registerErr
	}
	return f.registerSess, f.password, nil
}

func (f *fakeIdentity) Invalidate(handle string) {
	f.invalidated = append(f.invalidated, handle)
}

type fakeGuard struct {
	result     credits.Result
	err        error
	calls      int
	lastOp     string
	lastAmount int
}

func (f *fakeGuard) CheckAndConsume(ctx context.Context, sess *session.Session, operationType string, amount int) (credits.Result, error) {
	f.calls++
	f.lastOp = operationType
	f.lastAmount = amount
	return f.result, f.err
}

type fakeRouter struct {
	reply       string
	err         error
	lastMessage string
	lastAudio   llm.Attachment
	audioCalls  int
}

func (f *fakeRouter) RouteMessage(ctx context.Context, sess *session.Session, message string) (string, error) {
	f.lastMessage = message
	return f.reply, f.err
}

func (f *fakeRouter) RouteAudio(ctx context.Context, sess *session.Session, audio llm.Attachment) (string, error) {
	f.audioCalls++
	f.lastAudio = audio
	return f.reply, f.err
}

type fakeTxService struct {
	receiptReply   string
	statementReply string
	summaryReply   string
	err            error
	lastAttachment llm.Attachment
	lastDays       int
}

func (f *fakeTxService) ProcessReceipt(ctx context.Context, sess *session.Session, attachment llm.Attachment) (string, error) {
	f.lastAttachment = attachment
	return f.receiptReply, f.err
}

func (f *fakeTxService) ProcessBankStatement(ctx context.Context, sess *session.Session, attachment llm.Attachment) (string, error) {
	f.lastAttachment = attachment
	return f.statementReply, f.err
}

func (f *fakeTxService) Summary(ctx context.Context, sess *session.Session, days int) (string, error) {
	f.lastDays = days
	return f.summaryReply, f.err
}

type fakeReminderService struct {
	listReply string
	notified  []uuid.UUID
	err       error
	gotItems  []agent.NotifyItem
	lastLimit int
}

func (f *fakeReminderService) List(ctx context.Context, sess *session.Session, limit int) (string, error) {
	f.lastLimit = limit
	return f.listReply, f.err
}

func (f *fakeReminderService) NotifyBatch(ctx context.Context, items []agent.NotifyItem) ([]uuid.UUID, error) {
	f.gotItems = items
	if f.err != nil {
		return nil, f.err
	}
	return f.notified, nil
}

// fakeUserStore backs the payment webhook path
type fakeUserStore struct {
	user       *models.User
	getErr     error
	premiumSet bool
	lastUntil  *time.Time
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error { return nil }

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeUserStore) GetByHandle(ctx context.Context, telegramID string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.user, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeUserStore) LinkHandle(ctx context.Context, userID uuid.UUID, telegramID string) error {
	return nil
}

func (f *fakeUserStore) SetPremium(ctx context.Context, userID uuid.UUID, premium bool, until *time.Time) error {
	f.premiumSet = premium
	f.lastUntil = until
	return nil
}

// deps bundles the fakes behind one handler set
type deps struct {
	identity     *fakeIdentity
	guard        *fakeGuard
	router       *fakeRouter
	transactions *fakeTxService
	reminders    *fakeReminderService
	users        *fakeUserStore
	sessions     *session.Manager
}

func authedSession() *session.Session {
	return &session.Session{
		UserID:        uuid.NewString(),
		Name:          "Ana",
		Email:         "ana@example.com",
		Language:      "en",
		Timezone:      "UTC",
		Currency:      "USD",
		Authenticated: true,
	}
}

func newTestApp(t *testing.T) (*fiber.App, *deps) {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	d := &deps{
		identity:     &fakeIdentity{sess: authedSession()},
		guard:        &fakeGuard{result: credits.Result{Allowed: true, Remaining: 40}},
		router:       &fakeRouter{reply: "routed"},
		transactions: &fakeTxService{receiptReply: "receipt ok", statementReply: "statement ok", summaryReply: "summary ok"},
		reminders:    &fakeReminderService{listReply: "reminder list"},
		users:        &fakeUserStore{},
		sessions:     session.NewManager(time.Minute),
	}

	h := New(Config{
		Identity:       d.identity,
		Guard:          d.guard,
		Router:         d.router,
		Transactions:   d.transactions,
		Reminders:      d.reminders,
		Users:          d.users,
		Sessions:       d.sessions,
		Log:            log,
		PaymentLinkURL: "https://pay.example.com/premium",
	})

	app := fiber.New()
	app.Post("/start", h.Start)
	app.Get("/help", h.Help)
	app.Post("/register", h.Register)
	app.Get("/profile", h.Profile)
	app.Post("/upgrade", h.Upgrade)
	app.Post("/route-message", h.RouteMessage)
	app.Post("/process-audio", h.ProcessAudio)
	app.Post("/process-receipt", h.ProcessReceipt)
	app.Post("/process-bank-statement", h.ProcessBankStatement)
	app.Post("/get-transaction-summary", h.TransactionSummary)
	app.Get("/get-reminders", h.Reminders)
	app.Post("/batch-notify-reminders", h.BatchNotify)
	app.Post("/webhooks/payment", h.ConfirmPayment)
	app.Get("/health", h.Health)
	return app, d
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeReply(t *testing.T, resp *http.Response) reply {
	t.Helper()
	var r reply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	return r
}

func decodeMap(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return m
}

func multipartUpload(t *testing.T, path, userID string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("user_id", userID))
	part, err := w.CreateFormFile("file", "upload.bin")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
