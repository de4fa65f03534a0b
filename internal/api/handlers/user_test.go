package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okanassist/okanassist-backend/internal/i18n"
	"github.com/okanassist/okanassist-backend/internal/identity"
	"github.com/okanassist/okanassist-backend/internal/models"
)

func TestStart_Authenticated(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, "/start", StartRequest{UserID: "12345", Name: "Ana"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r := decodeReply(t, resp)
	assert.True(t, r.Success)
	assert.Contains(t, r.Message, "Ana")
}

func TestStart_UnauthenticatedGetsWelcome(t *testing.T) {
	app, d := newTestApp(t)
	d.identity.resolveErr = identity.ErrNotRegistered

	resp := postJSON(t, app, "/start", StartRequest{UserID: "12345"})
	require.Equal(t, http.StatusOK, resp.StatusCode, "an unknown user on /start is not an error")

	r := decodeReply(t, resp)
	assert.True(t, r.Success, "the gateway renders it as a normal reply")
	assert.Equal(t, i18n.Message("welcome_unauthenticated", "", nil), r.Message)
}

func TestStart_DeepLinkArgsForwarded(t *testing.T) {
	app, d := newTestApp(t)

	resp := postJSON(t, app, "/start", StartRequest{
		UserID: "12345",
		Name:   "Ana",
		Args:   []string{"3f6f9a1e-0000-4000-8000-000000000001", "x", "America/Sao_Paulo", "BRL"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "3f6f9a1e-0000-4000-8000-000000000001", d.identity.lastAuth.LinkUserID)
	assert.Equal(t, "America/Sao_Paulo", d.identity.lastAuth.Timezone)
	assert.Equal(t, "BRL", d.identity.lastAuth.Currency)
}

func TestHelp(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/help?language_code=pt", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, i18n.Message("help_message", "pt", nil), decodeReply(t, resp).Message)
}

func TestRegister_Success(t *testing.T) {
	app, d := newTestApp(t)
	d.identity.registerSess = authedSession()
	d.identity.password = "q7mKp2vXw9Rt4z"

	resp := postJSON(t, app, "/register", RegisterRequest{
		TelegramID: "12345",
		Name:       "Ana",
		Email:      "ana@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r := decodeReply(t, resp)
	assert.True(t, r.Success)
	assert.Contains(t, r.Message, "Ana")
	assert.Contains(t, r.Message, "q7mKp2vXw9Rt4z", "the one-time password is shown in the reply")
	assert.Contains(t, r.Message, "play.google.com", "default download link")
}

func TestRegister_AlreadyRegisteredShowsEmail(t *testing.T) {
	app, d := newTestApp(t)
	d.identity.registerErr = identity.ErrAlreadyRegistered

	resp := postJSON(t, app, "/register", RegisterRequest{
		TelegramID: "12345",
		Name:       "Ana",
		Email:      "new@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r := decodeReply(t, resp)
	assert.False(t, r.Success)
	assert.Contains(t, r.Message, "ana@example.com", "existing account's email, not the new one")
}

func TestRegister_InvalidEmail(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, "/register", RegisterRequest{
		TelegramID: "12345",
		Name:       "Ana",
		Email:      "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProfile(t *testing.T) {
	app, d := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/profile?user_id=12345", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	m := decodeMap(t, resp)
	assert.Equal(t, true, m["success"])
	userData, ok := m["user_data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, d.identity.sess.Email, userData["email"])
}

func TestUpgrade_NonPremiumGetsPaymentLink(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, "/upgrade", UpgradeRequest{UserID: "12345"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r := decodeReply(t, resp)
	assert.True(t, r.Success)
	assert.Contains(t, r.Message, "https://pay.example.com/premium")
}

func TestUpgrade_AlreadyPremium(t *testing.T) {
	app, d := newTestApp(t)
	d.identity.sess.IsPremium = true

	resp := postJSON(t, app, "/upgrade", UpgradeRequest{UserID: "12345"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r := decodeReply(t, resp)
	assert.False(t, r.Success)
	assert.Equal(t, i18n.Message("already_premium", "en", nil), r.Message)
}

func TestConfirmPayment_ActivatesPremiumAndDropsSession(t *testing.T) {
	app, d := newTestApp(t)
	d.users.user = &models.User{ID: uuid.New(), Email: "ana@example.com", Name: "Ana", TelegramID: "12345"}

	resp := postJSON(t, app, "/webhooks/payment", PaymentWebhook{TelegramID: "12345"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	m := decodeMap(t, resp)
	assert.Equal(t, "success", m["status"])
	assert.True(t, d.users.premiumSet)
	require.NotNil(t, d.users.lastUntil, "missing expiry defaults to one month out")
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 1, 0), *d.users.lastUntil, time.Minute)
	assert.Equal(t, []string{"12345"}, d.identity.invalidated)
}

func TestConfirmPayment_ExplicitExpiry(t *testing.T) {
	app, d := newTestApp(t)
	d.users.user = &models.User{ID: uuid.New(), TelegramID: "12345"}
	until := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	resp := postJSON(t, app, "/webhooks/payment", PaymentWebhook{TelegramID: "12345", PremiumUntil: &until})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, d.users.lastUntil)
	assert.Equal(t, until, *d.users.lastUntil)
}

func TestConfirmPayment_UnknownHandle(t *testing.T) {
	app, d := newTestApp(t)
	d.users.getErr = sql.ErrNoRows

	resp := postJSON(t, app, "/webhooks/payment", PaymentWebhook{TelegramID: "unknown"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, d.users.premiumSet)
}

func TestHealth(t *testing.T) {
	app, d := newTestApp(t)
	d.sessions.Create("12345", *authedSession())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	m := decodeMap(t, resp)
	assert.Equal(t, "healthy", m["status"])
	assert.Equal(t, "okanassist-backend", m["service"])
	assert.Equal(t, float64(1), m["active_sessions"])
}
