package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okanassist/okanassist-backend/internal/api/handlers"
	"github.com/okanassist/okanassist-backend/internal/llm"
	"github.com/okanassist/okanassist-backend/internal/session"
)

// stubRouter satisfies handlers.MessageRouter so ProcessAudio can take its
// method value without dereferencing a nil interface at handler entry.
type stubRouter struct{}

func (stubRouter) RouteMessage(ctx context.Context, sess *session.Session, message string) (string, error) {
	return "", nil
}

func (stubRouter) RouteAudio(ctx context.Context, sess *session.Session, audio llm.Attachment) (string, error) {
	return "", nil
}

func newRoutedApp() *fiber.App {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	h := handlers.New(handlers.Config{
		Router:   stubRouter{},
		Sessions: session.NewManager(time.Minute),
		Log:      log,
	})

	app := fiber.New()
	SetupRoutes(app, h, RouteConfig{
		ServiceTokenSecret: "test-secret",
		RateLimitPerMinute: 20,
		RateLimitBurst:     5,
	})
	return app
}

func TestSetupRoutes_HealthIsPublic(t *testing.T) {
	app := newRoutedApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSetupRoutes_HelpIsPublic(t *testing.T) {
	app := newRoutedApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/help", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSetupRoutes_ServiceEndpointsNeedToken(t *testing.T) {
	app := newRoutedApp()

	for _, path := range []string{"/api/v1/batch-notify-reminders", "/api/v1/webhooks/payment"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestSetupRoutes_ProcessAudioRegistered(t *testing.T) {
	app := newRoutedApp()

	// No multipart body, so the handler rejects it — but the route exists.
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/process-audio", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSetupRoutes_MetricsExposed(t *testing.T) {
	app := newRoutedApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSetupRoutes_UnknownRouteIs404(t *testing.T) {
	app := newRoutedApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
