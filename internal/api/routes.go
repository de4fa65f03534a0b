// Package api wires the HTTP routes over the handler set.
package api

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okanassist/okanassist-backend/internal/api/handlers"
	"github.com/okanassist/okanassist-backend/internal/api/middleware"
)

// RouteConfig carries the route-level wiring knobs
type RouteConfig struct {
	ServiceTokenSecret string
	RateLimitPerMinute int
	RateLimitBurst     int
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, h *handlers.Handlers, cfg RouteConfig) {
	api := app.Group("/api/v1")

	// Public endpoints
	api.Get("/health", h.Health)
	api.Get("/help", h.Help)

	// Bot-facing endpoints, throttled per handle
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	bot := api.Group("", limiter.Handler())
	bot.Post("/start", h.Start)
	bot.Post("/register", h.Register)
	bot.Get("/profile", h.Profile)
	bot.Post("/upgrade", h.Upgrade)
	bot.Post("/route-message", h.RouteMessage)
	bot.Post("/process-audio", h.ProcessAudio)
	bot.Post("/process-receipt", h.ProcessReceipt)
	bot.Post("/process-bank-statement", h.ProcessBankStatement)
	bot.Post("/get-transaction-summary", h.TransactionSummary)
	bot.Get("/get-reminders", h.Reminders)

	// Machine-to-machine endpoints behind the service token
	svc := api.Group("", middleware.ServiceToken(cfg.ServiceTokenSecret))
	svc.Post("/batch-notify-reminders", h.BatchNotify)
	svc.Post("/webhooks/payment", h.ConfirmPayment)

	// Prometheus scrape endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
