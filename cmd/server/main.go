package main

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/okanassist/okanassist-backend/internal/agent"
	"github.com/okanassist/okanassist-backend/internal/api"
	"github.com/okanassist/okanassist-backend/internal/api/handlers"
	"github.com/okanassist/okanassist-backend/internal/config"
	"github.com/okanassist/okanassist-backend/internal/credits"
	"github.com/okanassist/okanassist-backend/internal/database"
	"github.com/okanassist/okanassist-backend/internal/identity"
	"github.com/okanassist/okanassist-backend/internal/llm"
	"github.com/okanassist/okanassist-backend/internal/notify"
	"github.com/okanassist/okanassist-backend/internal/repository/postgres"
	"github.com/okanassist/okanassist-backend/internal/session"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db.DB)
	transactionRepo := postgres.NewTransactionRepository(db.DB)
	reminderRepo := postgres.NewReminderRepository(db.DB)
	creditRepo := postgres.NewCreditRepository(db.DB)

	// Core services
	sessions := session.NewManager(time.Duration(cfg.Session.TTLMinutes) * time.Minute)
	identitySvc := identity.NewService(userRepo, sessions, log)
	guard := credits.NewGuard(creditRepo, log)

	llmClient, err := llm.NewGroqClient(cfg.LLM, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize language service client")
	}

	notifier := notify.NewTelegramClient(cfg.Telegram.BotToken, cfg.Telegram.APIBaseURL)
	transactionAgent := agent.NewTransactionAgent(llmClient, transactionRepo, log)
	reminderAgent := agent.NewReminderAgent(llmClient, reminderRepo, notifier, log)
	router := agent.NewRouter(llmClient, transactionAgent, reminderAgent, log)

	// HTTP surface
	app := fiber.New(fiber.Config{
		AppName:      "OkanAssist Backend",
		BodyLimit:    20 * 1024 * 1024, // statement PDFs
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Telegram-Id",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	h := handlers.New(handlers.Config{
		Identity:       identitySvc,
		Guard:          guard,
		Router:         router,
		Transactions:   transactionAgent,
		Reminders:      reminderAgent,
		Users:          userRepo,
		Sessions:       sessions,
		Log:            log,
		PaymentLinkURL: cfg.Payment.LinkURL,
	})
	api.SetupRoutes(app, h, api.RouteConfig{
		ServiceTokenSecret: cfg.Service.TokenSecret,
		RateLimitPerMinute: cfg.RateLimit.PerMinute,
		RateLimitBurst:     cfg.RateLimit.Burst,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.WithField("addr", addr).Info("okanassist backend starting")
	if err := app.Listen(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}
