package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/okanassist/okanassist-backend/internal/config"
	"github.com/okanassist/okanassist-backend/internal/database"
	"github.com/okanassist/okanassist-backend/internal/identity"
	"github.com/okanassist/okanassist-backend/internal/repository/postgres"
	"github.com/okanassist/okanassist-backend/internal/session"
)

// Creates a user directly, bypassing the bot registration flow. Useful for
// local development and support.
func main() {
	var (
		email      = flag.String("email", "", "User email (required)")
		name       = flag.String("name", "", "Full name (required)")
		telegramID = flag.String("telegram-id", "", "Telegram handle to link (required)")
		language   = flag.String("language", "en", "Preferred language")
		timezone   = flag.String("timezone", "UTC", "IANA timezone")
	)
	flag.Parse()

	if *email == "" || *name == "" || *telegramID == "" {
		log.Fatal("email, name and telegram-id are required")
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	logger := logrus.New()
	users := postgres.NewUserRepository(db.DB)
	sessions := session.NewManager(0)
	svc := identity.NewService(users, sessions, logger)

	sess, password, err := svc.Register(context.Background(), identity.RegisterRequest{
		Handle:   *telegramID,
		Name:     *name,
		Email:    *email,
		Language: *language,
		Timezone: *timezone,
	})
	if err != nil {
		log.Fatal("Failed to create user:", err)
	}

	fmt.Println("User created")
	fmt.Println("  ID:       ", sess.UserID)
	fmt.Println("  Email:    ", sess.Email)
	fmt.Println("  Timezone: ", sess.Timezone)
	fmt.Println("  Currency: ", sess.Currency)
	fmt.Println("  Password: ", password)
}
