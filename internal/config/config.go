package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	LLM       LLMConfig       `json:"llm"`
	Telegram  TelegramConfig  `json:"telegram"`
	Session   SessionConfig   `json:"session"`
	Service   ServiceConfig   `json:"service"`
	Payment   PaymentConfig   `json:"payment"`
	RateLimit RateLimitConfig `json:"rate_limit"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslmode"`
}

// DSN builds a lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode)
}

type LLMConfig struct {
	APIKey             string `json:"api_key"`
	BaseURL            string `json:"base_url"`
	Model              string `json:"model"`
	VisionModel        string `json:"vision_model"`
	TranscriptionModel string `json:"transcription_model"`
	TimeoutSeconds     int    `json:"timeout_seconds"`
}

type TelegramConfig struct {
	BotToken   string `json:"bot_token"`
	APIBaseURL string `json:"api_base_url"`
}

type SessionConfig struct {
	TTLMinutes int `json:"ttl_minutes"`
}

type ServiceConfig struct {
	TokenSecret string `json:"token_secret"`
}

type PaymentConfig struct {
	LinkURL string `json:"link_url"`
}

type RateLimitConfig struct {
	PerMinute int `json:"per_minute"`
	Burst     int `json:"burst"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "okanassist")
	viper.SetDefault("database.database", "okanassist")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("llm.model", "llama-3.3-70b-versatile")
	viper.SetDefault("llm.vision_model", "llama-3.2-90b-vision-preview")
	viper.SetDefault("llm.transcription_model", "whisper-large-v3")
	viper.SetDefault("llm.timeout_seconds", 30)
	viper.SetDefault("telegram.api_base_url", "https://api.telegram.org")
	viper.SetDefault("session.ttl_minutes", 30)
	viper.SetDefault("rate_limit.per_minute", 20)
	viper.SetDefault("rate_limit.burst", 5)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No file is fine, defaults plus env cover everything
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) { dc.TagName = "json" }); err != nil {
		return nil, err
	}

	loadEnvOverrides(&cfg)

	return &cfg, nil
}

func loadEnvOverrides(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	// Database overrides
	if dbHost := os.Getenv("POSTGRES_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("POSTGRES_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			cfg.Database.Port = port
		}
	}
	if dbUser := os.Getenv("POSTGRES_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPass := os.Getenv("POSTGRES_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if dbName := os.Getenv("POSTGRES_DB"); dbName != "" {
		cfg.Database.Database = dbName
	}

	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if url := os.Getenv("GROQ_BASE_URL"); url != "" {
		cfg.LLM.BaseURL = url
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.BotToken = token
	}
	if secret := os.Getenv("SERVICE_TOKEN_SECRET"); secret != "" {
		cfg.Service.TokenSecret = secret
	}
	if link := os.Getenv("PAYMENT_LINK_URL"); link != "" {
		cfg.Payment.LinkURL = link
	}
}
