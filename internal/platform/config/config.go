// Package config builds runtime configuration from the environment so main
// stays lean. A .env file is honoured in development; real deployments set
// variables directly.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration for the server.
type Config struct {
	Addr        string
	Environment string
	LogLevel    string

	DatabaseURL string
	RedisURL    string

	KafkaBrokers string
	KafkaTopic   string
	KafkaGroup   string

	SMTP SMTP

	CloudinaryURL string
	MediaDir      string

	ShutdownTimeout time.Duration
}

// SMTP carries mail transport settings. Empty Host disables sending; the
// notify worker then logs and skips, matching what the admin UI reports.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Configured reports whether enough is set to attempt a send.
func (s SMTP) Configured() bool {
	return s.Host != "" && s.Username != "" && s.Password != ""
}

// FromEnv builds a Config from environment variables, loading .env first if
// present.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Addr:        getEnv("FUNDRACE_ADDR", ":8080"),
		Environment: getEnv("FUNDRACE_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_NOTIFY_TOPIC", "fundrace.notifications"),
		KafkaGroup:   getEnv("KAFKA_NOTIFY_GROUP", "fundrace-notify"),

		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     getEnv("SMTP_FROM", "registration@localhost"),
		},

		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		MediaDir:      getEnv("MEDIA_DIR", "./uploads"),

		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
