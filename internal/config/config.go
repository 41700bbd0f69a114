package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenAddr      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DatabaseURL string // postgres DSN
	DBTimeout   time.Duration

	JWTSecret    string        // signing secret, required
	TokenTTL     time.Duration // bearer token lifetime (default: 60m)
	LinkTokenTTL time.Duration // telegram linking token lifetime (default: 15m)

	TelegramBotToken    string // empty => notifications disabled
	TelegramBotUsername string // used to build t.me deep links
	NotifyTimeout       time.Duration

	AllowedOrigins []string // CORS, empty => allow all (dev)
}

func Load() *Config {
	return &Config{
		ListenAddr:      getenv("LISTEN_ADDR", ":8080"),
		ShutdownTimeout: mustDuration("SHUTDOWN_TIMEOUT", 5*time.Second),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		PrettyLog: mustBool("PRETTY_LOG", false),

		DatabaseURL: requireEnv("DATABASE_URL"),
		DBTimeout:   mustDuration("DB_TIMEOUT", 10*time.Second),

		JWTSecret:    requireEnv("SECRET_KEY"),
		TokenTTL:     mustDuration("ACCESS_TOKEN_TTL", 60*time.Minute),
		LinkTokenTTL: mustDuration("LINK_TOKEN_TTL", 15*time.Minute),

		TelegramBotToken:    getenv("TELEGRAM_BOT_TOKEN", ""),
		TelegramBotUsername: getenv("TELEGRAM_BOT_USERNAME", ""),
		NotifyTimeout:       mustDuration("NOTIFY_TIMEOUT", 5*time.Second),

		AllowedOrigins: splitAndTrim(getenv("ALLOWED_ORIGINS", "")),
	}
}

// helpers

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("FATAL: required environment variable %s is not set", key))
	}
	return v
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
