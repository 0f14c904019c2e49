package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	// Store backends. MongoURL selects the document backend, DatabaseURL the
	// postgres backend; with neither set (or when connecting fails) the flat
	// file backend at UsersFile is used.
	MongoURL    string
	MongoDB     string
	DatabaseURL string
	UsersFile   string

	AllowedOrigins []string

	OTLPEndpoint string

	RateLimit  int
	RateWindow time.Duration
}

func Load() Config {
	// .env is optional, real env vars win
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 4000)

	return Config{
		Env:            env,
		Port:           port,
		MongoURL:       getEnv("MONGO_URL", ""),
		MongoDB:        getEnv("MONGO_DB", "habitflow"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		UsersFile:      getEnv("USERS_FILE", "data/users.json"),
		AllowedOrigins: splitOrigins(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:8080")),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		RateLimit:      getEnvInt("RATE_LIMIT", 20),
		RateWindow:     time.Duration(getEnvInt("RATE_WINDOW_SECONDS", 60)) * time.Second,
	}
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")

	origins := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}

	return origins
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}
