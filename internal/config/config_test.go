package config_test

import (
	"testing"
	"time"

	"github.com/habitflow/userhub/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("MONGO_URL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("USERS_FILE", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("RATE_LIMIT", "")
	t.Setenv("RATE_WINDOW_SECONDS", "")

	cfg := config.Load()

	if cfg.Env != "dev" {
		t.Fatalf("env default: %q", cfg.Env)
	}

	if cfg.Port != 4000 {
		t.Fatalf("port default: %d", cfg.Port)
	}

	if cfg.UsersFile != "data/users.json" {
		t.Fatalf("users file default: %q", cfg.UsersFile)
	}

	if cfg.MongoURL != "" || cfg.DatabaseURL != "" {
		t.Fatalf("no backend should be preselected: mongo=%q postgres=%q", cfg.MongoURL, cfg.DatabaseURL)
	}

	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("origins default: %v", cfg.AllowedOrigins)
	}

	if cfg.RateLimit != 20 || cfg.RateWindow != time.Minute {
		t.Fatalf("rate limit defaults: %d per %s", cfg.RateLimit, cfg.RateWindow)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("MONGO_URL", "mongodb://localhost:27017")
	t.Setenv("MONGO_DB", "users_test")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , https://b.example ,")
	t.Setenv("RATE_WINDOW_SECONDS", "5")

	cfg := config.Load()

	if cfg.Env != "prod" || cfg.Port != 9090 {
		t.Fatalf("env/port overrides: %q %d", cfg.Env, cfg.Port)
	}

	if cfg.MongoURL != "mongodb://localhost:27017" || cfg.MongoDB != "users_test" {
		t.Fatalf("mongo overrides: %q %q", cfg.MongoURL, cfg.MongoDB)
	}

	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://a.example" {
		t.Fatalf("origins should be trimmed and empty entries dropped: %v", cfg.AllowedOrigins)
	}

	if cfg.RateWindow != 5*time.Second {
		t.Fatalf("rate window override: %s", cfg.RateWindow)
	}
}

func TestLoadBadPortFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg := config.Load()

	if cfg.Port != 4000 {
		t.Fatalf("bad port should fall back to default, got %d", cfg.Port)
	}
}
