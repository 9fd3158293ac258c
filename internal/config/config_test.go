package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "BOOKING_BACKEND", "CONFLICT_WINDOW", "CLINIC_TIMEZONE", "MAX_CANDIDATE_DOCTORS", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.BookingBackend != "memory" {
		t.Fatalf("expected memory booking backend, got %s", cfg.BookingBackend)
	}
	if cfg.ConflictWindow != 20*time.Minute {
		t.Fatalf("expected 20m conflict window, got %s", cfg.ConflictWindow)
	}
	if cfg.ClinicTimezone != "Asia/Kolkata" {
		t.Fatalf("expected clinic timezone default, got %s", cfg.ClinicTimezone)
	}
	if cfg.MaxCandidateDoctors != 5 {
		t.Fatalf("expected 5 candidate doctors, got %d", cfg.MaxCandidateDoctors)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard cors default, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.IsProduction() {
		t.Fatal("development config reported as production")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("BOOKING_BACKEND", " Supabase ")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CONFLICT_WINDOW", "30m")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("MAX_CANDIDATE_DOCTORS", "3")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Fatal("expected production env")
	}
	if cfg.BookingBackend != "supabase" {
		t.Fatalf("expected normalized booking backend, got %q", cfg.BookingBackend)
	}
	if cfg.SessionBackend != "redis" {
		t.Fatalf("expected redis session backend, got %s", cfg.SessionBackend)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected session ttl override, got %s", cfg.SessionTTL)
	}
	if cfg.ConflictWindow != 30*time.Minute {
		t.Fatalf("expected conflict window override, got %s", cfg.ConflictWindow)
	}
	if !cfg.RedisTLS {
		t.Fatal("expected redis tls enabled")
	}
	if cfg.MaxCandidateDoctors != 3 {
		t.Fatalf("expected candidate override, got %d", cfg.MaxCandidateDoctors)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit override, got %v", cfg.RateLimitRPS)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{ClinicTimezone: "Not/AZone"}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC fallback, got %v", cfg.Location())
	}
	cfg.ClinicTimezone = "UTC"
	if cfg.Location().String() != "UTC" {
		t.Fatalf("expected UTC, got %v", cfg.Location())
	}
}

func TestInvalidNumbersUseDefaults(t *testing.T) {
	t.Setenv("MAX_CANDIDATE_DOCTORS", "many")
	t.Setenv("SESSION_TTL", "forever")
	cfg := Load()
	if cfg.MaxCandidateDoctors != 5 {
		t.Fatalf("expected default for bad int, got %d", cfg.MaxCandidateDoctors)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected default for bad duration, got %s", cfg.SessionTTL)
	}
}
