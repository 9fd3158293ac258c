package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/medbook-assistant/internal/bookings"
	"github.com/wolfman30/medbook-assistant/internal/conversation"
	"github.com/wolfman30/medbook-assistant/internal/dialogue"
	"github.com/wolfman30/medbook-assistant/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/medbook-assistant/internal/http/middleware"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

const testSecret = "router-secret"

type greeter struct{}

func (greeter) Start(ctx context.Context, s *dialogue.Session) dialogue.Reply {
	s.Step = dialogue.StepMenu
	return dialogue.Reply{Messages: []string{"Welcome"}, Step: s.Step}
}

func (greeter) Handle(ctx context.Context, s *dialogue.Session, input string) dialogue.Reply {
	return dialogue.Reply{Messages: []string{input}, Step: s.Step}
}

func newTestRouter(t *testing.T, checks map[string]ReadinessCheck) http.Handler {
	t.Helper()
	logger := logging.Discard()
	svc := conversation.NewService(greeter{}, conversation.NewMemoryStore(), logger)
	reg := prometheus.NewRegistry()

	return New(&Config{
		Logger:             logger,
		ChatHandler:        handlers.NewChatHandler(svc, logger),
		AdminAppointments:  handlers.NewAdminAppointmentsHandler(bookings.NewMemoryStore(), logger),
		AdminAuthSecret:    testSecret,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		RateLimiter:        httpmiddleware.NewRateLimiter(100, 100),
		CORSAllowedOrigins: []string{"https://clinic.example"},
		ReadinessChecks:    checks,
	})
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterReadiness(t *testing.T) {
	router := newTestRouter(t, map[string]ReadinessCheck{
		"redis":    func(context.Context) error { return nil },
		"postgres": func(context.Context) error { return errors.New("connection refused") },
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "connection refused") {
		t.Fatalf("body missing failing check: %s", rr.Body.String())
	}
}

func TestRouterStartsChat(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat/sessions", strings.NewReader(`{"session_id":"r1"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"session_id":"r1"`) {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}

func TestRouterAdminRequiresToken(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/appointments?email=a@b.c", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, httpmiddleware.AdminClaims{
		Role: httpmiddleware.AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "staff-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/admin/appointments?email=a@b.c", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestRouterMetrics(t *testing.T) {
	router := newTestRouter(t, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
