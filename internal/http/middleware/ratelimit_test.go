package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterBurstAndRefill(t *testing.T) {
	now := time.Date(2026, 1, 24, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, 3)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !rl.Allow("a") {
			t.Fatalf("request %d should pass", i)
		}
	}
	if rl.Allow("a") {
		t.Fatal("burst exhausted, expected reject")
	}
	if !rl.Allow("b") {
		t.Fatal("other keys have their own bucket")
	}

	now = now.Add(500 * time.Millisecond)
	if !rl.Allow("a") {
		t.Fatal("one token should refill after 500ms at 2 rps")
	}
	if rl.Allow("a") {
		t.Fatal("only one token refilled")
	}
}

func TestRateLimiterPrunesIdleBuckets(t *testing.T) {
	now := time.Date(2026, 1, 24, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }
	rl.Allow("old")

	now = now.Add(time.Hour)
	rl.prune(now)

	if _, ok := rl.limiters["old"]; ok {
		t.Fatal("idle limiter not pruned")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimit(NewRateLimiter(0.001, 1))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(session string) int {
		req := httptest.NewRequest(http.MethodPost, "/chat/sessions/x/messages", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		if session != "" {
			req.Header.Set("X-Session-Id", session)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send(""); code != http.StatusOK {
		t.Fatalf("first request = %d", code)
	}
	if code := send(""); code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d", code)
	}
	if code := send("s1"); code != http.StatusOK {
		t.Fatalf("session-keyed request = %d", code)
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:4000"
	if got := clientKey(req); got != "ip:192.168.1.9" {
		t.Fatalf("got %q", got)
	}
	req.Header.Set("X-Real-Ip", "203.0.113.7")
	if got := clientKey(req); got != "ip:203.0.113.7" {
		t.Fatalf("got %q", got)
	}
}
