package main

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

func request(method, path string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		RawPath: path,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method: method,
				Path:   path,
			},
		},
	}
}

func TestHandleHealth(t *testing.T) {
	cfg := config{upstreamBaseURL: "http://example.com", upstreamTimeout: time.Second}

	resp, err := handle(context.Background(), cfg, &http.Client{Timeout: time.Second}, request(http.MethodGet, "/health"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Body != "ok" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestHandleRejects(t *testing.T) {
	cfg := config{upstreamBaseURL: "http://example.com", upstreamTimeout: time.Second}
	client := &http.Client{Timeout: time.Second}

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodDelete, "/chat/sessions/abc", http.StatusMethodNotAllowed},
		{http.MethodGet, "/chat/sessions", http.StatusNotFound},
		{http.MethodPost, "/chat/sessions/abc/unknown", http.StatusNotFound},
		{http.MethodGet, "/admin/appointments", http.StatusNotFound},
		{http.MethodPost, "/metrics", http.StatusNotFound},
	}
	for _, tc := range cases {
		resp, err := handle(context.Background(), cfg, client, request(tc.method, tc.path))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != tc.want {
			t.Errorf("%s %s: status %d, want %d", tc.method, tc.path, resp.StatusCode, tc.want)
		}
	}
}

func TestAllowed(t *testing.T) {
	for _, ok := range [][2]string{
		{http.MethodPost, "/chat/sessions"},
		{http.MethodGet, "/chat/sessions/abc"},
		{http.MethodPost, "/chat/sessions/abc/messages"},
		{http.MethodPost, "/chat/sessions/abc/voice"},
		{http.MethodPost, "/chat/sessions/abc/reset"},
	} {
		if !allowed(ok[0], ok[1]) {
			t.Errorf("%s %s should be allowed", ok[0], ok[1])
		}
	}
}

func TestHandleInvalidBase64Body(t *testing.T) {
	cfg := config{upstreamBaseURL: "http://example.com", upstreamTimeout: time.Second}
	evt := request(http.MethodPost, "/chat/sessions/abc/voice")
	evt.Body = "not-base64"
	evt.IsBase64Encoded = true

	resp, err := handle(context.Background(), cfg, &http.Client{Timeout: time.Second}, evt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest || resp.Body != "invalid body" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestHandleForwardsChatMessage(t *testing.T) {
	type captured struct {
		method  string
		path    string
		headers http.Header
		body    string
	}
	reqCh := make(chan captured, 1)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		reqCh <- captured{method: r.Method, path: r.URL.Path, headers: r.Header.Clone(), body: string(body)}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Request-ID", "rid-1")
		_, _ = w.Write([]byte(`{"step":"name"}`))
	}))
	defer upstream.Close()

	client := upstream.Client()
	client.Timeout = time.Second
	cfg := config{upstreamBaseURL: upstream.URL, upstreamTimeout: time.Second}

	evt := request(http.MethodPost, "/chat/sessions/abc/messages")
	evt.Body = `{"text":"1"}`
	evt.Headers = map[string]string{"Content-Type": "application/json", "x-session-id": "abc"}
	evt.RequestContext.DomainName = "chat.example.com"
	evt.RequestContext.HTTP.SourceIP = "203.0.113.9"

	resp, err := handle(context.Background(), cfg, client, evt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Body != `{"step":"name"}` {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Headers["content-type"] != "application/json" || resp.Headers["x-request-id"] != "rid-1" {
		t.Fatalf("headers not forwarded: %v", resp.Headers)
	}

	select {
	case got := <-reqCh:
		if got.method != http.MethodPost || got.path != "/chat/sessions/abc/messages" {
			t.Fatalf("unexpected upstream request %s %s", got.method, got.path)
		}
		if got.body != `{"text":"1"}` {
			t.Fatalf("body = %q", got.body)
		}
		if got.headers.Get("X-Session-Id") != "abc" || got.headers.Get("X-Real-IP") != "203.0.113.9" {
			t.Fatalf("headers = %v", got.headers)
		}
		if got.headers.Get("X-Forwarded-Host") != "chat.example.com" {
			t.Fatalf("forwarded host = %q", got.headers.Get("X-Forwarded-Host"))
		}
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for upstream request")
	}
}

func TestDecodeBodyBase64(t *testing.T) {
	evt := events.APIGatewayV2HTTPRequest{
		Body:            base64.StdEncoding.EncodeToString([]byte("hello")),
		IsBase64Encoded: true,
	}

	decoded, err := decodeBody(evt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(decoded) != "hello" {
		t.Fatalf("expected decoded body, got %q", string(decoded))
	}
}
