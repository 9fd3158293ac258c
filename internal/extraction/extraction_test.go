package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/medbook-assistant/internal/llm"
	"github.com/wolfman30/medbook-assistant/internal/observability/metrics"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

type stubLLMClient struct {
	text     string
	err      error
	requests []llm.Request
}

func (s *stubLLMClient) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return llm.Response{}, s.err
	}
	return llm.Response{Text: s.text}, nil
}

func newTestExtractor(client llm.Client) *Extractor {
	fixed := func() time.Time { return time.Date(2026, 1, 24, 16, 30, 0, 0, time.UTC) }
	return New(client, logging.Discard(),
		WithClock(fixed),
		WithMetrics(metrics.NewDialogueMetrics(prometheus.NewRegistry())),
	)
}

func TestExtractNormalizesScalars(t *testing.T) {
	client := &stubLLMClient{text: "```json\n" + `{"name": "Rajnish", "email": "raj@example.com", "mobile": 9876543210, "age": 29, "gender": "Male", "symptoms": null, "date": "null", "time": "10:30 AM"}` + "\n```"}
	f := newTestExtractor(client).Extract(context.Background(), "my name is R A J N I S H and I am 29")

	want := Fields{Name: "Rajnish", Email: "raj@example.com", Mobile: "9876543210", Age: "29", Gender: "Male", Time: "10:30 AM"}
	if f != want {
		t.Fatalf("unexpected fields\n got %+v\nwant %+v", f, want)
	}
	if !strings.Contains(client.requests[0].System[0], "2026-01-24") {
		t.Fatal("expected today's date in the extraction prompt")
	}
}

func TestExtractNeverFails(t *testing.T) {
	for _, client := range []*stubLLMClient{
		{err: errors.New("provider down")},
		{text: "sorry, I cannot help"},
		{text: `{"name": }`},
	} {
		f := newTestExtractor(client).Extract(context.Background(), "hello there my friend")
		if !f.Empty() {
			t.Fatalf("expected empty fields, got %+v", f)
		}
	}
}

func TestParseDateTime(t *testing.T) {
	client := &stubLLMClient{text: `{"date": "2026-01-25", "time": null}`}
	e := newTestExtractor(client)
	now := time.Date(2026, 1, 24, 16, 30, 0, 0, time.UTC)

	dt, err := e.Parse(context.Background(), "tomorrow", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dt.Date != "2026-01-25" || dt.Time != "" {
		t.Fatalf("unexpected result %+v", dt)
	}
	if !strings.Contains(client.requests[0].System[0], "Saturday, Jan 24, 2026, 4:30 PM") {
		t.Fatalf("expected current context in prompt, got %s", client.requests[0].System[0])
	}
}

func TestParseDateTimeErrors(t *testing.T) {
	now := time.Now()
	if _, err := newTestExtractor(&stubLLMClient{text: `{"date": null, "time": null}`}).Parse(context.Background(), "whenever", now); !errors.Is(err, ErrUnparseable) {
		t.Fatalf("expected ErrUnparseable, got %v", err)
	}
	if _, err := newTestExtractor(&stubLLMClient{err: errors.New("timeout")}).Parse(context.Background(), "soon", now); err == nil {
		t.Fatal("expected provider error")
	}
	if _, err := newTestExtractor(&stubLLMClient{text: "no json"}).Parse(context.Background(), "soon", now); err == nil {
		t.Fatal("expected decode error")
	}
}
