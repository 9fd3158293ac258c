package llm

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/medbook-assistant/internal/observability/metrics"
)

var tracer = otel.Tracer("medbook.llm")

// Instrumented records latency, token usage and a span for every call to the
// wrapped client.
type Instrumented struct {
	provider string
	next     Client
	metrics  *metrics.LLMMetrics
}

func NewInstrumented(provider string, next Client, m *metrics.LLMMetrics) *Instrumented {
	if next == nil {
		panic("llm: instrumented client requires a delegate")
	}
	return &Instrumented{provider: provider, next: next, metrics: m}
}

func (c *Instrumented) Complete(ctx context.Context, req Request) (Response, error) {
	ctx, span := tracer.Start(ctx, "llm.complete")
	defer span.End()

	start := time.Now()
	resp, err := c.next.Complete(ctx, req)
	latency := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
	}
	c.metrics.ObserveCompletion(c.provider, status, latency.Seconds(),
		resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.Usage.TotalTokens)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("medbook.llm.provider", c.provider),
			attribute.Float64("medbook.llm.latency_ms", float64(latency.Milliseconds())),
			attribute.Int("medbook.llm.total_tokens", int(resp.Usage.TotalTokens)),
			attribute.String("medbook.llm.stop_reason", resp.StopReason),
		)
	}
	return resp, err
}
