package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestDialogueMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDialogueMetrics(reg)
	m.ObserveTurn("name", "accepted", 0.01)
	m.ObserveTurn("name", "accepted", 0.02)
	m.ObserveTurn("mobile", "rejected", 0.01)
	m.ObserveBooking("book", "booked")
	m.ObserveExtraction("entities", "ok")

	if got := testutil.ToFloat64(m.turnsTotal.WithLabelValues("name", "accepted")); got != 2 {
		t.Fatalf("expected 2 accepted name turns, got %v", got)
	}
	if got := testutil.ToFloat64(m.bookingsTotal.WithLabelValues("book", "booked")); got != 1 {
		t.Fatalf("expected 1 booking, got %v", got)
	}
}

func TestLLMMetricsTokens(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLLMMetrics(reg)
	m.ObserveCompletion("gemini", "ok", 0.4, 10, 5, 15)
	m.ObserveCompletion("gemini", "error", 1.2, 0, 0, 0)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var tokens *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "medbook_llm_tokens_total" {
			tokens = mf
		}
	}
	if tokens == nil {
		t.Fatal("tokens metric family not registered")
	}
	if len(tokens.GetMetric()) != 3 {
		t.Fatalf("expected input/output/total series, got %d", len(tokens.GetMetric()))
	}
	if got := testutil.ToFloat64(m.tokensTotal.WithLabelValues("gemini", "total")); got != 15 {
		t.Fatalf("expected 15 total tokens, got %v", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var d *DialogueMetrics
	d.ObserveTurn("name", "accepted", 0.1)
	d.ObserveBooking("book", "failed")
	d.ObserveExtraction("entities", "error")

	var l *LLMMetrics
	l.ObserveCompletion("bedrock", "ok", 0.1, 1, 1, 2)
}
