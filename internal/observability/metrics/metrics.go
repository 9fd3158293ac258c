package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "medbook"

// DialogueMetrics exposes counters for the booking dialogue.
type DialogueMetrics struct {
	turnsTotal      *prometheus.CounterVec
	bookingsTotal   *prometheus.CounterVec
	extractionTotal *prometheus.CounterVec
	turnLatency     *prometheus.HistogramVec
}

func NewDialogueMetrics(reg prometheus.Registerer) *DialogueMetrics {
	m := &DialogueMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "turns_total",
			Help:      "User turns handled by the dialogue manager",
		}, []string{"step", "outcome"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "bookings_total",
			Help:      "Booking, cancellation and reschedule attempts by outcome",
		}, []string{"action", "outcome"}),
		extractionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "extraction_total",
			Help:      "AI-assisted parsing attempts",
		}, []string{"kind", "outcome"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "turn_latency_seconds",
			Help:      "Time spent handling a single user turn",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"step"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.bookingsTotal, m.extractionTotal, m.turnLatency)
	return m
}

func (m *DialogueMetrics) ObserveTurn(step, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(step, outcome).Inc()
	m.turnLatency.WithLabelValues(step).Observe(seconds)
}

// ObserveBooking records a persistence action; action is book, cancel or reschedule.
func (m *DialogueMetrics) ObserveBooking(action, outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(action, outcome).Inc()
}

func (m *DialogueMetrics) ObserveExtraction(kind, outcome string) {
	if m == nil {
		return
	}
	m.extractionTotal.WithLabelValues(kind, outcome).Inc()
}

// LLMMetrics tracks provider calls made through the llm package.
type LLMMetrics struct {
	latency     *prometheus.HistogramVec
	tokensTotal *prometheus.CounterVec
}

func NewLLMMetrics(reg prometheus.Registerer) *LLMMetrics {
	m := &LLMMetrics{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "latency_seconds",
			Help:      "Latency of LLM completions",
			Buckets:   []float64{0.25, 0.5, 1, 2, 3, 4, 5, 6, 8, 10, 15, 20, 30},
		}, []string{"provider", "status"}),
		tokensTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Tokens used by the LLM",
		}, []string{"provider", "type"}), // type: input, output, total
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.latency, m.tokensTotal)
	return m
}

func (m *LLMMetrics) ObserveCompletion(provider, status string, seconds float64, input, output, total int32) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(provider, status).Observe(seconds)
	if input > 0 {
		m.tokensTotal.WithLabelValues(provider, "input").Add(float64(input))
	}
	if output > 0 {
		m.tokensTotal.WithLabelValues(provider, "output").Add(float64(output))
	}
	if total > 0 {
		m.tokensTotal.WithLabelValues(provider, "total").Add(float64(total))
	}
}
