// Package extraction turns free-form patient messages into candidate slot values.
// Nothing returned here is trusted; callers validate every field.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/medbook-assistant/internal/llm"
	"github.com/wolfman30/medbook-assistant/internal/observability/metrics"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

// ErrUnparseable is returned when the date/time parser finds nothing usable.
var ErrUnparseable = errors.New("extraction: no date or time found")

// Fields is a partial appointment draft. Empty means "not mentioned".
type Fields struct {
	Name     string
	Email    string
	Mobile   string
	Age      string
	Gender   string
	Symptoms string
	Date     string
	Time     string
}

// Empty reports whether no field was extracted.
func (f Fields) Empty() bool {
	return f == Fields{}
}

// DateTime is the result of the AI date/time parser.
type DateTime struct {
	Date string // YYYY-MM-DD
	Time string // HH:MM AM/PM
}

type Option func(*Extractor)

func WithModel(model string) Option {
	return func(e *Extractor) { e.model = model }
}

func WithMetrics(m *metrics.DialogueMetrics) Option {
	return func(e *Extractor) { e.metrics = m }
}

// WithClock overrides the clock used to tell the model today's date.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// Extractor calls an LLM for entity extraction and date/time parsing.
type Extractor struct {
	client  llm.Client
	model   string
	timeout time.Duration
	now     func() time.Time
	logger  *logging.Logger
	metrics *metrics.DialogueMetrics
}

func New(client llm.Client, logger *logging.Logger, opts ...Option) *Extractor {
	if client == nil {
		panic("extraction: llm client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	e := &Extractor{client: client, timeout: 20 * time.Second, now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

const entityPrompt = `You are a medical receptionist assistant.
Extract as many of the following fields as possible from the User Input.
Fields: name, email, mobile, age, gender, symptoms, date (YYYY-MM-DD), time (HH:MM AM/PM).

Rules:
- If the user spells out a word (e.g., "R A J N I S H"), join the letters into a single word ("rajnish").
- For 'email', join spelled-out parts and convert verbalized symbols like "at", "at the rate", or "handle" to "@" and "dot" or "point" to ".".
- For 'email', normalize to lowercase and remove all internal spaces.
- For 'mobile', remove all non-digits.
- For 'age', extract only the number.
- For 'gender', normalize to "Male", "Female", or "Transgender".
- For 'date', use YYYY-MM-DD. Today is %s.
- For 'time', use HH:MM AM/PM.
- Use null if a field is not present.

Respond ONLY with a valid JSON object.`

// Extract never fails: provider or decode errors yield empty Fields.
func (e *Extractor) Extract(ctx context.Context, text string) Fields {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req := llm.Prompt(fmt.Sprintf(entityPrompt, e.now().Format("2006-01-02 (Monday)")), fmt.Sprintf("User Input: %q", text))
	req.Model = e.model
	resp, err := e.client.Complete(ctx, req)
	if err != nil {
		e.metrics.ObserveExtraction("entities", "error")
		e.logger.Warn("entity extraction failed", "error", err)
		return Fields{}
	}
	var raw map[string]any
	if err := llm.DecodeJSON(resp.Text, &raw); err != nil {
		e.metrics.ObserveExtraction("entities", "invalid")
		e.logger.Warn("entity extraction returned invalid json", "error", err)
		return Fields{}
	}
	f := Fields{
		Name:     stringValue(raw["name"]),
		Email:    stringValue(raw["email"]),
		Mobile:   stringValue(raw["mobile"]),
		Age:      stringValue(raw["age"]),
		Gender:   stringValue(raw["gender"]),
		Symptoms: stringValue(raw["symptoms"]),
		Date:     stringValue(raw["date"]),
		Time:     stringValue(raw["time"]),
	}
	if f.Empty() {
		e.metrics.ObserveExtraction("entities", "empty")
	} else {
		e.metrics.ObserveExtraction("entities", "ok")
	}
	return f
}

const dateTimePrompt = `You are a date and time parsing assistant.
Current Context: %s

Convert the User Input into a standard format.
- If the user specifies a date, return it as YYYY-MM-DD.
- If the user specifies a time, return it as HH:MM AM/PM.
- If only one is specified, leave the other as null.
- Handle relative terms like "tomorrow", "next Monday", "in 2 hours", "noon", etc.

Respond ONLY with a valid JSON object:
{"date": "YYYY-MM-DD" or null, "time": "HH:MM AM/PM" or null}`

// Parse resolves relative or spoken dates and times against now.
func (e *Extractor) Parse(ctx context.Context, text string, now time.Time) (DateTime, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	current := now.Format("Today is Monday, Jan 2, 2006, 3:04 PM")
	req := llm.Prompt(fmt.Sprintf(dateTimePrompt, current), fmt.Sprintf("User Input: %q", text))
	req.Model = e.model
	req.MaxTokens = 100
	resp, err := e.client.Complete(ctx, req)
	if err != nil {
		e.metrics.ObserveExtraction("datetime", "error")
		return DateTime{}, fmt.Errorf("extraction: datetime: %w", err)
	}
	var raw map[string]any
	if err := llm.DecodeJSON(resp.Text, &raw); err != nil {
		e.metrics.ObserveExtraction("datetime", "invalid")
		return DateTime{}, fmt.Errorf("extraction: datetime: %w", err)
	}
	dt := DateTime{Date: stringValue(raw["date"]), Time: stringValue(raw["time"])}
	if dt.Date == "" && dt.Time == "" {
		e.metrics.ObserveExtraction("datetime", "empty")
		return DateTime{}, ErrUnparseable
	}
	e.metrics.ObserveExtraction("datetime", "ok")
	return dt, nil
}

// stringValue flattens JSON scalars; null, booleans and the literal "null" become "".
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
			return ""
		}
		return s
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
