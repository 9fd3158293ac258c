// Package dialogue implements the step-driven booking conversation: slot
// filling, validation, specialty triage, confirmation and the reschedule and
// cancel sub-flows. All external work goes through the collaborator
// interfaces in interfaces.go.
package dialogue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/medbook-assistant/internal/bookings"
	"github.com/wolfman30/medbook-assistant/internal/extraction"
	"github.com/wolfman30/medbook-assistant/internal/observability/metrics"
	"github.com/wolfman30/medbook-assistant/internal/roster"
	"github.com/wolfman30/medbook-assistant/internal/triage"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

const defaultMaxDoctors = 5

// Reply is the result of one turn.
type Reply struct {
	Messages []string              `json:"messages"`
	Step     Step                  `json:"step"`
	Outcome  Outcome               `json:"outcome"`
	Error    string                `json:"error,omitempty"`
	Booking  *bookings.Appointment `json:"booking,omitempty"`
}

type Option func(*Manager)

func WithExtractor(e Extractor) Option {
	return func(m *Manager) { m.extractor = e }
}

func WithDateTimeParser(p DateTimeParser) Option {
	return func(m *Manager) { m.dates = p }
}

func WithAvailability(a Availability) Option {
	return func(m *Manager) { m.availability = a }
}

func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

func WithEventScheduler(s EventScheduler) Option {
	return func(m *Manager) { m.calendar = s }
}

func WithAdvisor(a Advisor) Option {
	return func(m *Manager) { m.advisor = a }
}

func WithMetrics(dm *metrics.DialogueMetrics) Option {
	return func(m *Manager) { m.metrics = dm }
}

// WithClock sets the time source and the clinic timezone used for past-date
// and past-time checks.
func WithClock(now func() time.Time, loc *time.Location) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
		if loc != nil {
			m.loc = loc
		}
	}
}

func WithMaxDoctors(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxDoctors = n
		}
	}
}

// WithConflictWindow only changes the wording of slot-taken messages; the
// rule itself lives in the Availability implementation.
func WithConflictWindow(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.window = d
		}
	}
}

// Manager drives a Session through the booking dialogue. It holds no
// per-session state and is safe for concurrent use across sessions.
type Manager struct {
	classifier   Classifier
	roster       Roster
	store        BookingStore
	extractor    Extractor
	dates        DateTimeParser
	availability Availability
	notifier     Notifier
	calendar     EventScheduler
	advisor      Advisor

	now        func() time.Time
	loc        *time.Location
	maxDoctors int
	window     time.Duration
	logger     *logging.Logger
	metrics    *metrics.DialogueMetrics
}

func NewManager(classifier Classifier, roster Roster, store BookingStore, logger *logging.Logger, opts ...Option) *Manager {
	if classifier == nil {
		panic("dialogue: classifier required")
	}
	if roster == nil {
		panic("dialogue: roster required")
	}
	if store == nil {
		panic("dialogue: booking store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	m := &Manager{
		classifier: classifier,
		roster:     roster,
		store:      store,
		now:        time.Now,
		loc:        time.UTC,
		maxDoctors: defaultMaxDoctors,
		window:     bookings.DefaultConflictWindow,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) clock() time.Time {
	return m.now().In(m.loc)
}

// Start greets the patient and shows the menu.
func (m *Manager) Start(ctx context.Context, s *Session) Reply {
	r := &Reply{Outcome: OutcomeAccepted}
	m.openMenu(s, r)
	return m.finish(s, r)
}

// Handle processes one user message against the session.
func (m *Manager) Handle(ctx context.Context, s *Session, input string) Reply {
	started := time.Now()
	input = strings.TrimSpace(input)
	step := s.Step
	if !step.Valid() {
		step = StepNone
		s.Step = StepNone
	}

	r := &Reply{Outcome: OutcomeAccepted}
	if input == "" {
		r.Outcome = OutcomeUnrecognized
		m.say(s, r, msgEmptyTurn)
		m.ask(s, r, s.Step)
		return m.observe(s, r, step, started)
	}
	s.record(RoleUser, input, m.now())

	var extracted extraction.Fields
	if step.freeForm() && m.extractor != nil && IsComplex(input, step) {
		extracted = m.extractor.Extract(ctx, input)
		if step.bookingField() || step == StepConfirm {
			m.mergeExtracted(ctx, s, r, extracted)
		}
	}

	// Extraction already answered the question for this step.
	if step.bookingField() && step != StepSelectDoc && step != StepSymptoms && s.Draft.IsSet(step) {
		m.advance(ctx, s, r)
		return m.observe(s, r, step, started)
	}

	switch step {
	case StepNone:
		m.openMenu(s, r)
	case StepMenu:
		m.handleMenu(ctx, s, r, input)
	case StepName:
		m.handleName(ctx, s, r, input)
	case StepEmail:
		m.handleEmail(ctx, s, r, input)
	case StepMobile:
		m.handleMobile(ctx, s, r, input)
	case StepAge:
		m.handleAge(ctx, s, r, input)
	case StepGender:
		m.handleGender(ctx, s, r, input)
	case StepSymptoms:
		m.handleSymptoms(ctx, s, r, input)
	case StepSelectDoc:
		m.handleSelectDoctor(ctx, s, r, input)
	case StepDate:
		m.handleDate(ctx, s, r, input)
	case StepTime:
		m.handleTime(ctx, s, r, input)
	case StepConfirm:
		m.handleConfirm(ctx, s, r, input)
	case StepMedicalInfo:
		m.handleMedicalInfo(ctx, s, r, input)
	case StepRescheduleEmail, StepCancelEmail:
		if extracted.Email != "" {
			input = extracted.Email
		}
		m.handleLookup(ctx, s, r, input)
	case StepCancelSelect:
		m.handleCancelSelect(ctx, s, r, input)
	case StepRescheduleSelect:
		m.handleRescheduleSelect(ctx, s, r, input)
	case StepRescheduleDate:
		m.handleRescheduleDate(ctx, s, r, input)
	case StepRescheduleTime:
		m.handleRescheduleTime(ctx, s, r, input)
	}
	return m.observe(s, r, step, started)
}

func (m *Manager) observe(s *Session, r *Reply, step Step, started time.Time) Reply {
	m.metrics.ObserveTurn(string(step), string(r.Outcome), time.Since(started).Seconds())
	m.logger.Debug("dialogue turn handled",
		"session_id", s.ID,
		"step", step,
		"next_step", s.Step,
		"outcome", r.Outcome,
	)
	return m.finish(s, r)
}

func (m *Manager) finish(s *Session, r *Reply) Reply {
	s.UpdatedAt = m.now()
	r.Step = s.Step
	return *r
}

// say emits an assistant message for this turn.
func (m *Manager) say(s *Session, r *Reply, msg string) {
	if s.record(RoleAssistant, msg, m.now()) {
		r.Messages = append(r.Messages, msg)
	}
}

// ask emits the prompt for step.
func (m *Manager) ask(s *Session, r *Reply, step Step) {
	switch step {
	case StepSelectDoc:
		m.say(s, r, doctorList(s.Draft.Candidates))
	case StepConfirm:
		m.say(s, r, s.Draft.Summary())
		m.say(s, r, stepPrompts[StepConfirm])
	case StepCancelSelect, StepRescheduleSelect:
		m.say(s, r, appointmentList(s.Lookup))
		m.say(s, r, stepPrompts[step])
	default:
		if p, ok := stepPrompts[step]; ok {
			m.say(s, r, p)
		}
	}
}

// reject keeps the step and draft unchanged and re-asks the current prompt.
func (m *Manager) reject(s *Session, r *Reply, err error) {
	r.Outcome = OutcomeRejected
	r.Error = err.Error()
	m.say(s, r, err.Error())
	m.ask(s, r, s.Step)
}

// fail reports a collaborator failure without changing state.
func (m *Manager) fail(s *Session, r *Reply, msg string) {
	r.Outcome = OutcomeFailed
	r.Error = msg
	m.say(s, r, msg)
}

func (m *Manager) openMenu(s *Session, r *Reply) {
	s.Step = StepMenu
	m.say(s, r, msgWelcome)
	m.say(s, r, msgOptions)
}

func (m *Manager) backToMenu(s *Session, r *Reply) {
	s.Step = StepMenu
	m.say(s, r, msgAnythingElse)
	m.say(s, r, msgOptions)
}

// advance moves to the next unset slot. Reaching doctor selection without
// candidates runs the symptom analysis first.
func (m *Manager) advance(ctx context.Context, s *Session, r *Reply) {
	next := NextStep(s.Draft)
	if next == StepSelectDoc && len(s.Draft.Candidates) == 0 {
		m.analyzeSymptoms(ctx, s, r)
	}
	s.Step = next
	m.ask(s, r, next)
}

func (m *Manager) analyzeSymptoms(ctx context.Context, s *Session, r *Reply) {
	res := m.classifier.Classify(ctx, s.Draft.Symptoms)
	spec := triage.Canonical(res.Specialty)
	s.Draft.Specialty = spec
	s.Draft.Candidates = m.roster.DoctorsFor(spec, m.maxDoctors)
	if len(s.Draft.Candidates) == 0 {
		s.Draft.Candidates = []string{roster.FallbackDoctor}
	}
	msg := "Recommended Specialty: " + spec
	if strings.TrimSpace(res.Reasoning) != "" {
		msg += "\n\n" + res.Reasoning
	}
	m.say(s, r, msg)
	m.logger.Info("specialty recommended",
		"session_id", s.ID,
		"specialty", spec,
		"confidence", res.Confidence,
		"source", res.Source,
		"candidates", len(s.Draft.Candidates),
	)
}

// mergeExtracted validates extractor output with the same rules as direct
// input and fills only unset slots.
func (m *Manager) mergeExtracted(ctx context.Context, s *Session, r *Reply, f extraction.Fields) {
	if f.Empty() {
		return
	}
	now := m.clock()
	var p Draft
	if v, err := ValidateName(f.Name); err == nil && f.Name != "" {
		p.Name = v
	}
	if f.Email != "" {
		if v, err := NormalizeEmail(f.Email); err == nil {
			p.Email = v
		}
	}
	if f.Mobile != "" {
		if v, err := ValidateMobile(f.Mobile); err == nil {
			p.Mobile = v
		}
	}
	if f.Age != "" {
		if v, err := ValidateAge(f.Age); err == nil {
			p.Age = v
		}
	}
	if f.Gender != "" {
		if v, err := ValidateGender(f.Gender); err == nil {
			p.Gender = v
		}
	}
	p.Symptoms = strings.TrimSpace(f.Symptoms)
	if iso, ok := ParseDate(f.Date); ok && CheckDate(iso, now) == nil {
		p.Date = iso
	}
	date := s.Draft.Date
	if date == "" {
		date = p.Date
	}
	// A time is only meaningful once the day is known.
	if date != "" {
		if tm, ok := ParseTime(f.Time); ok && CheckTime(date, tm, now) == nil {
			p.Time = tm
		}
	}

	filled := s.Draft.Merge(p)
	if len(filled) > 0 {
		m.logger.Info("extracted slots merged", "session_id", s.ID, "slots", filled)
	}
	for _, step := range filled {
		if step == StepTime && s.Draft.Doctor != "" {
			if ok, _ := m.slotFree(ctx, s, r, s.Draft.Doctor, s.Draft.Date, s.Draft.Time, ""); !ok {
				s.Draft.Time = ""
			}
		}
	}
}

func (m *Manager) handleMenu(ctx context.Context, s *Session, r *Reply, input string) {
	switch ParseMenu(input) {
	case IntentBook:
		m.advance(ctx, s, r)
	case IntentReschedule:
		s.clearSubflow()
		s.Step = StepRescheduleEmail
		m.ask(s, r, s.Step)
	case IntentCancel:
		s.clearSubflow()
		s.Step = StepCancelEmail
		m.ask(s, r, s.Step)
	case IntentMedicalInfo:
		s.Step = StepMedicalInfo
		m.ask(s, r, s.Step)
	case IntentExit:
		s.Draft = Draft{}
		s.clearSubflow()
		s.Step = StepNone
		r.Outcome = OutcomeExited
		m.say(s, r, msgGoodbye)
	default:
		r.Outcome = OutcomeUnrecognized
		m.say(s, r, msgMenuRetry)
		m.say(s, r, msgOptions)
	}
}

func (m *Manager) handleName(ctx context.Context, s *Session, r *Reply, input string) {
	name, err := ValidateName(input)
	if err != nil {
		m.reject(s, r, err)
		return
	}
	s.Draft.Name = name
	m.advance(ctx, s, r)
}

func (m *Manager) handleEmail(ctx context.Context, s *Session, r *Reply, input string) {
	email, err := NormalizeEmail(input)
	if err != nil {
		m.reject(s, r, err)
		return
	}
	s.Draft.Email = email
	m.advance(ctx, s, r)
}

func (m *Manager) handleMobile(ctx context.Context, s *Session, r *Reply, input string) {
	mobile, err := ValidateMobile(input)
	if err != nil {
		m.reject(s, r, err)
		return
	}
	s.Draft.Mobile = mobile
	m.advance(ctx, s, r)
}

func (m *Manager) handleAge(ctx context.Context, s *Session, r *Reply, input string) {
	age, err := ValidateAge(input)
	if err != nil {
		m.reject(s, r, err)
		return
	}
	s.Draft.Age = age
	m.advance(ctx, s, r)
}

func (m *Manager) handleGender(ctx context.Context, s *Session, r *Reply, input string) {
	gender, err := ValidateGender(input)
	if err != nil {
		m.reject(s, r, err)
		return
	}
	s.Draft.Gender = gender
	m.advance(ctx, s, r)
}

func (m *Manager) handleSymptoms(ctx context.Context, s *Session, r *Reply, input string) {
	s.Draft.Symptoms = input
	s.Draft.Candidates = nil
	m.advance(ctx, s, r)
}

func (m *Manager) handleSelectDoctor(ctx context.Context, s *Session, r *Reply, input string) {
	if len(s.Draft.Candidates) == 0 {
		// Candidates are lost only if the session was edited externally.
		m.advance(ctx, s, r)
		return
	}
	doctor, ok := SelectDoctor(s.Draft.Candidates, input)
	if !ok {
		msg := fmt.Sprintf("Please say the number (1-%d) or the doctor's name.", len(s.Draft.Candidates))
		m.reject(s, r, invalid("selected_doctor", msg))
		return
	}
	s.Draft.Doctor = doctor
	// A time merged before the doctor was known has not been checked yet.
	if s.Draft.Time != "" {
		if ok, err := m.slotFree(ctx, s, r, doctor, s.Draft.Date, s.Draft.Time, ""); !ok || err != nil {
			s.Draft.Time = ""
		}
	}
	m.advance(ctx, s, r)
}

// resolveDate parses a date deterministically, then with the AI parser, and
// applies the past-date rule.
func (m *Manager) resolveDate(ctx context.Context, input string) (string, error) {
	now := m.clock()
	iso, ok := ParseDate(input)
	if !ok && m.dates != nil {
		dt, err := m.dates.Parse(ctx, input, now)
		if err != nil {
			m.logger.Warn("ai date parse failed", "error", err)
		} else if parsed, valid := ParseDate(dt.Date); valid {
			iso, ok = parsed, true
		}
	}
	if !ok {
		return "", ErrUnparseableDate
	}
	if err := CheckDate(iso, now); err != nil {
		return "", err
	}
	return iso, nil
}

// resolveTime parses a time deterministically, then with the AI parser, and
// applies the past-time rule for date.
func (m *Manager) resolveTime(ctx context.Context, date, input string) (string, error) {
	now := m.clock()
	tm, ok := ParseTime(input)
	if !ok && m.dates != nil {
		dt, err := m.dates.Parse(ctx, input, now)
		if err != nil {
			m.logger.Warn("ai time parse failed", "error", err)
		} else if parsed, valid := ParseTime(dt.Time); valid {
			tm, ok = parsed, true
		}
	}
	if !ok {
		return "", ErrUnparseableTime
	}
	if err := CheckTime(date, tm, now); err != nil {
		return "", err
	}
	return tm, nil
}

// slotFree consults the availability checker. It reports false with a
// message when the slot is taken, and false with an error when the check
// could not be made.
func (m *Manager) slotFree(ctx context.Context, s *Session, r *Reply, doctor, date, tm, excludeID string) (bool, error) {
	if m.availability == nil {
		return true, nil
	}
	ok, err := m.availability.IsAvailable(ctx, doctor, date, tm, excludeID)
	if err != nil {
		m.logger.Error("availability check failed", "session_id", s.ID, "doctor", doctor, "error", err)
		return false, err
	}
	if !ok {
		msg := fmt.Sprintf(msgSlotTaken, doctor, tm, date, int(m.window.Minutes()))
		r.Outcome = OutcomeRejected
		r.Error = msg
		m.say(s, r, msg)
	}
	return ok, nil
}

func (m *Manager) handleDate(ctx context.Context, s *Session, r *Reply, input string) {
	iso, err := m.resolveDate(ctx, input)
	if err != nil {
		m.reject(s, r, err)
		return
	}
	s.Draft.Date = iso
	m.advance(ctx, s, r)
}

func (m *Manager) handleTime(ctx context.Context, s *Session, r *Reply, input string) {
	tm, err := m.resolveTime(ctx, s.Draft.Date, input)
	if err != nil {
		m.reject(s, r, err)
		return
	}
	ok, err := m.slotFree(ctx, s, r, s.Draft.Doctor, s.Draft.Date, tm, "")
	if err != nil {
		m.fail(s, r, msgCheckFailed)
		return
	}
	if !ok {
		m.ask(s, r, s.Step)
		return
	}
	s.Draft.Time = tm
	m.advance(ctx, s, r)
}

func (m *Manager) handleConfirm(ctx context.Context, s *Session, r *Reply, input string) {
	switch parseYesNo(input) {
	case answerNo:
		s.Draft = Draft{}
		r.Outcome = OutcomeCancelled
		m.say(s, r, msgBookingDropped)
		m.backToMenu(s, r)
		m.metrics.ObserveBooking("book", "discarded")
		return
	case answerUnknown:
		r.Outcome = OutcomeUnrecognized
		m.say(s, r, msgConfirmYesNo)
		return
	}

	if !s.Draft.Complete() {
		m.advance(ctx, s, r)
		return
	}
	ok, err := m.slotFree(ctx, s, r, s.Draft.Doctor, s.Draft.Date, s.Draft.Time, "")
	if err != nil {
		m.fail(s, r, msgCheckFailed)
		return
	}
	if !ok {
		s.Draft.Time = ""
		m.advance(ctx, s, r)
		return
	}

	saved, err := m.store.Insert(ctx, s.Draft.Appointment())
	if err != nil {
		m.logger.Error("booking insert failed", "session_id", s.ID, "error", err)
		m.metrics.ObserveBooking("book", "failed")
		m.fail(s, r, msgBookingFailed)
		return
	}
	m.metrics.ObserveBooking("book", "booked")

	ref := saved.Reference()
	msg := fmt.Sprintf("Booked successfully! ID: %s.", ref)
	if m.notifier != nil {
		if err := m.notifier.BookingConfirmed(ctx, saved); err != nil {
			m.logger.Error("confirmation email failed", "session_id", s.ID, "appointment_id", saved.ID, "error", err)
		} else {
			msg += " Confirmation sent to your email."
		}
	}
	if m.calendar != nil {
		if err := m.calendar.CreateEvent(ctx, saved); err != nil {
			m.logger.Error("calendar event failed", "session_id", s.ID, "appointment_id", saved.ID, "error", err)
		}
	}

	s.Draft = Draft{}
	s.Step = StepNone
	r.Outcome = OutcomeBooked
	r.Booking = &saved
	m.say(s, r, msg)
}

func (m *Manager) handleMedicalInfo(ctx context.Context, s *Session, r *Reply, input string) {
	answer := msgMedicalFailure
	if m.advisor != nil {
		text, err := m.advisor.Answer(ctx, input)
		if err != nil {
			m.logger.Warn("medical info lookup failed", "session_id", s.ID, "error", err)
		} else {
			answer = text + "\n\n" + triage.Disclaimer
		}
	}
	m.say(s, r, answer)
	m.backToMenu(s, r)
}

func (m *Manager) handleLookup(ctx context.Context, s *Session, r *Reply, input string) {
	email, err := NormalizeEmail(input)
	if err != nil {
		m.reject(s, r, err)
		return
	}
	found, err := m.store.SelectByEmail(ctx, email)
	if err != nil {
		m.logger.Error("appointment lookup failed", "session_id", s.ID, "error", err)
		m.fail(s, r, msgLookupFailed)
		return
	}
	if len(found) == 0 {
		m.say(s, r, fmt.Sprintf(msgNoAppointments, email))
		m.backToMenu(s, r)
		return
	}
	s.Lookup = found
	if s.Step == StepCancelEmail {
		s.Step = StepCancelSelect
	} else {
		s.Step = StepRescheduleSelect
	}
	m.ask(s, r, s.Step)
}

func (m *Manager) pickAppointment(s *Session, r *Reply, input string) (bookings.Appointment, bool) {
	n, ok := ParseOrdinal(input)
	if !ok || n < 1 || n > len(s.Lookup) {
		m.reject(s, r, invalid("appointment", fmt.Sprintf(msgPickRange, len(s.Lookup))))
		return bookings.Appointment{}, false
	}
	return s.Lookup[n-1], true
}

func (m *Manager) handleCancelSelect(ctx context.Context, s *Session, r *Reply, input string) {
	appt, ok := m.pickAppointment(s, r, input)
	if !ok {
		return
	}
	if err := m.store.Delete(ctx, appt.ID); err != nil {
		m.logger.Error("appointment cancel failed", "session_id", s.ID, "appointment_id", appt.ID, "error", err)
		m.metrics.ObserveBooking("cancel", "failed")
		m.fail(s, r, msgCancelFailed)
		return
	}
	m.metrics.ObserveBooking("cancel", "cancelled")
	if m.notifier != nil {
		if err := m.notifier.BookingCancelled(ctx, appt); err != nil {
			m.logger.Error("cancellation email failed", "session_id", s.ID, "appointment_id", appt.ID, "error", err)
		}
	}
	s.clearSubflow()
	s.Step = StepNone
	r.Outcome = OutcomeCancelled
	m.say(s, r, fmt.Sprintf(msgCancelled, appt.Reference()))
}

func (m *Manager) handleRescheduleSelect(ctx context.Context, s *Session, r *Reply, input string) {
	appt, ok := m.pickAppointment(s, r, input)
	if !ok {
		return
	}
	s.Target = &appt
	s.Step = StepRescheduleDate
	m.ask(s, r, s.Step)
}

func (m *Manager) handleRescheduleDate(ctx context.Context, s *Session, r *Reply, input string) {
	iso, err := m.resolveDate(ctx, input)
	if err != nil {
		m.reject(s, r, err)
		return
	}
	s.RescheduleDate = iso
	s.Step = StepRescheduleTime
	m.ask(s, r, s.Step)
}

func (m *Manager) handleRescheduleTime(ctx context.Context, s *Session, r *Reply, input string) {
	if s.Target == nil || s.RescheduleDate == "" {
		s.clearSubflow()
		m.backToMenu(s, r)
		return
	}
	tm, err := m.resolveTime(ctx, s.RescheduleDate, input)
	if err != nil {
		m.reject(s, r, err)
		return
	}
	target := *s.Target
	ok, err := m.slotFree(ctx, s, r, target.Doctor, s.RescheduleDate, tm, target.ID)
	if err != nil {
		m.fail(s, r, msgCheckFailed)
		return
	}
	if !ok {
		m.ask(s, r, s.Step)
		return
	}
	if err := m.store.UpdateSchedule(ctx, target.ID, s.RescheduleDate, tm); err != nil {
		m.logger.Error("appointment reschedule failed", "session_id", s.ID, "appointment_id", target.ID, "error", err)
		m.metrics.ObserveBooking("reschedule", "failed")
		m.fail(s, r, msgRescheduleFailed)
		return
	}
	m.metrics.ObserveBooking("reschedule", "rescheduled")
	target.AppointmentDate = s.RescheduleDate
	target.AppointmentTime = tm
	if m.notifier != nil {
		if err := m.notifier.BookingRescheduled(ctx, target); err != nil {
			m.logger.Error("reschedule email failed", "session_id", s.ID, "appointment_id", target.ID, "error", err)
		}
	}
	s.clearSubflow()
	s.Step = StepNone
	r.Outcome = OutcomeRescheduled
	r.Booking = &target
	m.say(s, r, fmt.Sprintf(msgRescheduled, target.Reference(), target.AppointmentDate, target.AppointmentTime))
}

func doctorList(candidates []string) string {
	var b strings.Builder
	b.WriteString("Select doctor:")
	for i, d := range candidates {
		fmt.Fprintf(&b, "\n%d. %s", i+1, d)
	}
	return b.String()
}

func appointmentList(appts []bookings.Appointment) string {
	var b strings.Builder
	b.WriteString("Your appointments:")
	for i, a := range appts {
		fmt.Fprintf(&b, "\n%d. %s with %s on %s at %s", i+1, a.Reference(), a.Doctor, a.AppointmentDate, a.AppointmentTime)
	}
	return b.String()
}
