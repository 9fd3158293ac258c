package dialogue

import (
	"context"
	"time"

	"github.com/wolfman30/medbook-assistant/internal/bookings"
	"github.com/wolfman30/medbook-assistant/internal/extraction"
	"github.com/wolfman30/medbook-assistant/internal/triage"
)

// Extractor pulls candidate slot values out of free text. It must return
// empty Fields rather than fail.
type Extractor interface {
	Extract(ctx context.Context, text string) extraction.Fields
}

// DateTimeParser resolves relative or spoken dates and times.
type DateTimeParser interface {
	Parse(ctx context.Context, text string, now time.Time) (extraction.DateTime, error)
}

// Classifier recommends a specialty. It always returns one of triage.Specialties.
type Classifier interface {
	Classify(ctx context.Context, symptoms string) triage.Result
}

// Roster lists doctors for a specialty.
type Roster interface {
	DoctorsFor(specialty string, limit int) []string
}

// BookingStore persists appointments.
type BookingStore interface {
	Insert(ctx context.Context, appt bookings.Appointment) (bookings.Appointment, error)
	SelectByEmail(ctx context.Context, email string) ([]bookings.Appointment, error)
	Delete(ctx context.Context, id string) error
	UpdateSchedule(ctx context.Context, id, date, tm string) error
}

// Availability reports whether a doctor is free at a slot. excludeID skips
// the appointment being moved.
type Availability interface {
	IsAvailable(ctx context.Context, doctor, date, tm, excludeID string) (bool, error)
}

// Notifier tells the patient about booking changes.
type Notifier interface {
	BookingConfirmed(ctx context.Context, appt bookings.Appointment) error
	BookingCancelled(ctx context.Context, appt bookings.Appointment) error
	BookingRescheduled(ctx context.Context, appt bookings.Appointment) error
}

// EventScheduler mirrors bookings onto a shared calendar.
type EventScheduler interface {
	CreateEvent(ctx context.Context, appt bookings.Appointment) error
}

// Advisor answers general medical information questions.
type Advisor interface {
	Answer(ctx context.Context, question string) (string, error)
}
