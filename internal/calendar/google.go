// Package calendar mirrors confirmed bookings onto a Google Calendar.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/wolfman30/medbook-assistant/internal/bookings"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

// EventDuration is the length of every appointment event.
const EventDuration = 30 * time.Minute

const defaultCalendarID = "primary"

type eventInserter interface {
	Insert(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error)
}

type serviceInserter struct {
	svc *gcal.Service
}

func (s serviceInserter) Insert(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
	return s.svc.Events.Insert(calendarID, event).Context(ctx).Do()
}

// GoogleScheduler creates one calendar event per booking.
type GoogleScheduler struct {
	events     eventInserter
	calendarID string
	loc        *time.Location
	logger     *logging.Logger
}

// NewGoogleScheduler authenticates with a service-account credentials file.
func NewGoogleScheduler(ctx context.Context, credentialsFile, calendarID string, loc *time.Location, logger *logging.Logger) (*GoogleScheduler, error) {
	if credentialsFile == "" {
		return nil, errors.New("calendar: credentials file required")
	}
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar: create service: %w", err)
	}
	return newGoogleScheduler(serviceInserter{svc: svc}, calendarID, loc, logger), nil
}

func newGoogleScheduler(events eventInserter, calendarID string, loc *time.Location, logger *logging.Logger) *GoogleScheduler {
	if calendarID == "" {
		calendarID = defaultCalendarID
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &GoogleScheduler{events: events, calendarID: calendarID, loc: loc, logger: logger}
}

// CreateEvent inserts a 30 minute event with the patient as attendee.
func (g *GoogleScheduler) CreateEvent(ctx context.Context, appt bookings.Appointment) error {
	start, err := appt.StartsAt(g.loc)
	if err != nil {
		return fmt.Errorf("calendar: parse appointment start: %w", err)
	}
	event := &gcal.Event{
		Summary:     "Appointment with " + appt.Doctor,
		Description: "Doctor Appointment for " + appt.Email,
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: g.loc.String(),
		},
		End: &gcal.EventDateTime{
			DateTime: start.Add(EventDuration).Format(time.RFC3339),
			TimeZone: g.loc.String(),
		},
	}
	if appt.Email != "" {
		event.Attendees = []*gcal.EventAttendee{{Email: appt.Email}}
	}

	created, err := g.events.Insert(ctx, g.calendarID, event)
	if err != nil {
		return fmt.Errorf("calendar: insert event: %w", err)
	}
	g.logger.Info("calendar event created", "appointment_id", appt.ID, "event_id", created.Id, "link", created.HtmlLink)
	return nil
}
