package bookings

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

var bookingsTracer = otel.Tracer("medbook.internal.bookings")

// Service fronts a Store with tracing, logging and the availability rule.
type Service struct {
	store   Store
	checker *AvailabilityChecker
	logger  *logging.Logger
}

// NewService constructs a bookings service.
func NewService(store Store, checker *AvailabilityChecker, logger *logging.Logger) *Service {
	if store == nil {
		panic("bookings: store required")
	}
	if checker == nil {
		checker = NewAvailabilityChecker(store, DefaultConflictWindow)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, checker: checker, logger: logger}
}

// Insert validates and persists a new appointment.
func (s *Service) Insert(ctx context.Context, appt Appointment) (Appointment, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.insert")
	defer span.End()
	span.SetAttributes(
		attribute.String("medbook.doctor", appt.Doctor),
		attribute.String("medbook.appointment_date", appt.AppointmentDate),
	)

	if err := appt.Validate(); err != nil {
		span.RecordError(err)
		return Appointment{}, err
	}
	saved, err := s.store.Insert(ctx, appt)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("booking insert failed", "doctor", appt.Doctor, "error", err)
		return Appointment{}, err
	}
	span.SetAttributes(attribute.String("medbook.appointment_id", saved.ID))
	s.logger.Info("appointment booked",
		"appointment_id", saved.ID,
		"doctor", saved.Doctor,
		"date", saved.AppointmentDate,
		"time", saved.AppointmentTime,
	)
	return saved, nil
}

func (s *Service) SelectByEmail(ctx context.Context, email string) ([]Appointment, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.select_by_email")
	defer span.End()
	out, err := s.store.SelectByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
	}
	return out, err
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := bookingsTracer.Start(ctx, "bookings.delete", trace.WithAttributes(attribute.String("medbook.appointment_id", id)))
	defer span.End()
	if err := s.store.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	s.logger.Info("appointment cancelled", "appointment_id", id)
	return nil
}

func (s *Service) UpdateSchedule(ctx context.Context, id, date, tm string) error {
	ctx, span := bookingsTracer.Start(ctx, "bookings.update_schedule", trace.WithAttributes(attribute.String("medbook.appointment_id", id)))
	defer span.End()
	if err := s.store.UpdateSchedule(ctx, id, date, tm); err != nil {
		span.RecordError(err)
		return err
	}
	s.logger.Info("appointment rescheduled", "appointment_id", id, "date", date, "time", tm)
	return nil
}

// IsAvailable applies the conflict window against the store.
func (s *Service) IsAvailable(ctx context.Context, doctor, date, tm, excludeID string) (bool, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.is_available")
	defer span.End()
	ok, err := s.checker.IsAvailable(ctx, doctor, date, tm, excludeID)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("availability check failed", "doctor", doctor, "date", date, "error", err)
	}
	return ok, err
}
