package bookings

import (
	"context"
	"fmt"
	"time"
)

// DefaultConflictWindow is the minimum spacing between two appointments with the same doctor.
const DefaultConflictWindow = 20 * time.Minute

type doctorDayLister interface {
	SelectByDoctorDate(ctx context.Context, doctor, date string) ([]Appointment, error)
}

// AvailabilityChecker decides whether a doctor is free at a given slot.
type AvailabilityChecker struct {
	store  doctorDayLister
	window time.Duration
}

func NewAvailabilityChecker(store doctorDayLister, window time.Duration) *AvailabilityChecker {
	if store == nil {
		panic("bookings: store required")
	}
	if window <= 0 {
		window = DefaultConflictWindow
	}
	return &AvailabilityChecker{store: store, window: window}
}

// IsAvailable reports false when an existing appointment for the doctor on date
// starts less than the window away from tm. Stored rows whose time cannot be
// parsed are ignored. excludeID skips the appointment being moved.
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, doctor, date, tm, excludeID string) (bool, error) {
	want, err := time.Parse(TimeLayout, tm)
	if err != nil {
		return false, fmt.Errorf("bookings: parse requested time %q: %w", tm, err)
	}
	existing, err := c.store.SelectByDoctorDate(ctx, doctor, date)
	if err != nil {
		return false, fmt.Errorf("bookings: load doctor schedule: %w", err)
	}
	for _, appt := range existing {
		if excludeID != "" && appt.ID == excludeID {
			continue
		}
		booked, err := time.Parse(TimeLayout, appt.AppointmentTime)
		if err != nil {
			continue
		}
		diff := want.Sub(booked)
		if diff < 0 {
			diff = -diff
		}
		if diff < c.window {
			return false, nil
		}
	}
	return true, nil
}
