package bookings

import (
	"errors"
	"strings"
	"time"
)

const (
	// DateLayout is the stored appointment date format.
	DateLayout = "2006-01-02"
	// TimeLayout is the stored appointment time format, e.g. "10:00 AM".
	TimeLayout = "03:04 PM"
)

var (
	ErrNotFound = errors.New("bookings: appointment not found")
	ErrInvalid  = errors.New("bookings: appointment is incomplete")
)

// Appointment is a persisted booking.
type Appointment struct {
	ID              string    `json:"id,omitempty"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Mobile          string    `json:"mobile"`
	Age             int       `json:"age"`
	Gender          string    `json:"gender"`
	Symptoms        string    `json:"symptoms"`
	Doctor          string    `json:"doctor"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// Validate checks that every field a booking needs is present.
func (a Appointment) Validate() error {
	for _, v := range []string{a.Name, a.Email, a.Mobile, a.Gender, a.Symptoms, a.Doctor, a.AppointmentDate, a.AppointmentTime} {
		if strings.TrimSpace(v) == "" {
			return ErrInvalid
		}
	}
	if a.Age <= 0 {
		return ErrInvalid
	}
	return nil
}

// Reference is the patient-facing booking reference. Stores that do not
// return an id yield the generic "OK".
func (a Appointment) Reference() string {
	id := strings.TrimSpace(a.ID)
	if id == "" {
		return "OK"
	}
	return "APPT-" + id
}

// StartsAt combines the stored date and time in loc.
func (a Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout+" "+TimeLayout, a.AppointmentDate+" "+a.AppointmentTime, loc)
}
