package bookings

import (
	"context"
	"errors"
	"testing"
)

type stubDayLister struct {
	rows []Appointment
	err  error
}

func (s stubDayLister) SelectByDoctorDate(ctx context.Context, doctor, date string) ([]Appointment, error) {
	return s.rows, s.err
}

func TestIsAvailableConflictWindow(t *testing.T) {
	existing := []Appointment{{ID: "1", Doctor: "Dr. Rao", AppointmentDate: "2026-02-01", AppointmentTime: "10:00 AM"}}
	checker := NewAvailabilityChecker(stubDayLister{rows: existing}, 0)

	tests := []struct {
		name string
		tm   string
		want bool
	}{
		{"same slot", "10:00 AM", false},
		{"fifteen minutes later", "10:15 AM", false},
		{"nineteen minutes earlier", "09:41 AM", false},
		{"exactly twenty minutes later", "10:20 AM", true},
		{"exactly twenty minutes earlier", "09:40 AM", true},
		{"afternoon", "01:00 PM", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checker.IsAvailable(context.Background(), "Dr. Rao", "2026-02-01", tt.tm, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("IsAvailable(%s) = %v, want %v", tt.tm, got, tt.want)
			}
		})
	}
}

func TestIsAvailableSkipsUnparseableRowsAndExcludedID(t *testing.T) {
	rows := []Appointment{
		{ID: "1", AppointmentTime: "ten o'clock"},
		{ID: "2", AppointmentTime: "10:10 AM"},
	}
	checker := NewAvailabilityChecker(stubDayLister{rows: rows}, 0)

	ok, err := checker.IsAvailable(context.Background(), "Dr. Rao", "2026-02-01", "10:00 AM", "2")
	if err != nil || !ok {
		t.Fatalf("expected available when only conflict is excluded, got %v %v", ok, err)
	}
	ok, err = checker.IsAvailable(context.Background(), "Dr. Rao", "2026-02-01", "10:00 AM", "")
	if err != nil || ok {
		t.Fatalf("expected conflict with row 2, got %v %v", ok, err)
	}
}

func TestIsAvailableErrors(t *testing.T) {
	checker := NewAvailabilityChecker(stubDayLister{err: errors.New("db down")}, 0)
	if _, err := checker.IsAvailable(context.Background(), "Dr. Rao", "2026-02-01", "10:00 AM", ""); err == nil {
		t.Fatal("expected store error to surface")
	}
	if _, err := checker.IsAvailable(context.Background(), "Dr. Rao", "2026-02-01", "10 o'clock", ""); err == nil {
		t.Fatal("expected parse error for malformed request time")
	}
}
