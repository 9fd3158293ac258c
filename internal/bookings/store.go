package bookings

import "context"

// Store persists appointments. Implementations: PostgresStore, SupabaseStore, MemoryStore.
type Store interface {
	Insert(ctx context.Context, appt Appointment) (Appointment, error)
	SelectByEmail(ctx context.Context, email string) ([]Appointment, error)
	SelectByDoctorDate(ctx context.Context, doctor, date string) ([]Appointment, error)
	Delete(ctx context.Context, id string) error
	UpdateSchedule(ctx context.Context, id, date, tm string) error
}
