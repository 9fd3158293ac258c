package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

const supabaseTable = "appointments"

type supabaseClient interface {
	From(table string) *postgrest.QueryBuilder
}

// SupabaseStore keeps appointments in a hosted Supabase table through PostgREST.
type SupabaseStore struct {
	client supabaseClient
}

// NewSupabaseStore connects with a service key.
func NewSupabaseStore(url, key string) (*SupabaseStore, error) {
	if strings.TrimSpace(url) == "" || strings.TrimSpace(key) == "" {
		return nil, errors.New("bookings: supabase url and key are required")
	}
	client, err := supa.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("bookings: supabase client: %w", err)
	}
	return &SupabaseStore{client: client}, nil
}

type supabaseRow struct {
	ID              json.Number `json:"id"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Mobile          string      `json:"mobile"`
	Age             int         `json:"age"`
	Gender          string      `json:"gender"`
	Symptoms        string      `json:"symptoms"`
	Doctor          string      `json:"doctor"`
	AppointmentDate string      `json:"appointment_date"`
	AppointmentTime string      `json:"appointment_time"`
	CreatedAt       *time.Time  `json:"created_at"`
}

func (r supabaseRow) appointment() Appointment {
	a := Appointment{
		ID:              r.ID.String(),
		Name:            r.Name,
		Email:           r.Email,
		Mobile:          r.Mobile,
		Age:             r.Age,
		Gender:          r.Gender,
		Symptoms:        r.Symptoms,
		Doctor:          r.Doctor,
		AppointmentDate: r.AppointmentDate,
		AppointmentTime: r.AppointmentTime,
	}
	if r.CreatedAt != nil {
		a.CreatedAt = *r.CreatedAt
	}
	return a
}

func (s *SupabaseStore) Insert(ctx context.Context, appt Appointment) (Appointment, error) {
	payload := map[string]any{
		"name":             appt.Name,
		"email":            appt.Email,
		"mobile":           appt.Mobile,
		"age":              appt.Age,
		"gender":           appt.Gender,
		"symptoms":         appt.Symptoms,
		"doctor":           appt.Doctor,
		"appointment_date": appt.AppointmentDate,
		"appointment_time": appt.AppointmentTime,
	}
	data, _, err := s.client.From(supabaseTable).
		Insert(payload, false, "", "representation", "").
		Execute()
	if err != nil {
		return Appointment{}, fmt.Errorf("bookings: supabase insert: %w", err)
	}
	rows, err := decodeRows(data)
	if err != nil {
		return Appointment{}, err
	}
	// An empty representation still means the row was written.
	if len(rows) > 0 {
		saved := rows[0].appointment()
		appt.ID = saved.ID
		appt.CreatedAt = saved.CreatedAt
	}
	return appt, nil
}

func (s *SupabaseStore) SelectByEmail(ctx context.Context, email string) ([]Appointment, error) {
	data, _, err := s.client.From(supabaseTable).
		Select("*", "", false).
		Eq("email", strings.ToLower(strings.TrimSpace(email))).
		Order("appointment_date", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("bookings: supabase select by email: %w", err)
	}
	return toAppointments(data)
}

func (s *SupabaseStore) SelectByDoctorDate(ctx context.Context, doctor, date string) ([]Appointment, error) {
	data, _, err := s.client.From(supabaseTable).
		Select("*", "", false).
		Eq("doctor", doctor).
		Eq("appointment_date", date).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("bookings: supabase select by doctor: %w", err)
	}
	return toAppointments(data)
}

func (s *SupabaseStore) Delete(ctx context.Context, id string) error {
	data, _, err := s.client.From(supabaseTable).
		Delete("representation", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("bookings: supabase delete: %w", err)
	}
	return requireAffected(data)
}

func (s *SupabaseStore) UpdateSchedule(ctx context.Context, id, date, tm string) error {
	data, _, err := s.client.From(supabaseTable).
		Update(map[string]any{"appointment_date": date, "appointment_time": tm}, "representation", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("bookings: supabase update: %w", err)
	}
	return requireAffected(data)
}

func decodeRows(data []byte) ([]supabaseRow, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var rows []supabaseRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("bookings: supabase decode: %w", err)
	}
	return rows, nil
}

func toAppointments(data []byte) ([]Appointment, error) {
	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}
	out := make([]Appointment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.appointment())
	}
	return out, nil
}

func requireAffected(data []byte) error {
	rows, err := decodeRows(data)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}
