package bookings

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const appointmentColumns = `id, name, email, mobile, age, gender, symptoms, doctor, appointment_date, appointment_time, created_at`

// PostgresStore keeps appointments in the appointments table.
type PostgresStore struct {
	db pgQuerier
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &PostgresStore{db: pool}
}

func newPostgresStoreWithQuerier(db pgQuerier) *PostgresStore {
	if db == nil {
		panic("bookings: querier required")
	}
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, appt Appointment) (Appointment, error) {
	query := `
		INSERT INTO appointments (name, email, mobile, age, gender, symptoms, doctor, appointment_date, appointment_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	var id int64
	err := s.db.QueryRow(ctx, query,
		appt.Name, appt.Email, appt.Mobile, appt.Age, appt.Gender,
		appt.Symptoms, appt.Doctor, appt.AppointmentDate, appt.AppointmentTime,
	).Scan(&id, &appt.CreatedAt)
	if err != nil {
		return Appointment{}, fmt.Errorf("bookings: insert appointment: %w", err)
	}
	appt.ID = strconv.FormatInt(id, 10)
	return appt, nil
}

func (s *PostgresStore) SelectByEmail(ctx context.Context, email string) ([]Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE email = $1 ORDER BY appointment_date, appointment_time`
	return s.list(ctx, "select by email", query, strings.ToLower(strings.TrimSpace(email)))
}

func (s *PostgresStore) SelectByDoctorDate(ctx context.Context, doctor, date string) ([]Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE doctor = $1 AND appointment_date = $2`
	return s.list(ctx, "select by doctor", query, doctor, date)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	pk, err := parseID(id)
	if err != nil {
		return err
	}
	ct, err := s.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, pk)
	if err != nil {
		return fmt.Errorf("bookings: delete appointment: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateSchedule(ctx context.Context, id, date, tm string) error {
	pk, err := parseID(id)
	if err != nil {
		return err
	}
	ct, err := s.db.Exec(ctx, `UPDATE appointments SET appointment_date = $2, appointment_time = $3 WHERE id = $1`, pk, date, tm)
	if err != nil {
		return fmt.Errorf("bookings: update schedule: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) list(ctx context.Context, op, query string, args ...any) ([]Appointment, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("bookings: %s: %w", op, err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var (
			a  Appointment
			id int64
		)
		if err := rows.Scan(&id, &a.Name, &a.Email, &a.Mobile, &a.Age, &a.Gender, &a.Symptoms,
			&a.Doctor, &a.AppointmentDate, &a.AppointmentTime, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("bookings: %s scan: %w", op, err)
		}
		a.ID = strconv.FormatInt(id, 10)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: %s rows: %w", op, err)
	}
	return out, nil
}

func parseID(id string) (int64, error) {
	pk, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id %q", ErrNotFound, id)
	}
	return pk, nil
}
