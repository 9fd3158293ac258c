package bookings

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for local runs and tests.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string]Appointment
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]Appointment), now: time.Now}
}

func (s *MemoryStore) Insert(ctx context.Context, appt Appointment) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	appt.ID = strconv.FormatInt(s.nextID, 10)
	appt.CreatedAt = s.now().UTC()
	s.rows[appt.ID] = appt
	return appt, nil
}

func (s *MemoryStore) SelectByEmail(ctx context.Context, email string) ([]Appointment, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return s.filter(func(a Appointment) bool { return a.Email == email }), nil
}

func (s *MemoryStore) SelectByDoctorDate(ctx context.Context, doctor, date string) ([]Appointment, error) {
	return s.filter(func(a Appointment) bool {
		return a.Doctor == doctor && a.AppointmentDate == date
	}), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *MemoryStore) UpdateSchedule(ctx context.Context, id, date, tm string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.rows[id]
	if !ok {
		return ErrNotFound
	}
	appt.AppointmentDate = date
	appt.AppointmentTime = tm
	s.rows[id] = appt
	return nil
}

// All returns every stored appointment ordered by id.
func (s *MemoryStore) All() []Appointment {
	return s.filter(func(Appointment) bool { return true })
}

func (s *MemoryStore) filter(keep func(Appointment) bool) []Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Appointment
	for _, a := range s.rows {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.ParseInt(out[i].ID, 10, 64)
		b, _ := strconv.ParseInt(out[j].ID, 10, 64)
		return a < b
	})
	return out
}
