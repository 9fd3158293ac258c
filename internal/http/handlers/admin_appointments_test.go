package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/medbook-assistant/internal/bookings"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

func seededAdmin(t *testing.T) (http.Handler, bookings.Appointment) {
	t.Helper()
	store := bookings.NewMemoryStore()
	saved, err := store.Insert(context.Background(), bookings.Appointment{
		Name: "John Doe", Email: "john@example.com", Mobile: "9876543210", Age: 30, Gender: "Male",
		Symptoms: "chest pain", Doctor: "Dr. A Sharma", AppointmentDate: "2026-01-25", AppointmentTime: "10:30 AM",
	})
	require.NoError(t, err)

	h := NewAdminAppointmentsHandler(store, logging.Discard())
	r := chi.NewRouter()
	r.Get("/admin/appointments", h.ListAppointments)
	r.Delete("/admin/appointments/{appointmentID}", h.DeleteAppointment)
	return r, saved
}

func TestAdminListAppointments(t *testing.T) {
	srv, saved := seededAdmin(t)

	rec := do(t, srv, http.MethodGet, "/admin/appointments?email=JOHN@example.com", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp appointmentsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, saved.ID, resp.Appointments[0].ID)

	rec = do(t, srv, http.MethodGet, "/admin/appointments?email=nobody@example.com", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 0, resp.Total)
	assert.NotNil(t, resp.Appointments)

	rec = do(t, srv, http.MethodGet, "/admin/appointments", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminDeleteAppointment(t *testing.T) {
	srv, saved := seededAdmin(t)

	rec := do(t, srv, http.MethodDelete, "/admin/appointments/"+saved.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/admin/appointments/"+saved.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
