package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/medbook-assistant/internal/bookings"
	"github.com/wolfman30/medbook-assistant/internal/dialogue"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

// AppointmentAdmin is the subset of the bookings service staff can use.
type AppointmentAdmin interface {
	SelectByEmail(ctx context.Context, email string) ([]bookings.Appointment, error)
	Delete(ctx context.Context, id string) error
}

// AdminAppointmentsHandler lets staff look up and remove bookings.
type AdminAppointmentsHandler struct {
	store  AppointmentAdmin
	logger *logging.Logger
}

func NewAdminAppointmentsHandler(store AppointmentAdmin, logger *logging.Logger) *AdminAppointmentsHandler {
	if store == nil {
		panic("handlers: appointment store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminAppointmentsHandler{store: store, logger: logger}
}

type appointmentsResponse struct {
	Appointments []bookings.Appointment `json:"appointments"`
	Total        int                    `json:"total"`
}

// ListAppointments handles GET /admin/appointments?email=.
func (h *AdminAppointmentsHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("email"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "email query parameter required")
		return
	}
	email, err := dialogue.NormalizeEmail(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid email")
		return
	}
	appts, err := h.store.SelectByEmail(r.Context(), email)
	if err != nil {
		h.logger.Error("admin appointment lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if appts == nil {
		appts = []bookings.Appointment{}
	}
	writeJSON(w, http.StatusOK, appointmentsResponse{Appointments: appts, Total: len(appts)})
}

// DeleteAppointment handles DELETE /admin/appointments/{appointmentID}.
func (h *AdminAppointmentsHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")
	err := h.store.Delete(r.Context(), id)
	switch {
	case errors.Is(err, bookings.ErrNotFound):
		writeError(w, http.StatusNotFound, "appointment not found")
	case err != nil:
		h.logger.Error("admin appointment delete failed", "appointment_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		h.logger.Info("appointment deleted by admin", "appointment_id", id)
		w.WriteHeader(http.StatusNoContent)
	}
}
