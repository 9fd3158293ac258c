// Package notify emails patients about booking changes.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/medbook-assistant/internal/bookings"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

type templateData struct {
	Reference string
	Name      string
	Doctor    string
	Date      string
	Time      string
	Symptoms  string
	Signature string
}

// AppointmentNotifier renders appointment emails and hands them to an EmailSender.
type AppointmentNotifier struct {
	sender    EmailSender
	signature string
	logger    *logging.Logger
}

func NewAppointmentNotifier(sender EmailSender, signature string, logger *logging.Logger) *AppointmentNotifier {
	if sender == nil {
		panic("notify: email sender required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(signature) == "" {
		signature = defaultFromName
	}
	return &AppointmentNotifier{sender: sender, signature: signature, logger: logger}
}

func (n *AppointmentNotifier) BookingConfirmed(ctx context.Context, appt bookings.Appointment) error {
	return n.send(ctx, "confirmation", ConfirmationTemplate, appt)
}

func (n *AppointmentNotifier) BookingCancelled(ctx context.Context, appt bookings.Appointment) error {
	return n.send(ctx, "cancellation", CancellationTemplate, appt)
}

func (n *AppointmentNotifier) BookingRescheduled(ctx context.Context, appt bookings.Appointment) error {
	return n.send(ctx, "reschedule", RescheduleTemplate, appt)
}

func (n *AppointmentNotifier) send(ctx context.Context, kind string, tmpl Template, appt bookings.Appointment) error {
	if strings.TrimSpace(appt.Email) == "" {
		return fmt.Errorf("notify: %s: appointment has no email", kind)
	}
	data := templateData{
		Reference: appt.Reference(),
		Name:      appt.Name,
		Doctor:    appt.Doctor,
		Date:      appt.AppointmentDate,
		Time:      appt.AppointmentTime,
		Symptoms:  appt.Symptoms,
		Signature: n.signature,
	}
	subject, err := render(kind+"_subject", tmpl.Subject, data)
	if err != nil {
		return err
	}
	body, err := render(kind+"_body", tmpl.Body, data)
	if err != nil {
		return err
	}
	if err := n.sender.Send(ctx, Email{
		To:            appt.Email,
		ToName:        appt.Name,
		Subject:       subject,
		Text:          body,
		Kind:          kind,
		AppointmentID: appt.ID,
	}); err != nil {
		return fmt.Errorf("notify: send %s: %w", kind, err)
	}
	n.logger.Info("appointment email sent", "kind", kind, "appointment_id", appt.ID)
	return nil
}
