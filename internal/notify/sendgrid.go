package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

type sendGridAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender tags every message with the appointment category and id so
// bounces and opens can be traced back to a booking.
type SendGridSender struct {
	client sendGridAPI
	from   From
	logger *logging.Logger
}

// NewSendGridSender returns nil when no API key is configured.
func NewSendGridSender(apiKey string, from From, logger *logging.Logger) *SendGridSender {
	if apiKey == "" {
		return nil
	}
	return newSendGridSender(sendgrid.NewSendClient(apiKey), from, logger)
}

func newSendGridSender(client sendGridAPI, from From, logger *logging.Logger) *SendGridSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &SendGridSender{client: client, from: from.withDefaults(), logger: logger}
}

func (s *SendGridSender) message(email Email) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(s.from.Name, s.from.Address))
	m.Subject = email.Subject
	if s.from.ReplyTo != "" {
		m.SetReplyTo(mail.NewEmail(s.from.Name, s.from.ReplyTo))
	}

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(email.ToName, email.To))
	if email.AppointmentID != "" {
		p.SetCustomArg("appointment_id", email.AppointmentID)
	}
	m.AddPersonalizations(p)
	m.AddContent(mail.NewContent("text/plain", email.Text))

	m.AddCategories("appointment")
	if email.Kind != "" {
		m.AddCategories(email.Kind)
	}
	return m
}

func (s *SendGridSender) Send(ctx context.Context, email Email) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("notify: sendgrid client not configured")
	}
	resp, err := s.client.SendWithContext(ctx, s.message(email))
	if err != nil {
		return fmt.Errorf("notify: sendgrid %s: %w", email.Kind, err)
	}
	if resp.StatusCode >= 400 {
		s.logger.Error("sendgrid rejected email", "status", resp.StatusCode, "body", resp.Body, "appointment_id", email.AppointmentID)
		return fmt.Errorf("notify: sendgrid %s: status %d", email.Kind, resp.StatusCode)
	}
	s.logger.Debug("email accepted by sendgrid", "kind", email.Kind, "appointment_id", email.AppointmentID)
	return nil
}
