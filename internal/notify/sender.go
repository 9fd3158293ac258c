package notify

import (
	"context"
	"strings"

	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

const defaultFromName = "Hospital Management Team"

// EmailSender delivers one rendered appointment email.
type EmailSender interface {
	Send(ctx context.Context, email Email) error
}

// Email is a plain-text message about a single appointment.
type Email struct {
	To            string
	ToName        string
	Subject       string
	Text          string
	Kind          string
	AppointmentID string
}

// From is the sender identity shared by the providers.
type From struct {
	Address string
	Name    string
	ReplyTo string
}

func (f From) withDefaults() From {
	f.Address = strings.TrimSpace(f.Address)
	f.ReplyTo = strings.TrimSpace(f.ReplyTo)
	if strings.TrimSpace(f.Name) == "" {
		f.Name = defaultFromName
	}
	return f
}

// StubEmailSender logs instead of sending. Used when EMAIL_PROVIDER=stub.
type StubEmailSender struct {
	logger *logging.Logger
}

func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

func (s *StubEmailSender) Send(ctx context.Context, email Email) error {
	s.logger.Info("email not sent (stub provider)",
		"kind", email.Kind,
		"appointment_id", email.AppointmentID,
		"subject", email.Subject,
	)
	return nil
}
