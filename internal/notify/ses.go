package notify

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SES tag values allow only letters, digits, underscore and dash.
var sesTagUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SESSender sends through SES v2. A configuration set, when named, receives
// the kind and appointment_id message tags.
type SESSender struct {
	client           sesAPI
	from             From
	configurationSet string
	logger           *logging.Logger
}

// NewSESSender returns nil when client is nil.
func NewSESSender(client *sesv2.Client, from From, configurationSet string, logger *logging.Logger) *SESSender {
	if client == nil {
		return nil
	}
	return newSESSender(client, from, configurationSet, logger)
}

func newSESSender(client sesAPI, from From, configurationSet string, logger *logging.Logger) *SESSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &SESSender{client: client, from: from.withDefaults(), configurationSet: configurationSet, logger: logger}
}

func utf8(s string) *types.Content {
	return &types.Content{Data: aws.String(s), Charset: aws.String("UTF-8")}
}

func (s *SESSender) input(email Email) *sesv2.SendEmailInput {
	in := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.from.Name, s.from.Address)),
		Destination:      &types.Destination{ToAddresses: []string{email.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: utf8(email.Subject),
				Body:    &types.Body{Text: utf8(email.Text)},
			},
		},
	}
	if s.from.ReplyTo != "" {
		in.ReplyToAddresses = []string{s.from.ReplyTo}
	}
	if s.configurationSet != "" {
		in.ConfigurationSetName = aws.String(s.configurationSet)
		for name, value := range map[string]string{"kind": email.Kind, "appointment_id": email.AppointmentID} {
			if value == "" {
				continue
			}
			in.EmailTags = append(in.EmailTags, types.MessageTag{
				Name:  aws.String(name),
				Value: aws.String(sesTagUnsafe.ReplaceAllString(value, "_")),
			})
		}
	}
	return in
}

func (s *SESSender) Send(ctx context.Context, email Email) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("notify: SES client not configured")
	}
	out, err := s.client.SendEmail(ctx, s.input(email))
	if err != nil {
		return fmt.Errorf("notify: SES %s: %w", email.Kind, err)
	}
	s.logger.Debug("email accepted by SES", "kind", email.Kind, "appointment_id", email.AppointmentID, "message_id", aws.ToString(out.MessageId))
	return nil
}

var _ EmailSender = (*SESSender)(nil)
