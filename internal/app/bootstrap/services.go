package bootstrap

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/wolfman30/medbook-assistant/internal/calendar"
	appconfig "github.com/wolfman30/medbook-assistant/internal/config"
	"github.com/wolfman30/medbook-assistant/internal/notify"
	"github.com/wolfman30/medbook-assistant/internal/roster"
	"github.com/wolfman30/medbook-assistant/internal/voice"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

// BuildEmailSender selects the provider named by EMAIL_PROVIDER. Missing
// credentials fall back to the logging stub.
func BuildEmailSender(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	from := notify.From{
		Address: cfg.EmailFromAddress,
		Name:    cfg.EmailFromName,
		ReplyTo: cfg.EmailReplyTo,
	}
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(cfg.SendGridAPIKey, from, logger)
		if sender != nil {
			logger.Info("email provider: sendgrid")
			return sender
		}
		logger.Warn("SENDGRID_API_KEY missing; using stub email sender")
	case "ses":
		logger.Info("email provider: ses")
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), from, cfg.SESConfigurationSet, logger)
	}
	return notify.NewStubEmailSender(logger)
}

// BuildRoster loads the doctor roster from S3, a local CSV or the built-in list.
func BuildRoster(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (*roster.Roster, error) {
	if logger == nil {
		logger = logging.Default()
	}
	switch {
	case strings.TrimSpace(cfg.RosterS3Bucket) != "":
		r, err := roster.LoadS3(ctx, s3.NewFromConfig(awsCfg), cfg.RosterS3Bucket, cfg.RosterS3Key)
		if err != nil {
			return nil, err
		}
		logger.Info("roster loaded from s3", "bucket", cfg.RosterS3Bucket, "key", cfg.RosterS3Key)
		return r, nil
	case strings.TrimSpace(cfg.RosterPath) != "":
		r, err := roster.LoadFile(cfg.RosterPath)
		if err != nil {
			return nil, err
		}
		logger.Info("roster loaded from file", "path", cfg.RosterPath)
		return r, nil
	}
	return roster.Default(), nil
}

// BuildCalendar returns the Google Calendar scheduler, or nil when no
// credentials or calendar id are configured.
func BuildCalendar(ctx context.Context, cfg *appconfig.Config, loc *time.Location, logger *logging.Logger) *calendar.GoogleScheduler {
	if cfg.GoogleCredentialsFile == "" || cfg.CalendarID == "" {
		return nil
	}
	scheduler, err := calendar.NewGoogleScheduler(ctx, cfg.GoogleCredentialsFile, cfg.CalendarID, loc, logger)
	if err != nil {
		logger.Warn("google calendar unavailable", "error", err)
		return nil
	}
	return scheduler
}

// BuildTranscriber returns the speech-to-text client, or nil when voice input
// is not configured.
func BuildTranscriber(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *voice.GoogleTranscriber {
	if cfg.GoogleCredentialsFile == "" {
		return nil
	}
	tr, err := voice.NewGoogleTranscriber(ctx, cfg.GoogleCredentialsFile, cfg.SpeechLanguage, logger)
	if err != nil {
		logger.Warn("speech transcriber unavailable", "error", err)
		return nil
	}
	return tr
}
