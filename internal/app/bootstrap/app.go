package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/medbook-assistant/internal/api/router"
	"github.com/wolfman30/medbook-assistant/internal/bookings"
	appconfig "github.com/wolfman30/medbook-assistant/internal/config"
	"github.com/wolfman30/medbook-assistant/internal/conversation"
	"github.com/wolfman30/medbook-assistant/internal/dialogue"
	"github.com/wolfman30/medbook-assistant/internal/extraction"
	"github.com/wolfman30/medbook-assistant/internal/notify"
	"github.com/wolfman30/medbook-assistant/internal/observability/metrics"
	"github.com/wolfman30/medbook-assistant/internal/triage"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

// App is the wired assistant shared by the API server and the CLI.
type App struct {
	Conversation *conversation.Service
	Bookings     *bookings.Service
	Readiness    map[string]router.ReadinessCheck

	closers []func()
}

// Close releases clients in reverse construction order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// BuildApp wires storage, providers and the dialogue manager from config.
// reg may be nil to skip metrics registration.
func BuildApp(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, reg prometheus.Registerer, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	app := &App{Readiness: make(map[string]router.ReadinessCheck)}
	loc := cfg.Location()

	var dm *metrics.DialogueMetrics
	var lm *metrics.LLMMetrics
	if reg != nil {
		dm = metrics.NewDialogueMetrics(reg)
		lm = metrics.NewLLMMetrics(reg)
	}

	store, closeStore, err := BuildBookingStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closeStore)
	bookingSvc := bookings.NewService(store, bookings.NewAvailabilityChecker(store, cfg.ConflictWindow), logger.WithComponent("bookings"))
	app.Bookings = bookingSvc

	var redisClient *redis.Client
	if cfg.SessionBackend == "redis" {
		redisClient = BuildRedisClient(ctx, cfg, logger, true)
	}
	if redisClient != nil {
		app.closers = append(app.closers, func() { _ = redisClient.Close() })
		app.Readiness["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	sessions, err := BuildSessionStore(cfg, awsCfg, redisClient, logger)
	if err != nil {
		app.Close()
		return nil, err
	}

	docs, err := BuildRoster(ctx, cfg, awsCfg, logger)
	if err != nil {
		app.Close()
		return nil, err
	}

	client, closeLLM := BuildLLMClient(ctx, cfg, awsCfg, lm, logger)
	app.closers = append(app.closers, closeLLM)

	opts := []dialogue.Option{
		dialogue.WithAvailability(bookingSvc),
		dialogue.WithNotifier(notify.NewAppointmentNotifier(BuildEmailSender(cfg, awsCfg, logger), cfg.EmailFromName, logger)),
		dialogue.WithClock(nil, loc),
		dialogue.WithMaxDoctors(cfg.MaxCandidateDoctors),
		dialogue.WithConflictWindow(cfg.ConflictWindow),
		dialogue.WithMetrics(dm),
	}
	var classifier *triage.Chain
	if client != nil {
		ex := extraction.New(client, logger.WithComponent("extraction"),
			extraction.WithMetrics(dm),
			extraction.WithTimeout(cfg.LLMTimeout),
		)
		opts = append(opts,
			dialogue.WithExtractor(ex),
			dialogue.WithDateTimeParser(ex),
			dialogue.WithAdvisor(triage.NewAdvisor(client, "")),
		)
		classifier = triage.NewChain(logger, triage.NewLLMStrategy(client, ""))
	} else {
		classifier = triage.NewChain(logger)
	}
	if cal := BuildCalendar(ctx, cfg, loc, logger); cal != nil {
		opts = append(opts, dialogue.WithEventScheduler(cal))
	}

	manager := dialogue.NewManager(classifier, docs, bookingSvc, logger.WithComponent("dialogue"), opts...)

	var convOpts []conversation.Option
	if tr := BuildTranscriber(ctx, cfg, logger); tr != nil {
		convOpts = append(convOpts, conversation.WithTranscriber(tr))
		app.closers = append(app.closers, func() { _ = tr.Close() })
	}
	archive, err := BuildTranscriptArchive(cfg, logger)
	if err != nil {
		app.Close()
		return nil, err
	}
	if archive != nil {
		convOpts = append(convOpts, conversation.WithArchive(archive))
		app.closers = append(app.closers, func() { _ = archive.Close() })
		app.Readiness["transcript_archive"] = archive.Ping
	}

	app.Conversation = conversation.NewService(manager, sessions, logger.WithComponent("conversation"), convOpts...)
	return app, nil
}
