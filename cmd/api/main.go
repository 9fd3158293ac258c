package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/medbook-assistant/cmd/mainconfig"
	"github.com/wolfman30/medbook-assistant/internal/api/router"
	"github.com/wolfman30/medbook-assistant/internal/app/bootstrap"
	appconfig "github.com/wolfman30/medbook-assistant/internal/config"
	"github.com/wolfman30/medbook-assistant/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/medbook-assistant/internal/http/middleware"
	"github.com/wolfman30/medbook-assistant/internal/webchat"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting medbook-assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"booking_backend", cfg.BookingBackend,
		"session_backend", cfg.SessionBackend,
	)

	ctx := context.Background()
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	reg, metricsHandler := setupMetrics()
	app, err := bootstrap.BuildApp(ctx, cfg, awsCfg, reg, logger)
	if err != nil {
		logger.Error("failed to build app", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, app, metricsHandler, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics returns a private registry with Go runtime collectors and its
// /metrics handler.
func setupMetrics() (*prometheus.Registry, http.Handler) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func newRouter(cfg *appconfig.Config, app *bootstrap.App, metricsHandler http.Handler, logger *logging.Logger) http.Handler {
	return router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        handlers.NewChatHandler(app.Conversation, logger),
		WebChat:            webchat.NewHandler(app.Conversation, logger),
		AdminAppointments:  handlers.NewAdminAppointmentsHandler(app.Bookings, logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     metricsHandler,
		RateLimiter:        httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ReadinessChecks:    app.Readiness,
	})
}
