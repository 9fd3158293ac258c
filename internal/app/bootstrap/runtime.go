package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/medbook-assistant/internal/config"
	"github.com/wolfman30/medbook-assistant/internal/conversation"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildTranscriptArchive opens the PostgreSQL transcript archive when
// PERSIST_TRANSCRIPTS is on and a database is configured.
func BuildTranscriptArchive(cfg *appconfig.Config, logger *logging.Logger) (*conversation.TranscriptArchive, error) {
	if cfg == nil || !cfg.PersistTranscripts {
		return nil, nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		logger.Warn("transcript persistence requested without DATABASE_URL; disabled")
		return nil, nil
	}
	archive, err := conversation.OpenArchive(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info("transcript archive enabled")
	return archive, nil
}
