package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/medbook-assistant/internal/bookings"
	appconfig "github.com/wolfman30/medbook-assistant/internal/config"
	"github.com/wolfman30/medbook-assistant/internal/conversation"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

// BuildBookingStore selects the appointment backend named by BOOKING_BACKEND.
// The returned close func is never nil.
func BuildBookingStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (bookings.Store, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	noop := func() {}

	switch cfg.BookingBackend {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: connect postgres: %w", err)
		}
		logger.Info("booking store: postgres")
		return bookings.NewPostgresStore(pool), pool.Close, nil
	case "supabase":
		store, err := bookings.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("booking store: supabase")
		return store, noop, nil
	case "", "memory":
		logger.Warn("booking store: in-memory; appointments are lost on restart")
		return bookings.NewMemoryStore(), noop, nil
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown booking backend %q", cfg.BookingBackend)
	}
}

// BuildSessionStore selects the session backend named by SESSION_BACKEND.
func BuildSessionStore(cfg *appconfig.Config, awsCfg aws.Config, redisClient *redis.Client, logger *logging.Logger) (conversation.SessionStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.SessionBackend {
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("bootstrap: redis session backend requires a reachable REDIS_ADDR")
		}
		logger.Info("session store: redis", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
		return conversation.NewRedisStore(redisClient, cfg.SessionTTL, nil), nil
	case "dynamodb":
		logger.Info("session store: dynamodb", "table", cfg.SessionsTable)
		return conversation.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.SessionsTable, cfg.SessionTTL, logger), nil
	case "", "memory":
		logger.Info("session store: in-memory")
		return conversation.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown session backend %q", cfg.SessionBackend)
	}
}
