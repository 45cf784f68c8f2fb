package infra

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nairalock/nairalock/internal/config"
	"github.com/nairalock/nairalock/internal/notification"
)

// Connections holds the optional backing services. A nil field means the
// service is not configured and an in-process fallback is used.
type Connections struct {
	DB    *pgxpool.Pool
	Cache *redis.Client
	AMQP  *notification.AMQPNotifier
}

// Open connects to every configured backing service. Redis is required outside
// development; Postgres and RabbitMQ are always optional.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Connections, error) {
	conns := &Connections{}

	if cfg.DatabaseURL != "" {
		db, err := NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		conns.DB = db
	} else {
		logger.Info("DATABASE_URL not set, using in-memory identity registry")
	}

	if cfg.RedisURL != "" {
		cache, err := NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Cache = cache
	} else if !cfg.IsDev() {
		conns.Close()
		return nil, fmt.Errorf("redis is required when APP_ENV=%s", cfg.AppEnv)
	} else {
		logger.Info("REDIS_URL not set, session is kept in memory")
	}

	if cfg.AMQPURL != "" {
		n, err := notification.DialAMQP(cfg.AMQPURL, notification.DefaultExchange)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.AMQP = n
	}
	return conns, nil
}

// Close releases every open connection.
func (c *Connections) Close() error {
	var errs []error
	if c.AMQP != nil {
		errs = append(errs, c.AMQP.Close())
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		c.DB.Close()
	}
	return errors.Join(errs...)
}
