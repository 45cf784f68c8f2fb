package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nairalock/nairalock/internal/auth"
	"github.com/nairalock/nairalock/internal/config"
	"github.com/nairalock/nairalock/internal/identity"
	"github.com/nairalock/nairalock/internal/infra"
	"github.com/nairalock/nairalock/internal/ledger"
	"github.com/nairalock/nairalock/internal/middleware"
	"github.com/nairalock/nairalock/internal/notification"
	"github.com/nairalock/nairalock/internal/routes"
	"github.com/nairalock/nairalock/internal/session"
)

// Server wraps the Fiber application and the wallet it serves.
type Server struct {
	app    *fiber.App
	cfg    config.Config
	ledger *ledger.Ledger
	logger *slog.Logger
}

// New wires the identity registry, session store and ledger onto the given
// connections and delegates route wiring to routes.Setup.
func New(ctx context.Context, cfg config.Config, conns *infra.Connections, logger *slog.Logger) (*Server, error) {
	var repo identity.Repository = identity.NewMemoryRepository()
	if conns.DB != nil {
		pg := identity.NewPostgresRepository(conns.DB)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		repo = pg
	}
	ids := identity.NewService(repo)
	if cfg.IsDev() {
		demo, err := ids.SeedDemo(ctx, cfg.DemoPassword)
		if err != nil {
			return nil, fmt.Errorf("seed demo identity: %w", err)
		}
		logger.Info("demo identity ready", slog.String("email", demo.Email))
	}

	var kv session.KV = session.NewMemoryKV()
	if conns.Cache != nil {
		kv = session.NewRedisKV(conns.Cache)
	}
	sessions := session.NewStore(kv, ids, logger)
	if id, ok, err := sessions.Restore(ctx); err != nil {
		logger.Warn("restore session", slog.Any("error", err))
	} else if ok {
		logger.Info("session restored", slog.String("user_id", id.ID))
	}

	notifiers := notification.Fanout{notification.NewLoggerNotifier(logger)}
	if conns.AMQP != nil {
		notifiers = append(notifiers, conns.AMQP)
	}
	l := ledger.New(
		ledger.WithLatency(cfg.SettlementLatency),
		ledger.WithNotifier(notifiers),
		ledger.WithHolders(sessions),
		ledger.WithLogger(logger),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})
	routes.Setup(app, routes.Deps{
		Cfg:    cfg,
		DB:     conns.DB,
		Cache:  conns.Cache,
		Logger: logger,
		Auth:   auth.NewService(cfg, sessions),
		Ledger: l,
	})

	return &Server{app: app, cfg: cfg, ledger: l, logger: logger}, nil
}

// App exposes the fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown stops accepting requests, then fails any funding still queued.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.app.ShutdownWithContext(ctx)
	s.ledger.Close()
	return err
}
