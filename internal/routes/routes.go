package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nairalock/nairalock/internal/auth"
	"github.com/nairalock/nairalock/internal/cards"
	"github.com/nairalock/nairalock/internal/config"
	"github.com/nairalock/nairalock/internal/funding"
	"github.com/nairalock/nairalock/internal/ledger"
	"github.com/nairalock/nairalock/internal/middleware"
	"github.com/nairalock/nairalock/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes. DB and Cache
// may be nil.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
	Auth   *auth.Service
	Ledger *ledger.Ledger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Cfg.IsDev() {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	authHandler := auth.NewHandler(d.Auth)
	RegisterAuthRoutes(api, authHandler, middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit))

	// Protected routes
	protected := api.Group("", middleware.SessionAuth(d.Auth))
	if d.Cache != nil {
		protected.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}
	RegisterSessionRoutes(protected, authHandler)
	RegisterWalletRoutes(protected, wallet.NewHandler(wallet.NewService(d.Ledger)))
	RegisterFundingRoutes(protected, funding.NewHandler(funding.NewService(d.Ledger, d.Logger)))
	RegisterCardRoutes(protected, cards.NewHandler(d.Ledger))
}
