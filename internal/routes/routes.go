package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/jorieltejada28/banksystem-v2.1.1/internal/account"
	"github.com/jorieltejada28/banksystem-v2.1.1/internal/config"
	"github.com/jorieltejada28/banksystem-v2.1.1/internal/ledger"
	"github.com/jorieltejada28/banksystem-v2.1.1/internal/middleware"
	"github.com/jorieltejada28/banksystem-v2.1.1/internal/notification"
	"github.com/jorieltejada28/banksystem-v2.1.1/internal/sequence"
	"github.com/jorieltejada28/banksystem-v2.1.1/internal/token"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Storage backends: Postgres/Redis in normal operation, in-memory
	// fallbacks for dependency-free development runs.
	var store account.Store
	if d.DB != nil {
		store = account.NewPostgresStore(d.DB, d.Cfg.LockTimeout)
	} else {
		store = account.NewMemoryStore(d.Cfg.LockTimeout)
	}

	var revocations token.RevocationStore
	var sequencer sequence.Sequencer
	if d.Cache != nil {
		revocations = token.NewRedisRevocationStore(d.Cache)
		sequencer = sequence.NewRedisSequencer(d.Cache)
	} else {
		revocations = token.NewMemoryRevocationStore()
		sequencer = sequence.NewMemorySequencer()
	}

	// Services and handlers
	accountSvc := account.NewService(store)
	tokenSvc := token.NewService(d.Cfg.JWTSecret, d.Cfg.TokenTTL, revocations)
	notifier := notification.NewLoggerNotifier(d.Logger)
	ledgerSvc := ledger.NewService(store, sequencer, notifier)

	accountHandler := account.NewHandler(accountSvc)
	sessionHandler := token.NewHandler(accountSvc, tokenSvc)
	ledgerHandler := ledger.NewHandler(ledgerSvc)

	app.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterUserRoutes(app, accountHandler, sessionHandler, rateLimiter)

	// Protected routes
	var idem fiber.Handler
	if d.Cache != nil {
		idem = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}
	RegisterTransactionRoutes(app, ledgerHandler, middleware.BearerAuth(tokenSvc), middleware.RequireAccountOwner(), idem)

	return nil
}
