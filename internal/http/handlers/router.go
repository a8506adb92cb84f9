package handlers

import (
	"strings"
	"time"

	"storefront/internal/config"
	applog "storefront/internal/log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const bodyLimit = 1 << 20 // 1 MiB

const accessLogFormat = `{"ts":"${time}","level":"info","msg":"http.access","action":"http.access",` +
	`"req_id":"${locals:requestid}","ip":"${ip}","method":"${method}","path":"${path}",` +
	`"status":${status},"latency":"${latency}"}` + "\n"

// NewApp builds the API with its middleware stack. store backs the login
// limiter; nil keeps counters in memory.
func NewApp(cfg *config.Config, d *Deps, store fiber.Storage) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		BodyLimit:    bodyLimit,
		ErrorHandler: ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format:     accessLogFormat,
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Output:     applog.Writer(),
	}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     joinOrigins(cfg.CORSOrigins),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	api := app.Group("/api/v1")

	// Auth routes (login throttled per IP)
	loginLimiter := limiter.New(limiter.Config{
		Max:        cfg.LoginRateMax,
		Expiration: cfg.LoginRateWindow,
		Storage:    store,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return fiber.NewError(fiber.StatusTooManyRequests, "too many login attempts, please try again later")
		},
	})
	api.Post("/auth/login", loginLimiter, d.AuthHandler.Login)
	api.Get("/auth/me", RequireBearer(d.Tokens), d.AuthHandler.Me)

	// Catalog
	api.Get("/products/categories", d.CategoryHandler.List)
	api.Get("/products/categories/:code", d.CategoryHandler.Detail)
	api.Get("/products/categories/:code/recommendations", d.CategoryHandler.Recommendations)

	api.Get("/health", d.HealthHandler.Check)

	app.Use(func(c *fiber.Ctx) error { return fiber.ErrNotFound })
	return app
}

// joinOrigins never yields "*": fiber rejects a wildcard with credentials.
func joinOrigins(origins []string) string {
	if len(origins) == 0 {
		return "http://localhost:3000"
	}
	return strings.Join(origins, ",")
}
