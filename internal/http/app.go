package http

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"aifinder/internal/config"
	"aifinder/internal/http/handlers"
	applog "aifinder/internal/log"
	"aifinder/internal/metrics"
)

// NewApp wires middlewares and routes over an opened store.
func NewApp(cfg config.Config, db *sqlx.DB, m *metrics.Metrics) (*fiber.App, error) {
	engine := html.New(cfg.TemplatesDir, ".html")
	engine.Reload(cfg.IsDevelopment())

	app := fiber.New(fiber.Config{
		AppName:      "aifinder",
		Views:        engine,
		BodyLimit:    1 << 20, // 1 MiB
		ErrorHandler: errorHandler,
	})

	useMiddlewares(app, cfg, m)

	deps, err := handlers.NewDeps(db, cfg, m)
	if err != nil {
		return nil, err
	}

	// Public pages
	app.Get("/", deps.CategoryHandler.Home)

	// API
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", authLimiter("register", 20), deps.AuthHandler.Register)
	auth.Post("/login", authLimiter("login", 5), deps.AuthHandler.Login)

	api.Get("/categories", deps.CategoryHandler.List)

	api.Get("/networks", deps.NetworkHandler.List)
	api.Get("/networks/:neuro_id", deps.NetworkHandler.Get)
	api.Get("/networks/:neuro_id/ratings", deps.NetworkHandler.Ratings)
	api.Post("/networks/:neuro_id/rate", deps.NetworkHandler.Rate)

	fav := api.Group("/favorites")
	fav.Post("/networks", deps.FavoriteHandler.AddNetwork)
	fav.Get("/networks/:user_id", deps.FavoriteHandler.ListNetworks)
	fav.Post("/categories", deps.FavoriteHandler.AddCategory)
	fav.Get("/categories/:user_id", deps.FavoriteHandler.ListCategories)

	// Health, metrics & 404
	app.Get("/healthz", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), cfg.DBTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			applog.Error(c, "health.db.fail", err, nil)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
		}
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/metrics", m.Handler())
	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "route not found"})
		}
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	return app, nil
}

// useMiddlewares installs the global chain. Metrics sits outside recover so
// a panicking handler is still counted, as a 500.
func useMiddlewares(app *fiber.App, cfg config.Config, m *metrics.Metrics) {
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(applog.Access())
	app.Use(m.Middleware())
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	app.Use(compress.New())
}

// authLimiter throttles credential endpoints per client IP.
func authLimiter(name string, max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 10 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|" + name
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate."+name+".hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "rate_limited",
				"message": "too many attempts, please try again later",
			})
		},
	})
}

// errorHandler answers errors that escaped the handlers: fiber errors keep
// their status, anything else is a generic 500 with no internal detail.
func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "an internal error occurred"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		if status < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}

	kind := "store_error"
	switch {
	case status == fiber.StatusNotFound:
		kind = "not_found"
	case status < fiber.StatusInternalServerError:
		kind = "invalid_input"
	}
	return c.Status(status).JSON(fiber.Map{"error": kind, "message": msg})
}
