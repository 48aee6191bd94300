package server

import (
	"log"
	"strings"
	"time"

	"vidnotes-be/internal/bootstrap"
	"vidnotes-be/internal/config"
	"vidnotes-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024, // 1MB
	})

	// Middleware
	app.Use(recover.New())
	origins, credentials := corsOrigins(cfg.App.CorsAllowedOrigins)
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowCredentials: credentials,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{"status": "up"}))
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(container.Metrics.Registry(), promhttp.HandlerOpts{})))

	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group("/api")

	c.OAuthController.RegisterRoutes(api)
	c.ShareController.RegisterRoutes(api, c.JwtMiddleware, publicLimiter(cfg.Share.PublicRateLimit))
	c.ProfileController.RegisterRoutes(api, c.JwtMiddleware)

	c.NotebookController.RegisterRoutes(api, c.JwtMiddleware)
	c.PageController.RegisterRoutes(api, c.JwtMiddleware)
	c.NoteController.RegisterRoutes(api, c.JwtMiddleware)
}

// corsOrigins collapses any list containing "*" to a bare wildcard. Credentials are only allowed for explicit origins.
func corsOrigins(configured string) (origins string, credentials bool) {
	origins = strings.TrimSpace(configured)
	if origins == "" {
		return "*", false
	}
	for _, origin := range strings.Split(origins, ",") {
		if strings.TrimSpace(origin) == "*" {
			return "*", false
		}
	}
	return origins, true
}

// publicLimiter throttles unauthenticated share views per client IP. perMinute <= 0 disables it.
func publicLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(ctx *fiber.Ctx) error { return ctx.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(ctx *fiber.Ctx) error {
			return ctx.Status(fiber.StatusTooManyRequests).
				JSON(serverutils.ErrorResponse(fiber.StatusTooManyRequests, "Too many requests"))
		},
	})
}
