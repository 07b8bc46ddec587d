package routes

import (
	"time"

	"github.com/dkorkmaz/bptrack-backend/internal/config"
	"github.com/dkorkmaz/bptrack-backend/internal/handlers"
	"github.com/dkorkmaz/bptrack-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	readingHandler *handlers.ReadingHandler,
	statusHandler *handlers.StatusHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// The automation endpoint handles its own CORS and method dispatch,
	// so it is registered for every method.
	api.All("/check-reading", statusHandler.CheckReading)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected auth routes (JWT required)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Readings (JWT required)
	readings := api.Group("/readings", middleware.JWTProtected(cfg))
	readings.Post("/", readingHandler.CreateReading)
	readings.Get("/", readingHandler.ListReadings)
	readings.Get("/trend", readingHandler.Trend)
	readings.Patch("/:id", readingHandler.AmendReading)
	readings.Delete("/:id", readingHandler.DeleteReading)
}
