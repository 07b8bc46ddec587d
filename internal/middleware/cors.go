package middleware

import (
	"github.com/dkorkmaz/bptrack-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		// The automation endpoint answers its own CORS and preflight;
		// the middleware would hijack its OPTIONS with a 204.
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/check-reading"
		},
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, OPTIONS",
		AllowCredentials: false,
	})
}
