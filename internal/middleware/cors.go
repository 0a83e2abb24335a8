package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
	corsMaxAge       = 86400
)

// NewCORSMiddleware answers every OPTIONS request as a preflight before
// authentication runs. Browsers get the standard CORS handling; OPTIONS
// requests that are not proper preflights still get the same headers.
func (m *middleware) NewCORSMiddleware() fiber.Handler {
	standard := cors.New(cors.Config{
		AllowOrigins: m.cfg.AllowedOrigin,
		AllowMethods: corsAllowMethods,
		AllowHeaders: corsAllowHeaders,
		MaxAge:       corsMaxAge,
	})

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodOptions {
			return standard(c)
		}

		if c.Get(fiber.HeaderOrigin) != "" && c.Get(fiber.HeaderAccessControlRequestMethod) != "" {
			return standard(c)
		}

		c.Set(fiber.HeaderAccessControlAllowOrigin, m.cfg.AllowedOrigin)
		c.Set(fiber.HeaderAccessControlAllowMethods, corsAllowMethods)
		c.Set(fiber.HeaderAccessControlAllowHeaders, corsAllowHeaders)
		c.Set(fiber.HeaderAccessControlMaxAge, "86400")
		return c.SendStatus(fiber.StatusNoContent)
	}
}
