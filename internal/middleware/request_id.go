package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"ZeroConfigAssistant/pkg/utils"
)

const RequestIDKey = "X-Request-ID"

// Client supplied IDs longer than this are replaced to keep log lines bounded.
const maxRequestIDLength = 64

func NewRequestIDMiddleware() fiber.Handler {
	ids := utils.New()

	return func(c *fiber.Ctx) error {
		requestID := strings.TrimSpace(c.Get(RequestIDKey))

		if requestID == "" || len(requestID) > maxRequestIDLength {
			generated, err := ids.NewULIDFromTimestamp(time.Now())
			if err != nil {
				generated = "unknown"
			}
			requestID = generated
		}

		c.Locals(RequestIDKey, requestID)
		c.Set(RequestIDKey, requestID)

		return c.Next()
	}
}
