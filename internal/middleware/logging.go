package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"

	"ZeroConfigAssistant/internal/entity"
	"ZeroConfigAssistant/pkg/log"
)

// Spoken commands are personal; only a prefix of each text field is logged.
const maxLoggedFieldLength = 80

var sensitiveFields = []string{
	"token", "id_token", "access_token", "secret", "key", "api_key",
	"authorization", "credential", "password",
}

func LoggerConfig() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID, ok := c.Locals(RequestIDKey).(string)
		if !ok || requestID == "" {
			requestID = "unknown"
		}

		c.Locals(log.RequestIDKey, requestID)

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		logFields := log.Fields{
			"request_id":    requestID,
			"method":        c.Method(),
			"path":          c.Path(),
			"status":        status,
			"latency_ms":    latency.Milliseconds(),
			"ip":            c.IP(),
			"user_agent":    c.Get(fiber.HeaderUserAgent),
			"response_size": len(c.Response().Body()),
		}

		if session, ok := c.Locals(AuthSessionKey).(entity.AuthSession); ok {
			logFields["user"] = session.Email
		}

		if body := c.Request().Body(); len(body) > 0 {
			logFields["request_body"] = sanitizeRequestBody(body)
		}

		if err != nil {
			logFields["error"] = err.Error()
		}

		switch {
		case status >= 500:
			log.Error(logFields, "Server error")
		case status >= 400:
			log.Warn(logFields, "Client error")
		default:
			log.Info(logFields, "Success")
		}

		return err
	}
}

func sanitizeRequestBody(body []byte) string {
	var jsonBody map[string]interface{}
	if err := jsoniter.Unmarshal(body, &jsonBody); err != nil {
		return "[non-JSON body]"
	}

	for field, value := range jsonBody {
		if isSensitive(field) {
			jsonBody[field] = "[SECRET]"
			continue
		}
		if s, ok := value.(string); ok {
			if runes := []rune(s); len(runes) > maxLoggedFieldLength {
				jsonBody[field] = string(runes[:maxLoggedFieldLength]) + "..."
			}
		}
	}

	sanitized, err := jsoniter.Marshal(jsonBody)
	if err != nil {
		return "[sanitization-failed]"
	}

	return string(sanitized)
}

func isSensitive(field string) bool {
	field = strings.ToLower(field)
	for _, s := range sensitiveFields {
		if field == s {
			return true
		}
	}
	return false
}
