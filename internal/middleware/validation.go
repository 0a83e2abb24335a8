package middleware

import (
	"mime"
	"strings"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"

	"ZeroConfigAssistant/internal/api/assistant"
	"ZeroConfigAssistant/pkg/log"
)

// NewJSONBodyMiddleware rejects POST and PUT requests whose body is not a JSON document.
// Other methods pass through untouched.
func (m *middleware) NewJSONBodyMiddleware(ctx *fiber.Ctx) error {
	method := ctx.Method()
	if method != fiber.MethodPost && method != fiber.MethodPut {
		return ctx.Next()
	}

	fields := log.Fields{
		"request_id": m.GetRequestID(ctx),
		"path":       ctx.Path(),
	}

	mediaType, _, err := mime.ParseMediaType(ctx.Get(fiber.HeaderContentType))
	if err != nil || !strings.EqualFold(mediaType, fiber.MIMEApplicationJSON) {
		m.log.WithFields(fields).Warn("[middleware.NewJSONBodyMiddleware] unsupported content type")
		return m.abort(ctx, assistant.ErrBadContentType)
	}

	body := ctx.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		m.log.WithFields(fields).Warn("[middleware.NewJSONBodyMiddleware] empty body")
		return m.abort(ctx, assistant.ErrEmptyBody)
	}

	if !jsoniter.Valid(body) {
		m.log.WithFields(fields).Warn("[middleware.NewJSONBodyMiddleware] body is not valid JSON")
		return m.abort(ctx, assistant.ErrInvalidJSON)
	}

	return ctx.Next()
}
