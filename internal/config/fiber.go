package config

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"ZeroConfigAssistant/pkg/handlerUtil"
)

func NewFiber(logger *logrus.Logger) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:               "ZeroConfig Assistant",
			BodyLimit:             1 * 1024 * 1024,
			DisableKeepalive:      false,
			StrictRouting:         true,
			CaseSensitive:         true,
			DisableStartupMessage: true,
			JSONEncoder:           jsoniter.Marshal,
			JSONDecoder:           jsoniter.Unmarshal,
			ErrorHandler:          errorHandler(logger),
		})

	return app
}

// errorHandler renders errors that escape handlers, such as fiber's own 405
// or body-limit errors, in the same {"error": "..."} shape as everything else.
func errorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(handlerUtil.ErrorResponse{Error: fiberErr.Message})
		}

		requestID, _ := c.Locals("X-Request-ID").(string)
		return handlerUtil.New(logger).Handle(c, requestID, err, c.Path(), "unhandled")
	}
}
