package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"ZeroConfigAssistant/internal/entity"
	"ZeroConfigAssistant/pkg/google"
	"ZeroConfigAssistant/pkg/metrics"
)

type Middleware interface {
	NewRateLimiter(ctx *fiber.Ctx) error
	NewAuthMiddleware(ctx *fiber.Ctx) error
	NewJSONBodyMiddleware(ctx *fiber.Ctx) error
	NewRequestIDMiddleware() fiber.Handler
	NewLoggingMiddleware() fiber.Handler
	NewCORSMiddleware() fiber.Handler
	GetRequestID(ctx *fiber.Ctx) string
	GetAuthSession(ctx *fiber.Ctx) (entity.AuthSession, bool)
}

// Config carries the settings the middleware chain needs from AppConfig.
type Config struct {
	AllowedOrigin    string
	AllowedUserEmail string
	GoogleClientID   string
	RateLimitRPS     float64
	RateLimitBurst   int
}

type middleware struct {
	cfg                 Config
	verifier            google.Verifier
	metrics             *metrics.Metrics
	rateLimitter        *rateLimiter
	requestIDMiddleware fiber.Handler
	log                 *logrus.Logger
}

func New(logger *logrus.Logger, verifier google.Verifier, m *metrics.Metrics, cfg Config) Middleware {
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 50
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 100
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}

	return &middleware{
		cfg:                 cfg,
		verifier:            verifier,
		metrics:             m,
		rateLimitter:        newRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		requestIDMiddleware: NewRequestIDMiddleware(),
		log:                 logger,
	}
}

func (m *middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func (m *middleware) NewRequestIDMiddleware() fiber.Handler {
	return m.requestIDMiddleware
}

func (m *middleware) NewLoggingMiddleware() fiber.Handler {
	return LoggerConfig()
}
