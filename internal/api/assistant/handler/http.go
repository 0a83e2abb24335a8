package assistantHandler

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	assistantService "ZeroConfigAssistant/internal/api/assistant/service"
	"ZeroConfigAssistant/internal/middleware"
)

type AssistantHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	assistantService assistantService.IAssistantService
	requestTimeout   time.Duration
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as assistantService.IAssistantService,
	requestTimeout time.Duration,
) *AssistantHandler {
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return &AssistantHandler{
		log:              log,
		validator:        validate,
		middleware:       middleware,
		assistantService: as,
		requestTimeout:   requestTimeout,
	}
}

// Start mounts the routes on srv. Authentication and body checks are applied
// by the server before any route is reached.
func (h *AssistantHandler) Start(srv fiber.Router) {
	srv.Post("/voice-command", h.ProcessVoiceCommand)
	srv.Post("/analyze", h.Analyze)
}
