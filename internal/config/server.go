package config

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"ZeroConfigAssistant/internal/api/assistant"
	assistantHandler "ZeroConfigAssistant/internal/api/assistant/handler"
	assistantService "ZeroConfigAssistant/internal/api/assistant/service"
	"ZeroConfigAssistant/internal/middleware"
	"ZeroConfigAssistant/internal/scheduler"
	"ZeroConfigAssistant/pkg/gemini"
	"ZeroConfigAssistant/pkg/google"
	"ZeroConfigAssistant/pkg/handlerUtil"
	"ZeroConfigAssistant/pkg/metrics"
	"ZeroConfigAssistant/pkg/openai"
	"ZeroConfigAssistant/pkg/resilience"
)

type ServerOption func(*Server) error

type Server struct {
	engine        *fiber.App
	cfg           *AppConfig
	log           *logrus.Logger
	middleware    middleware.Middleware
	validator     *validator.Validate
	handlers      []handler
	verifier      google.Verifier
	model         assistantService.Model
	executor      *resilience.Executor
	metrics       *metrics.Metrics
	metricsServer *http.Server
	scheduler     *scheduler.Scheduler
	closers       []func() error
}

type handler interface {
	Start(srv fiber.Router)
}

// Routes are served at the root and again under this prefix.
const apiPrefix = "/api"

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.cfg == nil {
		return nil, fmt.Errorf("app config is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithAppConfig(cfg *AppConfig) ServerOption {
	return func(s *Server) error {
		s.cfg = cfg
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithMetrics(m *metrics.Metrics) ServerOption {
	return func(s *Server) error {
		s.metrics = m
		return nil
	}
}

// WithVerifier installs a ready made token verifier. Tests use it to avoid Google.
func WithVerifier(verifier google.Verifier) ServerOption {
	return func(s *Server) error {
		s.verifier = verifier
		return nil
	}
}

// WithGoogleVerifier builds the token-info verifier, honouring GOOGLE_TOKENINFO_ENDPOINT.
func WithGoogleVerifier() ServerOption {
	return func(s *Server) error {
		if s.cfg == nil {
			return fmt.Errorf("app config must be set before the Google verifier")
		}

		var opts []option.ClientOption
		if s.cfg.GoogleTokenInfoEndpoint != "" {
			opts = append(opts, option.WithEndpoint(s.cfg.GoogleTokenInfoEndpoint))
		}

		verifier, err := google.NewVerifier(context.Background(), opts...)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create Google verifier: %v", err)
			}
			return fmt.Errorf("failed to create Google verifier: %w", err)
		}
		s.verifier = verifier
		return nil
	}
}

// WithModel installs a ready made enrichment model.
func WithModel(model assistantService.Model) ServerOption {
	return func(s *Server) error {
		s.model = model
		return nil
	}
}

// WithEnrichmentModel builds the model named by ENRICHMENT_PROVIDER.
func WithEnrichmentModel() ServerOption {
	return func(s *Server) error {
		if s.cfg == nil {
			return fmt.Errorf("app config must be set before the enrichment model")
		}

		switch s.cfg.EnrichmentProvider {
		case ProviderOpenAI:
			client, err := openai.NewChatGPT(s.cfg.OpenAIAPIKey, s.cfg.OpenAIChatModel, s.cfg.OpenAIBaseURL)
			if err != nil {
				return fmt.Errorf("failed to create OpenAI client: %w", err)
			}
			s.model = client
			s.closers = append(s.closers, client.Close)
		default:
			client, err := gemini.NewGeminiClient(context.Background(), s.cfg.GeminiAPIKey, s.cfg.GeminiModelName)
			if err != nil {
				if s.log != nil {
					s.log.Errorf("Failed to create Gemini client: %v", err)
				}
				return fmt.Errorf("failed to create Gemini client: %w", err)
			}
			s.model = client
			s.closers = append(s.closers, client.Close)
		}
		return nil
	}
}

func WithResilience() ServerOption {
	return func(s *Server) error {
		if s.cfg == nil {
			return fmt.Errorf("app config must be set before resilience")
		}

		rc := resilience.DefaultConfig()
		rc.BreakerEnabled = s.cfg.EnrichmentBreakerEnabled
		s.executor = resilience.NewExecutor(rc)
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.cfg == nil {
			return fmt.Errorf("app config must be set before middleware")
		}
		if s.verifier == nil {
			return fmt.Errorf("token verifier must be set before middleware")
		}

		s.middleware = middleware.New(s.log, s.verifier, s.metrics, middleware.Config{
			AllowedOrigin:    s.cfg.AllowedOrigin,
			AllowedUserEmail: s.cfg.AllowedUserEmail,
			GoogleClientID:   s.cfg.GoogleClientID,
			RateLimitRPS:     s.cfg.RateLimitRPS,
			RateLimitBurst:   s.cfg.RateLimitBurst,
		})
		return nil
	}
}

func WithScheduler() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before scheduler")
		}
		if s.cfg == nil || !s.cfg.SchedulerEnabled {
			return nil
		}

		sched, err := scheduler.New(s.log, s.metrics, scheduler.DefaultHooks())
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		s.scheduler = sched
		return nil
	}
}

// RegisterHandler builds the middleware chain and routes. It must be called
// once, before Run or App is used.
func (s *Server) RegisterHandler() error {
	if s.middleware == nil {
		return errors.New("middleware is required")
	}
	if s.model == nil {
		return errors.New("enrichment model is required")
	}

	services := assistantService.New(s.log, s.model, s.executor, s.metrics, s.cfg.EnrichmentTimeout)
	handlers := assistantHandler.New(s.log, s.validator, s.middleware, services, s.cfg.RequestTimeout)
	s.handlers = append(s.handlers, handlers)

	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	s.engine.Use(s.metrics.Middleware())
	s.engine.Use(s.middleware.NewRateLimiter)
	s.engine.Use(s.middleware.NewCORSMiddleware())

	s.setupHealthCheck()

	s.engine.Use(s.middleware.NewAuthMiddleware)
	s.engine.Use(s.middleware.NewJSONBodyMiddleware)

	root := s.engine.Group("")
	api := s.engine.Group(apiPrefix)
	for _, h := range s.handlers {
		h.Start(root)
		h.Start(api)
	}

	s.setupNotFound()

	return nil
}

// App exposes the fiber engine, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.engine
}

func (s *Server) Run() error {
	if s.metrics != nil && s.cfg.MetricsPort != "" {
		s.startMetricsServer()
	}

	if s.scheduler != nil {
		s.scheduler.Start()
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", s.cfg.AppPort)); err != nil {
		return err
	}

	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones, then releases clients.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.scheduler != nil {
		s.scheduler.Stop(ctx)
	}

	if err := s.engine.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, err)
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (s *Server) startMetricsServer() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())

	s.metricsServer = &http.Server{
		Addr:              fmt.Sprintf(":%s", s.cfg.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorf("Metrics server stopped: %v", err)
		}
	}()

	s.log.Infof("Metrics available on :%s/metrics", s.cfg.MetricsPort)
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(assistant.HealthResponse{
			Message: "Server is Healthy!",
		})
	})
}

func (s *Server) setupNotFound() {
	s.engine.Use(func(ctx *fiber.Ctx) error {
		return handlerUtil.New(s.log).Handle(ctx, s.middleware.GetRequestID(ctx), assistant.ErrNotFound, ctx.Path(), "not_found")
	})
}
