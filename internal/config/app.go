package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// AppConfig is read once at startup and handed to every component that needs it.
type AppConfig struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	GeminiAPIKey    string
	GeminiModelName string
	SheetsAPIKey    string

	EnrichmentProvider       string
	EnrichmentTimeout        time.Duration
	EnrichmentBreakerEnabled bool
	OpenAIAPIKey             string
	OpenAIChatModel          string
	OpenAIBaseURL            string

	AllowedOrigin           string
	AllowedUserEmail        string
	GoogleClientID          string
	GoogleTokenInfoEndpoint string

	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int

	MetricsPort      string
	SchedulerEnabled bool
}

// LoadEnvFile loads .env when present. A missing file is not an error.
func LoadEnvFile(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	for _, name := range filenames {
		if _, err := os.Stat(name); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}

	return nil
}

// LoadAppConfig reads the process environment through getenv, applying defaults.
// Pass os.Getenv in production.
func LoadAppConfig(getenv func(string) string) (*AppConfig, error) {
	env := envReader{getenv: getenv}

	cfg := &AppConfig{
		AppPort:  env.str("APP_PORT", "3000"),
		AppEnv:   env.str("APP_ENV", "development"),
		LogLevel: env.str("LOG_LEVEL", "debug"),

		GeminiAPIKey:    env.str("GEMINI_API_KEY", ""),
		GeminiModelName: env.str("GEMINI_MODEL_NAME", "gemini-1.5-flash"),
		SheetsAPIKey:    env.str("SHEETS_API_KEY", ""),

		EnrichmentProvider:       strings.ToLower(env.str("ENRICHMENT_PROVIDER", ProviderGemini)),
		EnrichmentTimeout:        env.duration("ENRICHMENT_TIMEOUT", 0),
		EnrichmentBreakerEnabled: env.boolean("ENRICHMENT_BREAKER_ENABLED", true),
		OpenAIAPIKey:             env.str("OPENAI_API_KEY", ""),
		OpenAIChatModel:          env.str("OPENAI_CHAT_MODEL", ""),
		OpenAIBaseURL:            env.str("OPENAI_BASE_URL", ""),

		AllowedOrigin:           env.str("ALLOWED_ORIGIN", "*"),
		AllowedUserEmail:        env.str("ALLOWED_USER_EMAIL", ""),
		GoogleClientID:          env.str("GOOGLE_CLIENT_ID", ""),
		GoogleTokenInfoEndpoint: env.str("GOOGLE_TOKENINFO_ENDPOINT", ""),

		RequestTimeout: env.duration("REQUEST_TIMEOUT", 30*time.Second),
		RateLimitRPS:   env.float("RATE_LIMIT_RPS", 50),
		RateLimitBurst: env.integer("RATE_LIMIT_BURST", 100),

		MetricsPort:      env.str("METRICS_PORT", ""),
		SchedulerEnabled: env.boolean("SCHEDULER_ENABLED", false),
	}

	if err := env.err(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AppConfig) Validate() error {
	var errs []error

	switch c.EnrichmentProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required"))
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required when ENRICHMENT_PROVIDER=openai"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ENRICHMENT_PROVIDER %q", c.EnrichmentProvider))
	}

	if c.AppPort == "" {
		errs = append(errs, errors.New("APP_PORT must not be empty"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.EnrichmentTimeout < 0 {
		errs = append(errs, errors.New("ENRICHMENT_TIMEOUT must not be negative"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	if c.AllowedOrigin == "" {
		errs = append(errs, errors.New("ALLOWED_ORIGIN must not be empty"))
	}

	return errors.Join(errs...)
}

// IsTest reports whether the process runs under APP_ENV=test.
func (c *AppConfig) IsTest() bool {
	return c.AppEnv == "test"
}

type envReader struct {
	getenv func(string) string
	errs   []error
}

func (e *envReader) str(key, def string) string {
	if v := strings.TrimSpace(e.getenv(key)); v != "" {
		return v
	}
	return def
}

func (e *envReader) duration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(e.getenv(key))
	if raw == "" {
		return def
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		// Bare numbers are seconds.
		secs, numErr := strconv.Atoi(raw)
		if numErr != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: invalid duration %q", key, raw))
			return def
		}
		return time.Duration(secs) * time.Second
	}
	return d
}

func (e *envReader) boolean(key string, def bool) bool {
	raw := strings.TrimSpace(e.getenv(key))
	if raw == "" {
		return def
	}

	b, err := strconv.ParseBool(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: invalid boolean %q", key, raw))
		return def
	}
	return b
}

func (e *envReader) integer(key string, def int) int {
	raw := strings.TrimSpace(e.getenv(key))
	if raw == "" {
		return def
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: invalid integer %q", key, raw))
		return def
	}
	return n
}

func (e *envReader) float(key string, def float64) float64 {
	raw := strings.TrimSpace(e.getenv(key))
	if raw == "" {
		return def
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: invalid number %q", key, raw))
		return def
	}
	return f
}

func (e *envReader) err() error {
	return errors.Join(e.errs...)
}
