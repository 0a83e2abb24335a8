package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestLoadAppConfigDefaults(t *testing.T) {
	cfg, err := LoadAppConfig(envMap(map[string]string{"GEMINI_API_KEY": "key"}))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModelName)
	assert.Equal(t, "*", cfg.AllowedOrigin)
	assert.Equal(t, ProviderGemini, cfg.EnrichmentProvider)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Duration(0), cfg.EnrichmentTimeout)
	assert.Equal(t, 50.0, cfg.RateLimitRPS)
	assert.Equal(t, 100, cfg.RateLimitBurst)
	assert.True(t, cfg.EnrichmentBreakerEnabled)
	assert.False(t, cfg.SchedulerEnabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadAppConfigOverrides(t *testing.T) {
	cfg, err := LoadAppConfig(envMap(map[string]string{
		"APP_PORT":            "8080",
		"ENRICHMENT_PROVIDER": "OpenAI",
		"OPENAI_API_KEY":      "sk-test",
		"ENRICHMENT_TIMEOUT":  "12",
		"REQUEST_TIMEOUT":     "5s",
		"ALLOWED_USER_EMAIL":  "owner@example.com",
		"SCHEDULER_ENABLED":   "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, ProviderOpenAI, cfg.EnrichmentProvider)
	assert.Equal(t, 12*time.Second, cfg.EnrichmentTimeout)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "owner@example.com", cfg.AllowedUserEmail)
	assert.True(t, cfg.SchedulerEnabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadAppConfigInvalidValues(t *testing.T) {
	_, err := LoadAppConfig(envMap(map[string]string{
		"REQUEST_TIMEOUT":   "soon",
		"SCHEDULER_ENABLED": "maybe",
	}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_TIMEOUT")
	assert.Contains(t, err.Error(), "SCHEDULER_ENABLED")
}

func TestValidate(t *testing.T) {
	cfg, err := LoadAppConfig(envMap(map[string]string{}))
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), "GEMINI_API_KEY")

	cfg.EnrichmentProvider = "llama"
	assert.ErrorContains(t, cfg.Validate(), "unknown ENRICHMENT_PROVIDER")
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ASSISTANT_TEST_ONLY_VAR=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ASSISTANT_TEST_ONLY_VAR") })

	require.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "loaded", os.Getenv("ASSISTANT_TEST_ONLY_VAR"))
}
