package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New()

	m.RecordEnrichment("voice_command", "gemini", "")
	m.RecordEnrichment("voice_command", "fallback", "model")
	m.RecordCommand("", 0.3)
	m.RecordCommand("calendar_block", 0.9)
	m.RecordAuth("forbidden")
	m.RecordScheduledRun("cleanup")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.enrichmentTotal.WithLabelValues("voice_command", "gemini", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.enrichmentTotal.WithLabelValues("voice_command", "fallback", "model")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commandsTotal.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authTotal.WithLabelValues("forbidden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scheduledTotal.WithLabelValues("cleanup")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordEnrichment("analyze", "gemini", "")
		m.RecordCommand("email_summary", 1)
		m.RecordAuth("ok")
		m.RecordScheduledRun("cleanup")
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()

	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/healthz", "200")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "assistant_http_requests_total")
}
