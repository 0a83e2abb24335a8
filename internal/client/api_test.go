package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceCommandSendsBearerAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/voice-command", r.URL.Path)
		assert.Equal(t, "Bearer id-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"command":"résume mes emails"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"commandType":"email_summary","params":{},"suggestions":[],"confidence":0.9,"processed":true}`))
	}))
	defer srv.Close()

	api := NewAPI(srv.URL+"/", srv.Client())
	result, err := api.VoiceCommand(context.Background(), "id-token", "résume mes emails")

	require.NoError(t, err)
	assert.Equal(t, "email_summary", result.CommandType)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	assert.True(t, result.Processed)
}

func TestAnalyzeDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analyze", r.URL.Path)
		_, _ = w.Write([]byte(`{"response":"hi","source":"fallback"}`))
	}))
	defer srv.Close()

	result, err := NewAPI(srv.URL, srv.Client()).Analyze(context.Background(), "t", "hello")

	require.NoError(t, err)
	assert.Equal(t, "hi", result.Response)
	assert.Equal(t, "fallback", result.Source)
}

func TestErrorStatusIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"Forbidden"}`))
	}))
	defer srv.Close()

	_, err := NewAPI(srv.URL, srv.Client()).VoiceCommand(context.Background(), "t", "x")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Forbidden", apiErr.Message)
	assert.False(t, IsTransportError(err))
	assert.Equal(t, "API error: 403 Forbidden", err.Error())
}

func TestUnreachableBackendIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewAPI(url, nil).VoiceCommand(context.Background(), "t", "x")

	require.Error(t, err)
	assert.True(t, IsTransportError(err))
}

func TestAPIErrorWithoutMessage(t *testing.T) {
	err := &APIError{Status: 502}
	assert.Equal(t, "API error: 502", err.Error())
}

func TestDefaultClientOutlastsServerTimeout(t *testing.T) {
	api, ok := NewAPI("http://localhost:3000/", nil).(*httpAPI)
	require.True(t, ok)

	assert.Equal(t, "http://localhost:3000", api.baseURL)
	assert.Greater(t, api.client.Timeout, 30*time.Second)
}
