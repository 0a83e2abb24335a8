package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"ZeroConfigAssistant/internal/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	voiceCommandPath = "/api/voice-command"
	analyzePath      = "/api/analyze"

	// Longer than the server's default REQUEST_TIMEOUT so a degraded answer
	// still arrives instead of a client-side timeout.
	DefaultAPITimeout = 35 * time.Second
)

// TransportError means the backend could not be reached at all: DNS, refused
// connection, timeout. It is the only error that triggers offline mode.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error: %d", e.Status)
	}
	return fmt.Sprintf("API error: %d %s", e.Status, e.Message)
}

func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

type API interface {
	VoiceCommand(ctx context.Context, token, command string) (*entity.FinalResult, error)
	Analyze(ctx context.Context, token, prompt string) (*entity.AnalyzeResult, error)
}

type httpAPI struct {
	baseURL string
	client  *http.Client
}

// NewAPI talks to the backend at baseURL. A nil client gets DefaultAPITimeout.
func NewAPI(baseURL string, client *http.Client) API {
	if client == nil {
		client = &http.Client{Timeout: DefaultAPITimeout}
	}

	return &httpAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (a *httpAPI) VoiceCommand(ctx context.Context, token, command string) (*entity.FinalResult, error) {
	var result entity.FinalResult
	if err := a.post(ctx, voiceCommandPath, token, map[string]string{"command": command}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *httpAPI) Analyze(ctx context.Context, token, prompt string) (*entity.AnalyzeResult, error) {
	var result entity.AnalyzeResult
	if err := a.post(ctx, analyzePath, token, map[string]string{"prompt": prompt}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *httpAPI) post(ctx context.Context, path, token string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
