package google

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTokenInfoServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Query().Get("id_token") {
		case "good-token":
			_, _ = io.WriteString(w, `{
				"audience": "client-123",
				"email": "owner@example.com",
				"verified_email": true,
				"user_id": "42",
				"expires_in": 3599
			}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error": "invalid_token", "error_description": "Invalid Value"}`)
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newTestVerifier(t *testing.T, srv *httptest.Server) Verifier {
	t.Helper()

	verifier, err := NewVerifier(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	return verifier
}

func TestVerify(t *testing.T) {
	verifier := newTestVerifier(t, newTokenInfoServer(t))

	info, err := verifier.Verify(context.Background(), "good-token")
	require.NoError(t, err)

	assert.Equal(t, &TokenInfo{
		Email:         "owner@example.com",
		EmailVerified: true,
		Audience:      "client-123",
		UserID:        "42",
		ExpiresIn:     3599,
	}, info)
}

func TestVerifyRejected(t *testing.T) {
	verifier := newTestVerifier(t, newTokenInfoServer(t))

	_, err := verifier.Verify(context.Background(), "bad-token")
	assert.ErrorIs(t, err, ErrVerification)

	_, err = verifier.Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrVerification)
}

func TestVerifyUnreachable(t *testing.T) {
	srv := newTokenInfoServer(t)
	verifier := newTestVerifier(t, srv)
	srv.Close()

	_, err := verifier.Verify(context.Background(), "good-token")
	assert.ErrorIs(t, err, ErrVerification)
}

func TestLoginURL(t *testing.T) {
	raw := LoginURL("client-123", "http://localhost:8765/callback", "state-1")

	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "token id_token", q.Get("response_type"))
	assert.Equal(t, "email profile", q.Get("scope"))
	assert.Equal(t, "select_account", q.Get("prompt"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "state-1", q.Get("nonce"))
	assert.Equal(t, "http://localhost:8765/callback", q.Get("redirect_uri"))
}
