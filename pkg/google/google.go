package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var ErrVerification = errors.New("token verification failed")

// TokenInfo is the subset of Google's token-info answer the assistant relies on.
type TokenInfo struct {
	Email         string
	EmailVerified bool
	Audience      string
	UserID        string
	ExpiresIn     int64
}

type Verifier interface {
	Verify(ctx context.Context, idToken string) (*TokenInfo, error)
}

type tokenInfoVerifier struct {
	service *oauth2api.Service
}

// NewVerifier asks Google's token-info endpoint about ID tokens. The call is
// unauthenticated; pass option.WithEndpoint to talk to another server.
func NewVerifier(ctx context.Context, opts ...option.ClientOption) (Verifier, error) {
	opts = append([]option.ClientOption{option.WithoutAuthentication()}, opts...)

	service, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &tokenInfoVerifier{service: service}, nil
}

func (v *tokenInfoVerifier) Verify(ctx context.Context, idToken string) (*TokenInfo, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, fmt.Errorf("%w: empty token", ErrVerification)
	}

	info, err := v.service.Tokeninfo().IdToken(idToken).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerification, err)
	}

	return &TokenInfo{
		Email:         info.Email,
		EmailVerified: info.VerifiedEmail,
		Audience:      info.Audience,
		UserID:        info.UserId,
		ExpiresIn:     info.ExpiresIn,
	}, nil
}

// LoginURL returns the consent page address for the implicit ID token flow
// used by the terminal client.
func LoginURL(clientID, redirectURL, state string) string {
	config := &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURL,
		Scopes:      []string{"email", "profile"},
		Endpoint:    google.Endpoint,
	}

	return config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("response_type", "token id_token"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
		oauth2.SetAuthURLParam("nonce", state),
	)
}
