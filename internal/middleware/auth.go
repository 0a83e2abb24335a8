package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"ZeroConfigAssistant/internal/api/assistant"
	"ZeroConfigAssistant/internal/entity"
	contextPkg "ZeroConfigAssistant/pkg/context"
	"ZeroConfigAssistant/pkg/handlerUtil"
	"ZeroConfigAssistant/pkg/log"
)

const AuthSessionKey = "auth_session"

const verifyTimeout = 10 * time.Second

const (
	authOutcomeOK             = "ok"
	authOutcomeMissing        = "missing_token"
	authOutcomeInvalid        = "invalid_token"
	authOutcomeForbidden      = "forbidden"
	authOutcomeAudienceDenied = "audience_mismatch"
)

// NewAuthMiddleware admits a request only when its bearer token is a live
// Google ID token belonging to the single allow-listed account.
func (m *middleware) NewAuthMiddleware(ctx *fiber.Ctx) error {
	requestID := m.GetRequestID(ctx)
	fields := log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"method":     ctx.Method(),
		"client_ip":  ctx.IP(),
	}

	token, ok := bearerToken(ctx.Get(fiber.HeaderAuthorization))
	if !ok {
		m.log.WithFields(fields).Warn("[middleware.NewAuthMiddleware] missing or malformed Authorization header")
		m.metrics.RecordAuth(authOutcomeMissing)
		return m.abort(ctx, assistant.ErrUnauthorized)
	}

	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), verifyTimeout)
	defer cancel()

	info, err := m.verifier.Verify(c, token)
	if err != nil {
		fields["error"] = err.Error()
		m.log.WithFields(fields).Warn("[middleware.NewAuthMiddleware] token verification failed")
		m.metrics.RecordAuth(authOutcomeInvalid)
		return m.abort(ctx, assistant.ErrAuthentication)
	}

	if info.ExpiresIn <= 0 {
		m.log.WithFields(fields).Warn("[middleware.NewAuthMiddleware] token already expired")
		m.metrics.RecordAuth(authOutcomeInvalid)
		return m.abort(ctx, assistant.ErrAuthentication)
	}

	if m.cfg.GoogleClientID != "" && info.Audience != m.cfg.GoogleClientID {
		fields["audience"] = info.Audience
		m.log.WithFields(fields).Warn("[middleware.NewAuthMiddleware] token issued for another client")
		m.metrics.RecordAuth(authOutcomeAudienceDenied)
		return m.abort(ctx, assistant.ErrAuthentication)
	}

	if !emailAllowed(info.Email, m.cfg.AllowedUserEmail) {
		fields["email"] = info.Email
		m.log.WithFields(fields).Warn("[middleware.NewAuthMiddleware] account is not allowed")
		m.metrics.RecordAuth(authOutcomeForbidden)
		return m.abort(ctx, assistant.ErrForbidden)
	}

	ctx.Locals(AuthSessionKey, entity.AuthSession{
		Token:        token,
		Email:        info.Email,
		ExpiresAt:    time.Now().Add(time.Duration(info.ExpiresIn) * time.Second),
		AuthProvider: entity.AuthProviderGoogle,
	})
	m.metrics.RecordAuth(authOutcomeOK)

	return ctx.Next()
}

func (m *middleware) GetAuthSession(ctx *fiber.Ctx) (entity.AuthSession, bool) {
	session, ok := ctx.Locals(AuthSessionKey).(entity.AuthSession)
	return session, ok
}

func (m *middleware) abort(ctx *fiber.Ctx, err error) error {
	return handlerUtil.New(m.log).Handle(ctx, m.GetRequestID(ctx), err, ctx.Path(), "middleware")
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "

	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// An empty allow-list admits nobody.
func emailAllowed(email, allowed string) bool {
	email = strings.TrimSpace(email)
	allowed = strings.TrimSpace(allowed)

	if email == "" || allowed == "" {
		return false
	}
	return strings.EqualFold(email, allowed)
}
