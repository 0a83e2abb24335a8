package jwtPkg

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// DefaultSessionLifetime is assumed when an ID token carries no usable "exp" claim.
const DefaultSessionLifetime = time.Hour

var ErrMalformedToken = errors.New("malformed ID token")

// ExpiryFromIDToken reads the "exp" claim of a Google ID token without checking
// its signature. Verification is the token-info endpoint's job; this only tells
// the client how long to keep the session.
func ExpiryFromIDToken(idToken string, now time.Time) (time.Time, error) {
	log := logrus.WithField("func", "ExpiryFromIDToken")

	token, _, err := jwt.NewParser().ParseUnverified(idToken, jwt.MapClaims{})
	if err != nil {
		log.WithError(err).Debug("ID token is not a JWT, using default lifetime")
		return now.Add(DefaultSessionLifetime), errors.Join(ErrMalformedToken, err)
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		log.Debug("ID token has no exp claim, using default lifetime")
		return now.Add(DefaultSessionLifetime), nil
	}

	return exp.Time, nil
}

// EmailFromIDToken returns the unverified "email" claim, or "" when absent.
func EmailFromIDToken(idToken string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return ""
	}

	email, _ := claims["email"].(string)
	return email
}
