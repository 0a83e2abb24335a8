package entity

import "time"

// AuthSession is the result of a successful bearer token verification.
type AuthSession struct {
	Token        string       `yaml:"token" json:"-"`
	Email        string       `yaml:"email" json:"email"`
	ExpiresAt    time.Time    `yaml:"expires_at" json:"expires_at"`
	AuthProvider AuthProvider `yaml:"-" json:"-"`
}

// Valid reports whether the session is still usable at instant now.
func (s AuthSession) Valid(now time.Time) bool {
	return s.Token != "" && now.Before(s.ExpiresAt)
}

type AuthProvider uint8

const (
	AuthProviderUnknown AuthProvider = 0
	AuthProviderGoogle  AuthProvider = 1
)

var AuthProviderMap = map[AuthProvider]string{
	AuthProviderGoogle: "Google",
}

func (a AuthProvider) String() string {
	return AuthProviderMap[a]
}
