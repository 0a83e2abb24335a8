package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"ZeroConfigAssistant/internal/entity"
)

var (
	ErrNotSignedIn    = errors.New("not signed in")
	ErrSessionExpired = errors.New("session expired")
)

const sessionFileName = "session.yaml"

// SessionSource hands out the current session, if any.
type SessionSource interface {
	Load() (*entity.AuthSession, error)
}

// SessionStore keeps the signed-in session in a small YAML file.
type SessionStore struct {
	path string
	now  func() time.Time
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path, now: time.Now}
}

// DefaultSessionPath is <user config dir>/zeroconfig-assistant/session.yaml.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "zeroconfig-assistant", sessionFileName), nil
}

func (s *SessionStore) Path() string {
	return s.path
}

// Load returns the stored session. An expired session is deleted and
// reported as ErrSessionExpired.
func (s *SessionStore) Load() (*entity.AuthSession, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotSignedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session entity.AuthSession
	if err := yaml.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	if !session.Valid(s.now()) {
		if err := s.Clear(); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}

	session.AuthProvider = entity.AuthProviderGoogle
	return &session, nil
}

// Save writes the session through a temp file and rename so readers never see
// a partial file.
func (s *SessionStore) Save(session entity.AuthSession) error {
	data, err := yaml.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp session: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to protect session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
