package session

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tgboard/internal/config"
	"tgboard/internal/types"
)

// Manager persists the client session. The file carries the same three
// keys the web dashboard keeps in browser local storage: authToken,
// currentUser and isAdmin ("1"/"0").
//
// Token is read from request goroutines while login/logout mutate the
// session on the UI loop, so all access goes through the mutex.
type Manager struct {
	mu      sync.RWMutex
	path    string
	session types.Session
}

// NewManager creates a session manager backed by the default session file.
func NewManager() *Manager {
	return &Manager{path: config.SessionFile}
}

// NewManagerWithPath creates a session manager backed by a specific file.
func NewManagerWithPath(path string) *Manager {
	return &Manager{path: path}
}

// Load reads the session file. A missing file leaves the manager in the
// unauthenticated state; that is not an error.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.session = types.Session{}
			return nil
		}
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var s types.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}

	m.session = s
	return nil
}

// Save writes the session to disk.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.save()
}

// save writes the session to disk. Callers hold the mutex.
func (m *Manager) save() error {
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(m.path, data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// SetFromLogin stores the credentials returned by a successful login.
// The display name falls back to the email when the account has no name.
func (m *Manager) SetFromLogin(resp *types.LoginResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session.AuthToken = resp.Token
	m.session.CurrentUser = resp.User.DisplayName()
	if resp.User.IsAdmin {
		m.session.IsAdmin = "1"
	} else {
		m.session.IsAdmin = "0"
	}
	return m.save()
}

// Clear wipes all session fields and persists the empty state. This is
// the logout path; every key is removed, never a subset.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = types.Session{}
	return m.save()
}

// Token returns the stored bearer token, empty when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.AuthToken
}

// CurrentUser returns the stored display name.
func (m *Manager) CurrentUser() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.CurrentUser
}

// IsAdmin reports the stored admin flag. Display-only; the server
// enforces authorization independently.
func (m *Manager) IsAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Admin()
}

// IsAuthenticated reports whether a token is present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.AuthToken != ""
}

// TokenExpired peeks at the JWT exp claim without verifying the
// signature. Used only to tell the user to log in again before wasting
// a round-trip; the server remains the authority on token validity.
// Tokens that don't parse or carry no exp claim are treated as live.
func (m *Manager) TokenExpired() bool {
	m.mu.RLock()
	token := m.session.AuthToken
	m.mu.RUnlock()

	if token == "" {
		return false
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(time.Now())
}
