package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tgboard/internal/types"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManagerWithPath(filepath.Join(t.TempDir(), ".session.json"))
}

func TestLoadMissingFile(t *testing.T) {
	m := newTestManager(t)

	if err := m.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.IsAuthenticated() {
		t.Error("Expected unauthenticated state for missing file")
	}
	if m.IsAdmin() {
		t.Error("Expected non-admin state for missing file")
	}
}

func TestLoginRoundTrip(t *testing.T) {
	m := newTestManager(t)

	resp := &types.LoginResponse{
		Token: "tok",
		User:  types.User{Name: "Alice", Email: "a@b.com", IsAdmin: true},
	}
	if err := m.SetFromLogin(resp); err != nil {
		t.Fatalf("SetFromLogin failed: %v", err)
	}

	// Fresh manager reads the same state back
	m2 := NewManagerWithPath(m.path)
	if err := m2.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m2.Token() != "tok" {
		t.Errorf("Expected token 'tok', got %q", m2.Token())
	}
	if m2.CurrentUser() != "Alice" {
		t.Errorf("Expected user 'Alice', got %q", m2.CurrentUser())
	}
	if !m2.IsAdmin() {
		t.Error("Expected admin flag set")
	}
}

func TestLoginFallsBackToEmail(t *testing.T) {
	m := newTestManager(t)

	resp := &types.LoginResponse{
		Token: "tok",
		User:  types.User{Email: "a@b.com"},
	}
	if err := m.SetFromLogin(resp); err != nil {
		t.Fatalf("SetFromLogin failed: %v", err)
	}
	if m.CurrentUser() != "a@b.com" {
		t.Errorf("Expected email fallback, got %q", m.CurrentUser())
	}
}

func TestAdminFlagStoredAsString(t *testing.T) {
	m := newTestManager(t)

	resp := &types.LoginResponse{Token: "tok", User: types.User{Email: "a@b.com", IsAdmin: false}}
	if err := m.SetFromLogin(resp); err != nil {
		t.Fatalf("SetFromLogin failed: %v", err)
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		t.Fatalf("Failed to read session file: %v", err)
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Failed to parse session file: %v", err)
	}
	if raw["isAdmin"] != "0" {
		t.Errorf("Expected isAdmin stored as \"0\", got %q", raw["isAdmin"])
	}
}

func TestClearRemovesAllKeys(t *testing.T) {
	m := newTestManager(t)

	resp := &types.LoginResponse{
		Token: "tok",
		User:  types.User{Name: "Alice", Email: "a@b.com", IsAdmin: true},
	}
	if err := m.SetFromLogin(resp); err != nil {
		t.Fatalf("SetFromLogin failed: %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	// A reload sees the unauthenticated initial state
	m2 := NewManagerWithPath(m.path)
	if err := m2.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m2.IsAuthenticated() {
		t.Error("Expected unauthenticated state after logout")
	}
	if m2.CurrentUser() != "" {
		t.Errorf("Expected empty user after logout, got %q", m2.CurrentUser())
	}
	if m2.IsAdmin() {
		t.Error("Expected admin flag cleared after logout")
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return s
}

func TestTokenExpired(t *testing.T) {
	m := newTestManager(t)

	m.session.AuthToken = signedToken(t, time.Now().Add(-time.Hour))
	if !m.TokenExpired() {
		t.Error("Expected expired token to be reported expired")
	}

	m.session.AuthToken = signedToken(t, time.Now().Add(time.Hour))
	if m.TokenExpired() {
		t.Error("Expected live token to be reported live")
	}
}

// Token is read from request goroutines while login and logout mutate
// the session on the UI loop; this must stay race-free.
func TestManagerConcurrentAccess(t *testing.T) {
	m := newTestManager(t)
	if err := m.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	resp := &types.LoginResponse{
		Token: "tok",
		User:  types.User{Name: "Alice", Email: "a@b.com", IsAdmin: true},
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_ = m.Token()
			_ = m.IsAdmin()
			_ = m.TokenExpired()
		}()
		go func() {
			defer wg.Done()
			if err := m.SetFromLogin(resp); err != nil {
				t.Errorf("SetFromLogin failed: %v", err)
			}
			_ = m.CurrentUser()
			_ = m.IsAuthenticated()
		}()
		go func() {
			defer wg.Done()
			if err := m.Clear(); err != nil {
				t.Errorf("Clear failed: %v", err)
			}
		}()
	}
	wg.Wait()

	// Whichever write landed last, the state is one of the two
	// consistent outcomes, never a mix.
	if m.IsAuthenticated() {
		if m.Token() != "tok" || m.CurrentUser() != "Alice" {
			t.Errorf("Inconsistent logged-in state: token=%q user=%q", m.Token(), m.CurrentUser())
		}
	} else {
		if m.CurrentUser() != "" || m.IsAdmin() {
			t.Errorf("Inconsistent logged-out state: user=%q admin=%v", m.CurrentUser(), m.IsAdmin())
		}
	}
}

func TestTokenExpiredToleratesGarbage(t *testing.T) {
	m := newTestManager(t)

	m.session.AuthToken = "not-a-jwt"
	if m.TokenExpired() {
		t.Error("Unparseable token should be treated as live; the server decides")
	}

	m.session.AuthToken = ""
	if m.TokenExpired() {
		t.Error("Empty token is not expired")
	}
}
