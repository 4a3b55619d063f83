package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return New(url, 5*time.Second, func() string { return "tok123" })
}

func TestErrorBodyMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Credenciais inválidas"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Me(context.Background())
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}
	if err.Error() != "Credenciais inválidas" {
		t.Errorf("Expected body error field, got %q", err.Error())
	}
	if !IsHTTP(err) {
		t.Error("Expected KindHTTP")
	}

	var apiErr *Error
	if !asError(err, &apiErr) {
		t.Fatal("Expected *Error")
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", apiErr.Status)
	}
}

func TestErrorFallbackStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "<html>oops</html>")
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Stats(context.Background())
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}
	if err.Error() != "HTTP 500" {
		t.Errorf("Expected 'HTTP 500', got %q", err.Error())
	}
}

func TestErrorBodyWithoutErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "missing"})
	}))
	defer server.Close()

	err := newTestClient(server.URL).DeleteTemplate(context.Background(), 9)
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}
	if err.Error() != "HTTP 404" {
		t.Errorf("Expected 'HTTP 404', got %q", err.Error())
	}
}

func TestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, 50*time.Millisecond, nil)
	_, err := client.Stats(context.Background())
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if !IsTimeout(err) {
		t.Errorf("Expected KindTimeout, got %v", err)
	}
	if err.Error() != TimeoutMessage {
		t.Errorf("Expected fixed timeout message, got %q", err.Error())
	}
}

func TestNetworkError(t *testing.T) {
	// Closed server: transport failure, not HTTP
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestClient(server.URL).Stats(context.Background())
	if err == nil {
		t.Fatal("Expected network error")
	}
	if !IsNetwork(err) {
		t.Errorf("Expected KindNetwork, got %v", err)
	}
}

func TestAuthHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]int{"active_groups": 0})
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).Stats(context.Background()); err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Expected 'Bearer tok123', got %q", gotAuth)
	}
}

func TestAuthHeaderEmptyToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]int{})
	}))
	defer server.Close()

	client := New(server.URL, time.Second, func() string { return "" })
	if _, err := client.Stats(context.Background()); err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if gotAuth != "Bearer " {
		t.Errorf("Expected empty bearer value, got %q", gotAuth)
	}
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/login" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "a@b.com" || body["password"] != "secret" {
			t.Errorf("Unexpected login body: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "jwt-token",
			"user":  map[string]interface{}{"id": 1, "name": "Alice", "email": "a@b.com", "is_admin": true},
		})
	}))
	defer server.Close()

	resp, err := New(server.URL, time.Second, nil).Login(context.Background(), "a@b.com", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token != "jwt-token" {
		t.Errorf("Expected token, got %q", resp.Token)
	}
	if !resp.User.IsAdmin {
		t.Error("Expected admin user")
	}
}

func TestUpdateMeOmitsEmptyFields(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer server.Close()

	if err := newTestClient(server.URL).UpdateMe(context.Background(), "Bob", ""); err != nil {
		t.Fatalf("UpdateMe failed: %v", err)
	}
	if _, ok := gotBody["password"]; ok {
		t.Error("Empty password should be omitted from request body")
	}
	if gotBody["name"] != "Bob" {
		t.Errorf("Expected name Bob, got %q", gotBody["name"])
	}
}

func TestSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/send_message" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		var body struct {
			Message string `json:"message"`
			Groups  []int  `json:"groups"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Message != "hello" || len(body.Groups) != 2 {
			t.Errorf("Unexpected send body: %+v", body)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"sent_groups":   []string{"Group A"},
			"failed_groups": []string{"Group B: blocked"},
			"total_sent":    1,
			"total_failed":  1,
		})
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).SendMessage(context.Background(), "hello", []int{1, 2})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if result.TotalSent != 1 || result.TotalFailed != 1 {
		t.Errorf("Unexpected totals: %+v", result)
	}
	if len(result.FailedGroups) != 1 {
		t.Errorf("Expected 1 failed group, got %d", len(result.FailedGroups))
	}
}

func TestDeleteUserPath(t *testing.T) {
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer server.Close()

	if err := newTestClient(server.URL).DeleteUser(context.Background(), 42); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/users/42" {
		t.Errorf("Expected DELETE /users/42, got %s %s", gotMethod, gotPath)
	}
}

func TestHealthOutsideAPIPrefix(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := New(server.URL+"/api", time.Second, nil)
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if gotPath != "/health" {
		t.Errorf("Expected /health at server root, got %s", gotPath)
	}
}

// asError is a tiny wrapper so tests read naturally.
func asError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if ok {
		*target = e
	}
	return ok
}
