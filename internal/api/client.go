package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tgboard/internal/types"
)

// TokenSource supplies the current bearer token. It is read on every
// request so a fresh login takes effect without rebuilding the client.
// An empty string sends an empty bearer value; the backend rejects it.
type TokenSource func() string

// Client is the request gateway. One method per backend endpoint, all
// routed through a single do() primitive that attaches the auth header,
// enforces the timeout and normalizes failures into *Error.
type Client struct {
	baseURL string
	timeout time.Duration
	token   TokenSource
	http    *http.Client
}

// New creates a gateway bound to baseURL. token may be nil for an
// unauthenticated client.
func New(baseURL string, timeout time.Duration, token TokenSource) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		token:   token,
		http:    &http.Client{},
	}
}

// do issues one HTTP call. endpoint is a path relative to the base URL.
// body is marshaled to JSON when non-nil; out is decoded from the
// response body when non-nil.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	url := c.baseURL + endpoint
	return c.doURL(ctx, method, url, body, out)
}

func (c *Client) doURL(ctx context.Context, method, url string, body, out interface{}) error {
	var bodyReader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindNetwork, Message: fmt.Sprintf("failed to encode request body: %v", err)}
		}
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: fmt.Sprintf("failed to create request: %v", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	var token string
	if c.token != nil {
		token = c.token()
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeoutErr(ctx, err) {
			return &Error{Kind: KindTimeout, Message: TimeoutMessage}
		}
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Kind: KindNetwork, Message: fmt.Sprintf("failed to decode response: %v", err)}
		}
	}

	return nil
}

// statusError builds the error for a non-2xx response: the body's
// "error" field when it parses, "HTTP <status>" otherwise.
func (c *Client) statusError(resp *http.Response) *Error {
	message := fmt.Sprintf("HTTP %d", resp.StatusCode)

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		message = body.Error
	}

	return &Error{Kind: KindHTTP, Status: resp.StatusCode, Message: message}
}

func isTimeoutErr(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Login authenticates and returns the token plus the user record.
func (c *Client) Login(ctx context.Context, email, password string) (*types.LoginResponse, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp types.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me fetches the authenticated user's own record.
func (c *Client) Me(ctx context.Context) (*types.User, error) {
	var user types.User
	if err := c.do(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateMe updates the own profile. Empty fields are omitted from the
// request body so the server leaves them untouched.
func (c *Client) UpdateMe(ctx context.Context, name, password string) error {
	payload := map[string]string{}
	if name != "" {
		payload["name"] = name
	}
	if password != "" {
		payload["password"] = password
	}
	return c.do(ctx, http.MethodPut, "/me", payload, nil)
}

// ListUsers lists all accounts. Admin-only on the server.
func (c *Client) ListUsers(ctx context.Context) ([]types.User, error) {
	var users []types.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Register creates a new account. Admin-only on the server.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	payload := map[string]string{"name": name, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/register", payload, nil)
}

// DeleteUser removes an account by id. Admin-only on the server.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

// Stats fetches the dashboard counters.
func (c *Client) Stats(ctx context.Context) (*types.Stats, error) {
	var stats types.Stats
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListGroups lists the recipient groups.
func (c *Client) ListGroups(ctx context.Context) ([]types.Group, error) {
	var groups []types.Group
	if err := c.do(ctx, http.MethodGet, "/groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// AddGroup registers a new recipient group.
func (c *Client) AddGroup(ctx context.Context, chatID, name string) error {
	payload := map[string]string{"chat_id": chatID, "name": name}
	return c.do(ctx, http.MethodPost, "/groups", payload, nil)
}

// ListTemplates lists the message templates.
func (c *Client) ListTemplates(ctx context.Context) ([]types.Template, error) {
	var templates []types.Template
	if err := c.do(ctx, http.MethodGet, "/templates", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// CreateTemplate creates a message template.
func (c *Client) CreateTemplate(ctx context.Context, name, content string) error {
	payload := map[string]string{"name": name, "content": content}
	return c.do(ctx, http.MethodPost, "/templates", payload, nil)
}

// DeleteTemplate removes a template by id.
func (c *Client) DeleteTemplate(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/templates/%d", id), nil, nil)
}

// SendMessage broadcasts message to the given group ids and returns the
// per-group outcome.
func (c *Client) SendMessage(ctx context.Context, message string, groupIDs []int) (*types.SendResult, error) {
	payload := struct {
		Message string `json:"message"`
		Groups  []int  `json:"groups"`
	}{Message: message, Groups: groupIDs}

	var result types.SendResult
	if err := c.do(ctx, http.MethodPost, "/send_message", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// History fetches the server-side send history (most recent first).
func (c *Client) History(ctx context.Context) ([]types.HistoryEntry, error) {
	var entries []types.HistoryEntry
	if err := c.do(ctx, http.MethodGet, "/history", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Health pings the backend health endpoint, which lives at the server
// root rather than under the /api prefix.
func (c *Client) Health(ctx context.Context) error {
	url := strings.TrimSuffix(c.baseURL, "/api") + "/health"
	return c.doURL(ctx, http.MethodGet, url, nil, nil)
}
