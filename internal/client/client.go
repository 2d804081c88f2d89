// Package client talks to the studyboard HTTP API. *Client implements
// tasks.RemoteStore, so the CLI runs the same Store and Session as the server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"studyboard/internal/domain"
	"studyboard/internal/view"

	"github.com/cenkalti/backoff/v5"
	"github.com/tidwall/gjson"
)

var ErrUnauthorized = errors.New("not logged in or session expired")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Session is the result of a successful login or registration.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type Client struct {
	baseURL  string
	http     *http.Client
	token    string
	maxTries uint
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithMaxTries sets how often idempotent requests are attempted. Default 3.
func WithMaxTries(n uint) Option {
	return func(c *Client) { c.maxTries = max(n, 1) }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 15 * time.Second},
		maxTries: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string { return c.token }

func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Register(ctx context.Context, email, password, confirm string) (Session, error) {
	body := map[string]string{"email": email, "password": password, "confirm_password": confirm}
	return c.authenticate(ctx, "/api/v1/auth/register", body)
}

func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/api/v1/auth/login", body)
}

// Logout revokes the current token on the server and forgets it.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, false); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// Me returns the id of the logged-in user.
func (c *Client) Me(ctx context.Context) (string, error) {
	b, err := c.do(ctx, http.MethodGet, "/api/v1/me", nil, true)
	if err != nil {
		return "", err
	}
	id := gjson.GetBytes(b, "id").String()
	if id == "" {
		return "", errors.New("malformed /me response")
	}
	return id, nil
}

// Stats fetches the server-computed statistics for the user's tasks.
func (c *Client) Stats(ctx context.Context) (view.Stats, error) {
	b, err := c.do(ctx, http.MethodGet, "/api/v1/tasks/stats", nil, true)
	if err != nil {
		return view.Stats{}, err
	}
	var stats view.Stats
	if err := json.Unmarshal([]byte(gjson.GetBytes(b, "stats").Raw), &stats); err != nil {
		return view.Stats{}, fmt.Errorf("decode stats: %w", err)
	}
	return stats, nil
}

// Create stores a task. The server answers with the reloaded board rather
// than the new id, so the returned id is always empty.
func (c *Client) Create(ctx context.Context, _ string, f domain.TaskFields) (string, error) {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/tasks", draftOf(f), false)
	return "", err
}

// List returns the logged-in user's tasks. The owner is taken from the token.
func (c *Client) List(ctx context.Context, _ string) ([]domain.Task, error) {
	b, err := c.do(ctx, http.MethodGet, "/api/v1/tasks", nil, true)
	if err != nil {
		return nil, err
	}
	raw := gjson.GetBytes(b, "board.tasks")
	if !raw.Exists() {
		return nil, errors.New("malformed board response")
	}
	var list []domain.Task
	if err := json.Unmarshal([]byte(raw.Raw), &list); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return list, nil
}

func (c *Client) Update(ctx context.Context, id string, f domain.TaskFields) error {
	_, err := c.do(ctx, http.MethodPut, "/api/v1/tasks/"+id, draftOf(f), true)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	return err
}

// Delete removes a task. A task that is already gone is not an error.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+id, nil, true)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil
	}
	return err
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (Session, error) {
	b, err := c.do(ctx, http.MethodPost, path, body, false)
	if err != nil {
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	c.token = sess.Token
	return sess, nil
}

// do sends one request and returns the response body. Idempotent requests are
// retried with exponential backoff on transport errors and 5xx responses.
func (c *Client) do(ctx context.Context, method, path string, body any, idempotent bool) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, err
		}
	}

	tries := uint(1)
	if idempotent {
		tries = c.maxTries
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second

	res, err := backoff.Retry(ctx, func() ([]byte, error) {
		return c.send(ctx, method, path, payload)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(tries))

	// the last attempt may still carry the permanent marker
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Err
	}
	return res, err
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode < 300:
		return respBody, nil
	case resp.StatusCode == http.StatusUnauthorized && !strings.HasPrefix(path, "/api/v1/auth/login") && !strings.HasPrefix(path, "/api/v1/auth/register"):
		return nil, backoff.Permanent(ErrUnauthorized)
	}

	apiErr := &APIError{Status: resp.StatusCode, Message: gjson.GetBytes(respBody, "error").String()}
	if resp.StatusCode >= 500 {
		return nil, apiErr
	}
	return nil, backoff.Permanent(apiErr)
}

func draftOf(f domain.TaskFields) domain.Draft {
	var t domain.Task
	t.Apply(f)
	return domain.DraftFrom(t)
}
