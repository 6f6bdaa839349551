// Package adminclient talks to the studio API as an admin. It owns its
// session token and refreshes it once, shared across goroutines, when the
// server starts rejecting it.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/satriastudio/studio-be/internal/http/respond"
	"github.com/satriastudio/studio-be/internal/logging"
	"github.com/satriastudio/studio-be/internal/models"
	"github.com/satriastudio/studio-be/internal/models/dto"
	"github.com/satriastudio/studio-be/internal/routes"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error (%d %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Session holds the current bearer token.
type Session struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// Token returns the cached token, or "" before the first login.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// ExpiresAt returns the expiry reported by the last login.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func (s *Session) set(token string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.expiresAt = expiresAt
}

// Health is the body of the health endpoint.
type Health struct {
	Status string         `json:"status"`
	Uptime string         `json:"uptime"`
	Counts *models.Counts `json:"counts,omitempty"`
}

// Client is safe for concurrent use.
type Client struct {
	BaseURL    *url.URL
	Username   string
	Password   string
	HTTPClient *http.Client

	session Session
	logins  singleflight.Group
}

// New creates a client for the API rooted at baseURL.
func New(baseURL, username, password string) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	return &Client{
		BaseURL:    parsed,
		Username:   username,
		Password:   password,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Session exposes the client's token holder.
func (c *Client) Session() *Session {
	return &c.session
}

// Login exchanges the configured credentials for a fresh token.
func (c *Client) Login(ctx context.Context) error {
	var out dto.LoginResponse
	req := dto.LoginRequest{Username: c.Username, Password: c.Password}
	if err := c.doOnce(ctx, http.MethodPost, routes.AdminLogin, "", req, &out); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	c.session.set(out.Token, out.ExpiresAt)
	logging.Logger.WithField("expires_at", out.ExpiresAt).Debug("admin client logged in")
	return nil
}

const loginTimeout = 30 * time.Second

// relogin refreshes the token unless another caller already replaced stale.
// Concurrent callers share one login request, which is not tied to any one
// caller's context; each caller still stops waiting when its own ctx ends.
func (c *Client) relogin(ctx context.Context, stale string) error {
	ch := c.logins.DoChan("login", func() (any, error) {
		if current := c.session.Token(); current != "" && current != stale {
			return nil, nil
		}
		loginCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loginTimeout)
		defer cancel()
		return nil, c.Login(loginCtx)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// doAuthed sends an admin request, logging in again once on a 401.
func (c *Client) doAuthed(ctx context.Context, method, reqPath string, body, out any) error {
	token := c.session.Token()
	if token == "" {
		if err := c.relogin(ctx, ""); err != nil {
			return err
		}
		token = c.session.Token()
	}

	err := c.doOnce(ctx, method, reqPath, token, body, out)
	if !IsUnauthorized(err) {
		return err
	}
	if err := c.relogin(ctx, token); err != nil {
		return err
	}
	return c.doOnce(ctx, method, reqPath, c.session.Token(), body, out)
}

// doOnce performs a single request attempt.
func (c *Client) doOnce(ctx context.Context, method, reqPath, token string, body, out any) error {
	u := c.BaseURL.JoinPath(reqPath)

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, reqPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return handleHTTPError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func handleHTTPError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode}

	var body respond.ErrorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// Health fetches service status. A 503 is returned as an *APIError.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.doOnce(ctx, http.MethodGet, routes.Health, "", nil, &out)
	return out, err
}

// ListOrders returns every order with contact fields decoded, newest first.
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := c.doAuthed(ctx, http.MethodGet, routes.Orders, nil, &out); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}

// SubmitOrder uses the public intake endpoint; no token is sent.
func (c *Client) SubmitOrder(ctx context.Context, req dto.CreateOrderRequest) (dto.CreateOrderResponse, error) {
	var out dto.CreateOrderResponse
	if err := c.doOnce(ctx, http.MethodPost, routes.Orders, "", req, &out); err != nil {
		return dto.CreateOrderResponse{}, fmt.Errorf("submit order: %w", err)
	}
	return out, nil
}

// ListProjects returns the public portfolio.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	if err := c.doOnce(ctx, http.MethodGet, routes.Projects, "", nil, &out); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

func (c *Client) CreateProject(ctx context.Context, req dto.CreateProjectRequest) (models.Project, error) {
	var out models.Project
	if err := c.doAuthed(ctx, http.MethodPost, routes.Projects, req, &out); err != nil {
		return models.Project{}, fmt.Errorf("create project: %w", err)
	}
	return out, nil
}

// DeleteProject removes a project; a missing id is a 404 *APIError.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	reqPath := routes.Projects + "/" + strconv.FormatInt(id, 10)
	if err := c.doAuthed(ctx, http.MethodDelete, reqPath, nil, nil); err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	return nil
}
