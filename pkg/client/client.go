// Package client is a Go SDK for the store rating HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 30 * time.Second

// ErrNotLoggedIn is returned by calls that need a session before
// Login or Register has succeeded.
var ErrNotLoggedIn = errors.New("client: not logged in")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// Session is the authenticated identity returned by Login and Register.
type Session struct {
	Token string
	User  User
}

// HomePath is the landing area of the session's role.
func (s *Session) HomePath() string {
	switch s.User.Role {
	case RoleAdmin:
		return "/admin"
	case RoleStoreOwner:
		return "/store-owner"
	case RoleUser:
		return "/stores"
	default:
		return "/login"
	}
}

// ListParams are the optional search and sort query parameters.
type ListParams struct {
	Search    string
	Role      Role // users only
	SortBy    string
	SortOrder string // asc, desc
}

func (p ListParams) encode() string {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Role != "" {
		q.Set("role", string(p.Role))
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		q.Set("sortOrder", p.SortOrder)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

type Config struct {
	BaseURL    string // e.g. http://localhost:8080
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to one server. It is safe for concurrent use; the session
// token is shared by every call.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}
}

// SetToken installs an existing bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type sessionResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

func (c *Client) Register(ctx context.Context, input RegisterRequest) (*Session, error) {
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", false, input, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &Session{Token: resp.Token, User: resp.User}, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", false, body, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &Session{Token: resp.Token, User: resp.User}, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", true, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{"currentPassword": currentPassword, "newPassword": newPassword}
	return c.do(ctx, http.MethodPut, "/api/auth/update-password", true, body, nil)
}

// Logout revokes the current token on the server and forgets it locally.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", true, nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) AdminDashboard(ctx context.Context) (*DashboardSummary, error) {
	var summary DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/api/admin/dashboard", true, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) CreateUser(ctx context.Context, input CreateUserRequest) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/admin/users", true, input, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) CreateStore(ctx context.Context, input CreateStoreRequest) (*Store, error) {
	var resp struct {
		Store Store `json:"store"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/admin/stores", true, input, &resp); err != nil {
		return nil, err
	}
	return &resp.Store, nil
}

func (c *Client) ListUsers(ctx context.Context, params ListParams) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/api/admin/users"+params.encode(), true, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) ListStores(ctx context.Context, params ListParams) ([]StoreWithStats, error) {
	var stores []StoreWithStats
	if err := c.do(ctx, http.MethodGet, "/api/admin/stores"+params.encode(), true, nil, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

func (c *Client) OwnerDashboard(ctx context.Context) (*OwnerDashboard, error) {
	var dashboard OwnerDashboard
	if err := c.do(ctx, http.MethodGet, "/api/store-owner/dashboard", true, nil, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (c *Client) BrowseStores(ctx context.Context, params ListParams) ([]StoreWithUserRating, error) {
	params.Role = ""
	var stores []StoreWithUserRating
	if err := c.do(ctx, http.MethodGet, "/api/user/stores"+params.encode(), true, nil, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// SubmitRating creates or replaces the caller's rating. created reports
// whether a new rating was stored.
func (c *Client) SubmitRating(ctx context.Context, storeID string, rating int) (*Rating, bool, error) {
	body := submitRatingRequest{StoreID: storeID, Rating: rating}
	var resp struct {
		Created bool   `json:"created"`
		Rating  Rating `json:"rating"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/user/ratings", true, body, &resp); err != nil {
		return nil, false, err
	}
	return &resp.Rating, resp.Created, nil
}

// do performs one JSON request. out may be nil.
func (c *Client) do(ctx context.Context, method, path string, authenticated bool, payload, out interface{}) error {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		token := c.Token()
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp struct {
			Error   string            `json:"error"`
			Message string            `json:"message"`
			Fields  map[string]string `json:"fields"`
		}
		if err := json.Unmarshal(body, &errResp); err != nil {
			apiErr.Message = strings.TrimSpace(string(body))
		} else {
			apiErr.Code = errResp.Error
			apiErr.Message = errResp.Message
			apiErr.Fields = errResp.Fields
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
