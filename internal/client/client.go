// Package client is the console's HTTP client for the users API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"admin-console/internal/api"

	"github.com/creasty/defaults"
)

type Options struct {
	BaseURL   string        `default:"http://localhost:8080"`
	Timeout   time.Duration `default:"10s"`
	UserAgent string        `default:"admin-console"`
	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to /api/v1 of the users API.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
}

func New(opts Options) (*Client, error) {
	if err := defaults.Set(&opts); err != nil {
		return nil, fmt.Errorf("client.New: %w", err)
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client.New: %w", err)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{base: base, http: hc, userAgent: opts.UserAgent}, nil
}

type tokenKey struct{}

// WithToken attaches the bearer token used for requests made with ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the token stored by WithToken.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// CreateUser calls POST /api/v1/users.
func (c *Client) CreateUser(ctx context.Context, req api.UserCreate) (*api.User, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	var user api.User
	if err := c.do(ctx, http.MethodPost, "/api/v1/users", nil, "application/json", bytes.NewReader(body), &user); err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return &user, nil
}

// ListUsers calls GET /api/v1/users.
func (c *Client) ListUsers(ctx context.Context, skip, limit int) (*api.UsersPublic, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	var users api.UsersPublic
	if err := c.do(ctx, http.MethodGet, "/api/v1/users", q, "", nil, &users); err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	return &users, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (*api.Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	var token api.Token
	if err := c.do(ctx, http.MethodPost, "/api/v1/login/access-token", nil,
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &token); err != nil {
		return nil, fmt.Errorf("Login: %w", err)
	}
	return &token, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, out any) error {
	u := *c.base
	u.Path = c.base.Path + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e api.ErrorResponse
		_ = json.Unmarshal(raw, &e)
		return api.NewDetailError(resp.StatusCode, e.Detail)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
