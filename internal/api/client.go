// Package api is the HTTP/JSON client for the activities backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"actividades-cli/internal/model"

	"github.com/google/uuid"
)

// TokenSource returns the bearer token for authenticated calls.
type TokenSource func() (string, error)

type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	newKey  func() string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d, Transport: c.http.Transport}
		}
	}
}

// WithIdempotencyKeys overrides the key generator used on mutating calls.
func WithIdempotencyKeys(fn func() string) Option {
	return func(c *Client) { c.newKey = fn }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		newKey:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Login(ctx context.Context, username, password string) (model.LoginResult, error) {
	var out model.LoginResult
	err := c.do(ctx, "login", http.MethodPost, "/auth/login", model.LoginRequest{Username: username, Password: password}, &out, false, "")
	if err != nil {
		return model.LoginResult{}, err
	}
	if strings.TrimSpace(out.Token) == "" {
		return model.LoginResult{}, &Error{Op: "login", Body: "empty token"}
	}
	return out, nil
}

func (c *Client) ListActivities(ctx context.Context) ([]model.Activity, error) {
	out := []model.Activity{}
	if err := c.do(ctx, "list activities", http.MethodGet, "/actividades", nil, &out, true, ""); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteActivity issues DELETE /actividades/{id}. key is sent as Idempotency-Key;
// an empty key gets a fresh one.
func (c *Client) DeleteActivity(ctx context.Context, id int64, key string) error {
	return c.do(ctx, "delete activity", http.MethodDelete, "/actividades/"+strconv.FormatInt(id, 10), nil, nil, true, c.key(key))
}

func (c *Client) EditActivity(ctx context.Context, p model.EditPayload, key string) error {
	return c.do(ctx, "edit activity", http.MethodPut, "/actividades", p, nil, true, c.key(key))
}

func (c *Client) CreateActivity(ctx context.Context, p model.CreatePayload, key string) (model.Activity, error) {
	var out model.Activity
	if err := c.do(ctx, "create activity", http.MethodPost, "/actividades", p, &out, true, c.key(key)); err != nil {
		return model.Activity{}, err
	}
	return out, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	out := []model.User{}
	if err := c.do(ctx, "list users", http.MethodGet, "/usuarios", nil, &out, true, ""); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListAudit(ctx context.Context) ([]model.AuditEntry, error) {
	out := []model.AuditEntry{}
	if err := c.do(ctx, "list audit", http.MethodGet, "/auditoria-actividades", nil, &out, true, ""); err != nil {
		return nil, err
	}
	return out, nil
}

// NewIdempotencyKey exposes the client's key generator so callers can journal the key they send.
func (c *Client) NewIdempotencyKey() string { return c.newKey() }

func (c *Client) key(k string) string {
	if strings.TrimSpace(k) != "" {
		return k
	}
	return c.newKey()
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any, authed bool, idemKey string) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &Error{Op: op, Err: err}
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}
	if authed && c.token != nil {
		tok, err := c.token()
		if err != nil {
			return &Error{Op: op, Err: err}
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.DebugContext(ctx, "api request failed", "op", op, "method", method, "path", path, "err", err)
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()
	slog.DebugContext(ctx, "api request", "op", op, "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
