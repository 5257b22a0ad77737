// Package upstream implements the HTTP client for the Meridian backend API.
// All durable state lives behind this API; the console only keeps sessions
// and ephemeral view state of its own.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-pos/meridian-console/internal/platform/httpx"
)

// Client talks to the backend REST API. It is safe for concurrent use;
// per-user bearer tokens are passed per call, never stored on the client.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New constructs a Client for the given base URL.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type problemBody struct {
	Title   string `json:"title"`
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (p problemBody) text() string {
	switch {
	case p.Detail != "":
		return p.Detail
	case p.Message != "":
		return p.Message
	case p.Error != "":
		return p.Error
	default:
		return p.Title
	}
}

func (c *Client) do(req *http.Request, token string, out any) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", httpx.ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return c.errorFromResponse(req, res)
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("upstream: decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func (c *Client) errorFromResponse(req *http.Request, res *http.Response) error {
	var body problemBody
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
	_ = json.Unmarshal(raw, &body)
	detail := body.text()
	if detail == "" {
		detail = http.StatusText(res.StatusCode)
	}

	var sentinel error
	switch {
	case res.StatusCode == http.StatusUnauthorized:
		sentinel = httpx.ErrUnauthorized
	case res.StatusCode == http.StatusForbidden:
		sentinel = httpx.ErrForbidden
	case res.StatusCode == http.StatusNotFound:
		sentinel = httpx.ErrNotFound
	case res.StatusCode == http.StatusConflict:
		sentinel = httpx.ErrDuplicate
	case res.StatusCode == http.StatusBadRequest || res.StatusCode == http.StatusUnprocessableEntity:
		sentinel = httpx.ErrValidation
	case res.StatusCode == http.StatusNotImplemented:
		sentinel = httpx.ErrNotImplemented
	default:
		sentinel = httpx.ErrUnavailable
	}
	if c.logger != nil {
		c.logger.Debug("upstream error",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Int("status", res.StatusCode))
	}
	return fmt.Errorf("%w: %s", sentinel, detail)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, payload any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return nil, err
		}
		body = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
