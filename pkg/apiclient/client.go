// Package apiclient talks to the school backend REST API. Every call issues exactly
// one HTTP request; failures are logged once and returned to the caller unchanged.
package apiclient

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
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-console/pkg/middleware/requestid"
)

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 64 << 10
)

// Observer receives timing for each backend call.
type Observer interface {
	ObserveBackendCall(method, route string, status int, duration time.Duration)
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	Observer   Observer
}

// Request describes one backend call. Route is a template such as
// "/students/:id/restore"; Params fill its ":" segments in order.
type Request struct {
	Method string
	Route  string
	Params []string
	Body   interface{}
}

// Client is a pre-configured JSON client bound to the backend base URL.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *zap.Logger
	observer Observer
}

// New constructs a Client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     httpClient,
		logger:   logger,
		observer: cfg.Observer,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do executes req and decodes a successful JSON body into out when out is non-nil.
// An empty or null body leaves out untouched.
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	path, err := expand(req.Route, req.Params)
	if err != nil {
		return err
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", req.Method, req.Route, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", req.Method, req.Route, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if id := requestid.FromContext(ctx); id != "" {
		httpReq.Header.Set(requestid.Header, id)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.observe(req, 0, start)
		terr := &TransportError{Method: req.Method, Path: path, Err: err}
		c.logFailure(ctx, req, path, 0, terr.Error())
		return terr
	}
	defer resp.Body.Close() //nolint:errcheck
	c.observe(req, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Method: req.Method, Path: path, Status: resp.StatusCode, Message: readMessage(resp.Body)}
		c.logFailure(ctx, req, path, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		terr := &TransportError{Method: req.Method, Path: path, Err: err}
		c.logFailure(ctx, req, path, resp.StatusCode, terr.Error())
		return terr
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logFailure(ctx, req, path, resp.StatusCode, "undecodable response body")
		return fmt.Errorf("decode %s %s response: %w", req.Method, path, err)
	}
	return nil
}

func (c *Client) observe(req Request, status int, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveBackendCall(req.Method, req.Route, status, time.Since(start))
}

func (c *Client) logFailure(ctx context.Context, req Request, path string, status int, message string) {
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.String("message", message),
	}
	if id := requestid.FromContext(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	c.logger.Warn("backend request failed", fields...)
}

func expand(route string, params []string) (string, error) {
	segments := strings.Split(route, "/")
	next := 0
	for i, segment := range segments {
		if !strings.HasPrefix(segment, ":") {
			continue
		}
		if next >= len(params) {
			return "", fmt.Errorf("route %s: missing value for %s", route, segment)
		}
		value := strings.TrimSpace(params[next])
		if value == "" {
			return "", fmt.Errorf("route %s: empty value for %s", route, segment)
		}
		segments[i] = url.PathEscape(value)
		next++
	}
	if next != len(params) {
		return "", fmt.Errorf("route %s: %d params given, %d used", route, len(params), next)
	}
	return strings.Join(segments, "/"), nil
}

func readMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}

// Error is a non-2xx backend response.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("backend %s %s: %d", e.Method, e.Path, e.Status)
}

// TransportError is a failure to obtain any response (timeout, refused connection).
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the request hit the client timeout.
func (e *TransportError) Timeout() bool {
	var netErr interface{ Timeout() bool }
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// StatusCode returns the HTTP status of a backend error response.
func StatusCode(err error) (int, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, true
	}
	return 0, false
}

// Message returns the backend-provided message of an error response, if any.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
