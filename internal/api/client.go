// Package api wraps outbound calls to the admissions REST API. It attaches
// the bearer token except on the public allow-list, converts failure
// statuses into typed errors, and notifies the session layer when the
// server rejects the token.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hti-gh/applicant-portal/pkg/config"
	appErrors "github.com/hti-gh/applicant-portal/pkg/errors"
)

// TokenSource supplies the current access token, if any.
type TokenSource interface {
	AccessToken() (string, bool)
}

// publicPaths never receive the bearer token, even when one is present.
var publicPaths = []string{
	"/auth/login",
	"/public/make-payment",
	"/public/check-status",
	"/program-types/search",
	"/regions/search",
	"/districts/search",
}

const (
	maxResponseBytes = 8 << 20
	maxErrorBytes    = 64 << 10
)

// Client is the portal's HTTP adapter.
type Client struct {
	http           *http.Client
	baseURL        string
	prefix         string
	tokens         TokenSource
	validate       *validator.Validate
	logger         *zap.Logger
	maxRetries     int
	onUnauthorized func()
}

// New constructs a Client from configuration. tokens may be nil for a
// purely public client (payment-only flows).
func New(cfg config.APIConfig, tokens TokenSource, validate *validator.Validate, logger *zap.Logger) *Client {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:       &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		prefix:     cfg.Prefix,
		tokens:     tokens,
		validate:   validate,
		logger:     logger,
		maxRetries: cfg.MaxRetries,
	}
}

// SetUnauthorizedHook registers the callback invoked when a non-public
// request comes back 401/403. The session layer uses it to clear state.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// Get issues a GET under the API prefix and decodes into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, c.prefix+path, nil, out)
}

// Post issues a POST under the API prefix.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, c.prefix+path, body, out)
}

// Put issues a PUT under the API prefix.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, c.prefix+path, body, out)
}

// PostAbsolute issues a POST against a path relative to the host root. The
// payment status check lives outside the versioned prefix.
func (c *Client) PostAbsolute(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "marshal request body")
		}
	}

	public := isPublic(path)
	attempts := 1
	if method == http.MethodGet {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return appErrors.Wrap(ctx.Err(), appErrors.ErrNetwork.Code, 0, "request cancelled")
			case <-time.After(backoff(attempt)):
			}
		}

		resp, err := c.send(ctx, method, path, payload, public)
		if err != nil {
			lastErr = appErrors.Wrap(err, appErrors.ErrNetwork.Code, 0, appErrors.ErrNetwork.Message)
			c.logger.Warn("request failed",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			continue
		}

		if retryable(resp.StatusCode) && attempt < attempts-1 {
			drain(resp)
			lastErr = appErrors.New(appErrors.ErrNetwork.Code, resp.StatusCode, fmt.Sprintf("transient status %d", resp.StatusCode))
			continue
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			drain(resp)
			if public {
				return appErrors.Clone(appErrors.ErrInvalidCredentials, "")
			}
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
			// TODO: exchange the refresh token before giving up once the
			// /auth/refresh endpoint ships.
			return appErrors.Clone(appErrors.ErrSessionExpired, "")
		}

		if resp.StatusCode >= 400 {
			return c.apiError(resp)
		}

		return c.decode(resp, out)
	}

	return lastErr
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, public bool) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !public && c.tokens != nil {
		if token, ok := c.tokens.AccessToken(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return c.http.Do(req)
}

// decode unmarshals the response and, for struct targets, validates the
// result so malformed payloads fail at the boundary instead of deep inside
// a form.
func (c *Client) decode(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrNetwork.Code, 0, "read response body")
	}

	if err := json.Unmarshal(data, out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "decode response")
	}

	if v := reflect.ValueOf(out); v.Kind() == reflect.Ptr && v.Elem().Kind() == reflect.Struct {
		if err := c.validate.Struct(out); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unexpected response shape")
		}
	}

	return nil
}

func (c *Client) apiError(resp *http.Response) error {
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
	message := serverMessage(data)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, message)
	case http.StatusBadRequest:
		return appErrors.New(appErrors.ErrValidation.Code, resp.StatusCode, orDefault(message, "request rejected"))
	default:
		return appErrors.New("API_ERROR", resp.StatusCode, orDefault(message, fmt.Sprintf("request failed with status %d", resp.StatusCode)))
	}
}

// serverMessage digs a human-readable message out of common error envelopes.
func serverMessage(data []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error.Message != "" {
			return envelope.Error.Message
		}
	}
	return strings.TrimSpace(string(data))
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func isPublic(path string) bool {
	clean := path
	if i := strings.IndexByte(clean, '?'); i >= 0 {
		clean = clean[:i]
	}
	for _, p := range publicPaths {
		if strings.HasSuffix(clean, p) || strings.Contains(clean, p+"/") {
			return true
		}
	}
	return false
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func backoff(attempt int) time.Duration {
	d := 200 * time.Millisecond << uint(attempt-1)
	if d > 2*time.Second {
		d = 2 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(d) / 4))
	return d + jitter
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBytes))
	resp.Body.Close()
}

// QueryPath appends encoded query values to a path.
func QueryPath(path string, values url.Values) string {
	if len(values) == 0 {
		return path
	}
	return path + "?" + values.Encode()
}
