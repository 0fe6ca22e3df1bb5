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

	"nesswear/internal/config"
	"nesswear/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every remote call when no timeout is configured
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a rejection body is kept
const maxErrorBody = 64 << 10

// Credentials supplies the bearer credential for outgoing requests
type Credentials interface {
	// Token returns the held credential, or "" when none is held
	Token(ctx context.Context) (string, error)
	// Invalidate purges the held credential after the remote rejected it
	Invalidate(ctx context.Context) error
}

// Client issues requests to the remote catalog REST API
type Client struct {
	baseURL     string
	http        *http.Client
	credentials Credentials
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// New creates a remote catalog client. credentials may be nil, in which case
// every request goes out unauthenticated.
func New(cfg config.CatalogConfig, credentials Credentials, m *metrics.Metrics, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if m == nil {
		m = metrics.New(nil)
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		http:        &http.Client{Timeout: timeout},
		credentials: credentials,
		metrics:     m,
		logger:      logger,
	}
}

// Get issues a GET with optional query parameters
func (c *Client) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, params, nil)
}

// Post issues a POST with a JSON body
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Put issues a PUT with a JSON body
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body)
}

// Delete issues a DELETE
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do sends one request and returns the response body with ids normalized.
// Failures are reported as ErrTransportUnavailable, ErrUnauthorized or
// *RemoteRejectedError.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, body any) (json.RawMessage, error) {
	start := time.Now()
	raw, err := c.do(ctx, method, path, params, body)

	c.metrics.UpstreamLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
	c.metrics.UpstreamRequests.WithLabelValues(method, outcome(err)).Inc()

	return raw, err
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any) (json.RawMessage, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.credentials != nil {
		token, err := c.credentials.Token(ctx)
		if err != nil {
			// A broken session store should not take the storefront down
			c.logger.Warn("Failed to read session credential, sending unauthenticated",
				zap.Error(err),
			)
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Catalog request failed",
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrTransportUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		c.logger.Info("Catalog service rejected credential, purging session",
			zap.String("request_id", requestID),
			zap.String("path", path),
		)
		if c.credentials != nil {
			if err := c.credentials.Invalidate(ctx); err != nil {
				c.logger.Error("Failed to purge rejected credential", zap.Error(err))
			}
		}
		return nil, ErrUnauthorized
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		rejected := &RemoteRejectedError{
			Status:  res.StatusCode,
			Message: remoteMessage(data),
			Body:    data,
		}
		c.logger.Debug("Catalog service rejected request",
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", res.StatusCode),
		)
		return nil, rejected
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrTransportUnavailable, err)
	}

	return NormalizeIDs(data)
}

// remoteMessage extracts {"message": ...} or {"error": ...} from a body
func remoteMessage(data []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}

	var msg string
	if err := json.Unmarshal(payload.Error, &msg); err == nil {
		return msg
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Error, &nested); err == nil {
		return nested.Message
	}
	return ""
}

func outcome(err error) string {
	var rejected *RemoteRejectedError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrTransportUnavailable):
		return "unavailable"
	case errors.As(err, &rejected):
		return "rejected"
	default:
		return "error"
	}
}
