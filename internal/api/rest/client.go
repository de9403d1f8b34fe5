package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	restctx "github.com/dtroode/outagetracker/internal/api/rest/context"
	"github.com/dtroode/outagetracker/internal/api/rest/middleware"
	"github.com/dtroode/outagetracker/internal/logger"
	"github.com/dtroode/outagetracker/internal/model"
)

// DefaultBaseURL is used when no API URL is configured.
const DefaultBaseURL = "http://localhost:8000/api/v1"

var (
	_ model.AuthAPI     = (*Client)(nil)
	_ model.LocationAPI = (*Client)(nil)
)

// UnauthorizedFunc is called when an authenticated request is rejected with 401.
type UnauthorizedFunc func(ctx context.Context)

// Client is the REST API client.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *logger.Logger

	mu             sync.RWMutex
	onUnauthorized UnauthorizedFunc
}

// New creates a Client sending requests to baseURL through base.
// Every request carries the stored bearer token, a request ID and is logged.
func New(baseURL string, tokens model.TokenSource, base http.RoundTripper, timeout time.Duration, logger *logger.Logger) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("failed to parse api url: %q is not absolute", baseURL)
	}
	if base == nil {
		base = http.DefaultTransport
	}

	transport := middleware.Chain(base,
		middleware.NewRequestID(restctx.NewManager()).Wrap,
		middleware.NewLogging(logger).Wrap,
		middleware.NewAuthenticate(tokens, logger).Wrap,
	)

	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Transport: transport, Timeout: timeout},
		logger:     logger,
	}, nil
}

// OnUnauthorized registers the hook invoked on 401 responses.
// No token refresh is attempted.
func (c *Client) OnUnauthorized(fn UnauthorizedFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// Credential endpoints answer 401 for bad credentials, which says nothing
// about the current session.
var unauthorizedSkip = map[string]bool{
	"/auth/login":           true,
	"/auth/register":        true,
	"/auth/forgot-password": true,
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewServerError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.NewServerError(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeError(resp.StatusCode, raw)
		c.logger.Warn("API client: request rejected",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"message", apiErr.Message)
		if resp.StatusCode == http.StatusUnauthorized && !unauthorizedSkip[path] {
			c.notifyUnauthorized(ctx)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return model.NewServerError(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func (c *Client) notifyUnauthorized(ctx context.Context) {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn(ctx)
	}
}
