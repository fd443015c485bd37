package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driven"
	"github.com/custodia-labs/estately-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.MarketplaceClient = (*Client)(nil)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 15 * time.Second

	// HeaderRequestID carries a per-request correlation ID.
	HeaderRequestID = "X-Request-ID"

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 4 << 10
)

// Config holds configuration for the marketplace client.
type Config struct {
	// BaseURL is the API root, e.g. https://api.estately.in/v1.
	BaseURL string

	// Timeout is the per-request timeout (default: 15s).
	Timeout time.Duration

	// RequestsPerSecond is the proactive throttle rate (default: 5).
	RequestsPerSecond int

	// Session supplies the bearer token. Nil means anonymous requests.
	Session driven.SessionProvider

	// Transport is the base round tripper (default: http.DefaultTransport).
	Transport http.RoundTripper
}

// Client talks to the marketplace REST API.
type Client struct {
	http        *http.Client
	baseURL     string
	rateLimiter *RateLimiter
}

// NewClient creates a marketplace client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if _, err := url.ParseRequestURI(base); err != nil || base == "" {
		return nil, fmt.Errorf("%w: invalid API base URL %q", domain.ErrInvalidInput, cfg.BaseURL)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &requestIDTransport{
				base: &authTransport{session: cfg.Session, base: transport},
			},
		},
		baseURL:     base,
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond),
	}, nil
}

// RateLimiter returns the client's rate limiter.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// getJSON issues a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

// postJSON issues a POST with a JSON body and decodes the response into out when non-nil.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	op := req.Method + " " + req.URL.Path
	if err := c.rateLimiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("%s: rate limit wait: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	defer logger.Elapsed(op, time.Now())
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body, resp.Status),
			URL:        req.URL.String(),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w: %w", op, domain.ErrNetwork, err)
	}
	return nil
}

// errorMessage extracts a message from a JSON error body, falling back to the status text.
func errorMessage(body []byte, status string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return status
}

// authTransport adds the signed-in user's bearer token via oauth2.
// Anonymous requests go out untouched.
type authTransport struct {
	session driven.SessionProvider
	base    http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.session == nil {
		return t.base.RoundTrip(req)
	}
	token := t.session.Current().Token
	if token == "" {
		return t.base.RoundTrip(req)
	}
	oauth := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   t.base,
	}
	return oauth.RoundTrip(req)
}

// requestIDTransport tags every request with a fresh X-Request-ID.
type requestIDTransport struct {
	base http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(HeaderRequestID) != "" {
		return t.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	id := uuid.NewString()
	clone.Header.Set(HeaderRequestID, id)
	logger.Debug("marketplace: %s %s [%s]", req.Method, req.URL.Path, id)
	return t.base.RoundTrip(clone)
}
