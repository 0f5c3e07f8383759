// Package registrar is the client for the downstream account service that
// owns user registrations and drive tokens.
package registrar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/EdmundsEcho/data-join-oauth/core"
	"github.com/EdmundsEcho/data-join-oauth/pkg/canonical"
	"github.com/EdmundsEcho/data-join-oauth/pkg/logger"
)

// DefaultTimeout bounds each registrar call unless WithTimeout is given.
const DefaultTimeout = 10 * time.Second

// Endpoints are the two registrar URLs.
type Endpoints struct {
	Register   string
	DriveToken string
}

// Client posts canonical models to the registrar.
type Client struct {
	endpoints  Endpoints
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent sets the User-Agent stamped on every call.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout bounds each call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client for the given endpoints.
func New(endpoints Endpoints, opts ...Option) *Client {
	c := &Client{
		endpoints:  endpoints,
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterUser posts the registration and returns the cookies the registrar
// set, which the caller forwards to the user agent. A transport failure or a
// non-2xx answer is core.KindRegistrarSession; an answer without Set-Cookie
// is core.KindMissingCookie.
func (c *Client) RegisterUser(ctx context.Context, reg canonical.Registration) ([]*http.Cookie, error) {
	if c.endpoints.Register == "" {
		return nil, core.Wrap(core.KindRegistrarSession, ErrNoEndpoint)
	}

	resp, err := c.post(ctx, c.endpoints.Register, reg, nil)
	if err != nil {
		return nil, core.Wrap(core.KindRegistrarSession, err).WithProvider(reg.AuthAgent)
	}

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return nil, core.Wrap(core.KindMissingCookie, ErrNoSessionCookie).WithProvider(reg.AuthAgent)
	}
	c.logger.DebugContext(ctx, "user registered",
		logger.Provider(reg.AuthAgent),
		slog.Int("cookies", len(cookies)),
	)
	return cookies, nil
}

// RegisterDriveToken posts the drive token, authenticated by the caller's
// account session cookie. Any failure is core.KindDriveToken.
func (c *Client) RegisterDriveToken(ctx context.Context, tok canonical.DriveToken, account *http.Cookie) error {
	if c.endpoints.DriveToken == "" {
		return core.Wrap(core.KindDriveToken, ErrNoEndpoint)
	}
	if account == nil || account.Value == "" {
		return core.Wrap(core.KindDriveToken, ErrNoAccountCookie).WithProvider(tok.DriveProvider)
	}

	if _, err := c.post(ctx, c.endpoints.DriveToken, tok, account); err != nil {
		return core.Wrap(core.KindDriveToken, err).WithProvider(tok.DriveProvider)
	}
	c.logger.DebugContext(ctx, "drive token registered",
		logger.Provider(tok.DriveProvider),
		logger.ProjectID(tok.ProjectID),
	)
	return nil
}

// post sends body as JSON. The response body is drained and closed; only the
// headers are returned.
func (c *Client) post(ctx context.Context, url string, body any, cookie *http.Cookie) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if cookie != nil {
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	c.logger.DebugContext(ctx, "registrar call",
		slog.String("url", url),
		logger.Status(resp.StatusCode),
		logger.Duration(time.Since(start)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrRejected, resp.StatusCode, bytes.TrimSpace(detail))
	}
	return resp, nil
}
