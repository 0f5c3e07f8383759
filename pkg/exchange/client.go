// Package exchange performs the two server to server calls every flow needs:
// the authorization code exchange and the bearer authenticated resource
// fetch. Neither is retried; each is bounded by its own timeout.
package exchange

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/EdmundsEcho/data-join-oauth/core"
	"github.com/EdmundsEcho/data-join-oauth/pkg/logger"
)

// maxBodySize caps how much of a provider response is read.
const maxBodySize = 4 << 20

// DefaultTimeout applies when a call does not carry its own.
const DefaultTimeout = 10 * time.Second

// CodeExchange describes one authorization code redemption.
type CodeExchange struct {
	Provider string
	Config   *oauth2.Config
	Code     string
	Verifier string
	Timeout  time.Duration
}

// Request describes one bearer authenticated resource call.
type Request struct {
	Provider    string
	Method      string
	URL         string
	AccessToken string
	Body        []byte
	Timeout     time.Duration
	// UserAgent overrides the client's default when set.
	UserAgent string
}

// Client performs exchanges over an injected http.Client.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the transport client. Its Timeout is ignored in favor
// of the per call timeouts.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent sets the User-Agent sent on resource calls.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
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

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExchangeCode redeems code and the PKCE verifier at the provider's token
// endpoint. Any failure is core.KindTokenCreation.
func (c *Client) ExchangeCode(ctx context.Context, x CodeExchange) (*oauth2.Token, error) {
	if x.Config == nil {
		return nil, core.Wrap(core.KindTokenCreation, ErrNoConfig).WithProvider(x.Provider)
	}
	timeout := orDefault(x.Timeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	hc := *c.httpClient
	hc.Timeout = timeout
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &hc)

	start := time.Now()
	tok, err := x.Config.Exchange(ctx, x.Code, oauth2.VerifierOption(x.Verifier))
	c.logger.DebugContext(ctx, "token exchange",
		logger.Provider(x.Provider),
		logger.Duration(time.Since(start)),
		logger.Error(err),
	)
	if err != nil {
		return nil, core.Wrapf(core.KindTokenCreation, "exchange code: %w", err).WithProvider(x.Provider)
	}
	return tok, nil
}

// Fetch calls a protected resource and returns the raw body of a 2xx answer.
// A transport failure is core.KindInvalidResponse; a non-2xx answer wraps a
// *StatusError classified as core.KindUnauthorized for 401 and
// core.KindInternal otherwise.
func (c *Client) Fetch(ctx context.Context, req Request) ([]byte, error) {
	timeout := orDefault(req.Timeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, core.Wrapf(core.KindInvalidURL, "build request: %w", err).WithProvider(req.Provider)
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.AccessToken)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	if ua := cmp.Or(req.UserAgent, c.userAgent); ua != "" {
		httpReq.Header.Set("User-Agent", ua)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, core.Wrapf(core.KindInvalidResponse, "%s %s: %w", method, redactQuery(req.URL), err).
			WithProvider(req.Provider)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, core.Wrapf(core.KindInvalidResponse, "read body: %w", err).WithProvider(req.Provider)
	}

	c.logger.DebugContext(ctx, "resource fetch",
		logger.Provider(req.Provider),
		logger.Status(resp.StatusCode),
		logger.Duration(time.Since(start)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		se := &StatusError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(data), 512),
			Err:        classifyStatus(resp.StatusCode),
		}
		return nil, core.Wrap(core.ClassifyStatus(resp.StatusCode), se).WithProvider(req.Provider)
	}
	return data, nil
}

func orDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// redactQuery drops the query string, which may carry tokens.
func redactQuery(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}

func (r Request) String() string {
	return fmt.Sprintf("%s %s", strings.ToUpper(r.Method), redactQuery(r.URL))
}
