// Package factcheck queries the Google Fact Check Tools claims search API.
package factcheck

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/model"
)

const defaultMaxBodyBytes = 2_000_000

// Searcher looks up fact-checked claims for a normalized query
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.RawClaim, error)
}

// Waiter blocks until a request to rawURL may proceed
type Waiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// Client issues one-shot claims search requests. It never retries and never
// follows pagination.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	userAgent  string
	maxBytes   int64
	limiter    Waiter
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithEndpoint overrides the claims search endpoint
func WithEndpoint(endpoint string) Option {
	return func(cl *Client) { cl.endpoint = endpoint }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(cl *Client) { cl.userAgent = ua }
}

// WithMaxBodyBytes caps how much of a response body is read
func WithMaxBodyBytes(n int64) Option {
	return func(cl *Client) { cl.maxBytes = n }
}

// WithLimiter throttles requests through w
func WithLimiter(w Waiter) Option {
	return func(cl *Client) { cl.limiter = w }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// New creates a Client. An empty apiKey is accepted here and reported by
// Search as a configuration error.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		endpoint:   model.DefaultFactCheckEndpoint,
		apiKey:     apiKey,
		maxBytes:   defaultMaxBodyBytes,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns the claims on the first page of results for query.
func (c *Client) Search(ctx context.Context, query string) ([]model.RawClaim, error) {
	if c.apiKey == "" {
		return nil, configurationError()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.endpoint); err != nil {
			return nil, &Error{Kind: KindUpstreamHTTP, Message: "rate limit wait", Err: err}
		}
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &Error{Kind: KindUpstreamHTTP, Message: "create request", Err: c.redact(err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("searching fact checks", zap.String("query", query))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindUpstreamHTTP, Message: "fact check request failed", Err: c.redact(err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, &Error{Kind: KindUpstreamHTTP, StatusCode: resp.StatusCode, Message: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fcErr := httpStatusError(resp.StatusCode, upstreamErrorMessage(body))
		c.logger.Warn("fact check search failed",
			zap.Int("status", resp.StatusCode),
			zap.String("message", fcErr.Message))
		return nil, fcErr
	}

	claims, err := decodeResponse(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("fact check search complete",
		zap.String("query", query),
		zap.Int("claims", len(claims)))

	return claims, nil
}

// upstreamErrorMessage extracts error.message from a Google API error body
func upstreamErrorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	msg := gjson.GetBytes(body, "error.message")
	if msg.Type != gjson.String {
		return ""
	}
	return msg.String()
}

// redact removes the query string (which carries the API key) from URL errors
func (c *Client) redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{Op: urlErr.Op, URL: c.endpoint, Err: urlErr.Err}
	}
	return err
}
