// Package gdapi is a small client for the Geometry Dash level database
// (boomlings.com). It only knows how to download a level record, which is
// enough to turn a numeric level ID into the level's name.
package gdapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultEndpoint = "http://www.boomlings.com/database/downloadGJLevel22.php"
	DefaultSecret   = "Wmfd2893gb7"
)

const (
	rateLimitRequests = 2
	rateLimitDuration = time.Second
	maxBodySize       = 4 << 20
)

// Client talks to the level database.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	secret      string
	rateLimiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the download endpoint URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithSecret overrides the shared secret sent with every request.
func WithSecret(secret string) Option {
	return func(c *Client) {
		if secret != "" {
			c.secret = secret
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a per-request timeout. By default there is none beyond
// what http.Client itself applies.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit paces requests to perSecond. Zero or less disables pacing.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.rateLimiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewClient creates a new level database client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{},
		endpoint:    DefaultEndpoint,
		secret:      DefaultSecret,
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDuration/time.Duration(rateLimitRequests)), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string { return c.endpoint }

// downloadLevel posts the level download form and returns the raw body of a
// 200 response.
func (c *Client) downloadLevel(ctx context.Context, id int64) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit error: %w", err)
	}

	form := url.Values{}
	form.Set("levelID", strconv.FormatInt(id, 10))
	form.Set("secret", c.secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// The server rejects requests carrying a User-Agent. Setting the header
	// to "" stops net/http from adding its default one.
	req.Header.Set("User-Agent", "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			LevelID:    id,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(b)),
		}
	}
	return string(b), nil
}
