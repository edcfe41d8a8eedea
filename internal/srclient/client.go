// ABOUTME: Caching HTTP client for the Sveriges Radio open API.
// ABOUTME: Handles ETag revalidation, bounded retries, timeouts and stale-cache fallback.

package srclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"
)

// Defaults mirror the upstream service's published limits.
const (
	DefaultBaseURL         = "https://api.sr.se/api/v2"
	DefaultTimeout         = 8 * time.Second
	DefaultMaxRetries      = 2
	DefaultRetryBackoff    = 200 * time.Millisecond
	DefaultMaxCacheEntries = 300
	DefaultUserAgent       = "sverigesradio-mcp/1.0.0"
)

// errInvalidJSON is returned when a 2xx body cannot be decoded.
var errInvalidJSON = errors.New("response body is not valid JSON")

// Doer performs a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds client settings. Zero values fall back to the defaults above.
type Config struct {
	BaseURL          string
	DefaultParams    Params
	Timeout          time.Duration
	MaxRetries       int // negative disables retries
	RetryBackoff     time.Duration
	MaxCacheEntries  int
	DefaultFreshness time.Duration
	UserAgent        string
	CoalesceRequests bool
}

// Option configures a Client.
type Option func(*Client)

// WithDoer replaces the network primitive.
func WithDoer(d Doer) Option {
	return func(c *Client) { c.doer = d }
}

// WithLogger sets the logger used for retries and masked failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithNormalizer sets the function that shapes unrecoverable failures.
func WithNormalizer(n Normalizer) Option {
	return func(c *Client) { c.normalize = n }
}

// Client fetches JSON from the API with conditional caching. Safe for
// concurrent use; concurrent fetches of one URL are independent unless
// request coalescing is enabled.
type Client struct {
	baseURL       *url.URL
	defaultParams Params
	timeout       time.Duration
	maxRetries    int
	retryBackoff  time.Duration
	freshness     time.Duration
	userAgent     string

	doer      Doer
	cache     *cache
	group     *singleflight.Group
	logger    *slog.Logger
	metrics   *Metrics
	normalize Normalizer

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a client from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	rawBase := cfg.BaseURL
	if rawBase == "" {
		rawBase = DefaultBaseURL
	}
	base, err := url.Parse(rawBase)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", rawBase, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must use http or https", rawBase)
	}

	defaults := Params{"format": "json"}
	if cfg.DefaultParams != nil {
		defaults = make(Params, len(cfg.DefaultParams))
		for k, v := range cfg.DefaultParams {
			defaults[k] = v
		}
	}

	c := &Client{
		baseURL:       base,
		defaultParams: defaults,
		timeout:       orDuration(cfg.Timeout, DefaultTimeout),
		maxRetries:    cfg.MaxRetries,
		retryBackoff:  orDuration(cfg.RetryBackoff, DefaultRetryBackoff),
		freshness:     orDuration(cfg.DefaultFreshness, DefaultFreshness),
		userAgent:     cfg.UserAgent,
		doer:          &http.Client{},
		logger:        slog.Default(),
		normalize:     passthrough,
		now:           time.Now,
		sleep:         sleepContext,
	}
	switch {
	case cfg.MaxRetries == 0:
		c.maxRetries = DefaultMaxRetries
	case cfg.MaxRetries < 0:
		c.maxRetries = 0
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if cfg.CoalesceRequests {
		c.group = &singleflight.Group{}
	}

	maxEntries := cfg.MaxCacheEntries
	if maxEntries <= 0 {
		maxEntries = DefaultMaxCacheEntries
	}
	c.cache = newCache(maxEntries, func() time.Time { return c.now() })

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch retrieves endpoint with params merged over the default parameters.
// Failures are masked by any cached response for the same URL; otherwise
// they are passed through the normalizer.
func (c *Client) Fetch(ctx context.Context, endpoint string, params Params) (json.RawMessage, error) {
	rawURL := buildURL(c.baseURL, endpoint, c.defaultParams, params)
	if c.group == nil {
		return c.fetchURL(ctx, endpoint, rawURL)
	}

	ch := c.group.DoChan(rawURL, func() (any, error) {
		return c.fetchURL(context.WithoutCancel(ctx), endpoint, rawURL)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		data, _ := res.Val.(json.RawMessage)
		return data, nil
	case <-ctx.Done():
		cached, ok := c.cache.Get(rawURL)
		return c.recoverFrom(endpoint, rawURL, cached, ok, ctx.Err())
	}
}

// FetchPaginated is Fetch with pagination=true forced on.
func (c *Client) FetchPaginated(ctx context.Context, endpoint string, params Params) (json.RawMessage, error) {
	merged := make(Params, len(params)+1)
	for k, v := range params {
		merged[k] = v
	}
	merged["pagination"] = true
	return c.Fetch(ctx, endpoint, merged)
}

// ClearCache drops every cached response.
func (c *Client) ClearCache() {
	c.cache.Clear()
	c.metrics.recordCacheSize(0)
}

// CacheStats reports cached responses partitioned by freshness.
func (c *Client) CacheStats() Stats {
	return c.cache.Stats()
}

// fetchURL runs one logical fetch: a single timeout spans every attempt.
func (c *Client) fetchURL(ctx context.Context, endpoint, rawURL string) (data json.RawMessage, err error) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		if err != nil {
			outcome = "error"
		}
		c.metrics.recordFetch(endpoint, outcome, time.Since(start))
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cached, hasCached := c.cache.Get(rawURL)

	header := http.Header{}
	header.Set("Accept", "application/json")
	header.Set("User-Agent", c.userAgent)
	if hasCached && !cached.expiredAt(c.now()) && cached.ETag != "" {
		header.Set("If-None-Match", cached.ETag)
	}

	resp, err := c.doWithRetry(ctx, endpoint, rawURL, header)
	if err != nil {
		if hasCached {
			outcome = "stale"
		}
		return c.recoverFrom(endpoint, rawURL, cached, hasCached, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && hasCached {
		c.cache.Touch(rawURL, expiresAt(resp.Header, c.now(), c.freshness))
		c.metrics.recordRevalidated(endpoint)
		outcome = "revalidated"
		return cached.Data, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("reading response from %s: %w", rawURL, err)
	} else if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = newStatusFailure(resp, body, rawURL)
	} else if !json.Valid(body) {
		err = fmt.Errorf("decoding response from %s: %w", rawURL, errInvalidJSON)
	}
	if err != nil {
		if hasCached {
			outcome = "stale"
		}
		return c.recoverFrom(endpoint, rawURL, cached, hasCached, err)
	}

	data = json.RawMessage(body)
	c.store(rawURL, Entry{
		Data:      data,
		ETag:      resp.Header.Get("ETag"),
		ExpiresAt: expiresAt(resp.Header, c.now(), c.freshness),
	})
	return data, nil
}

// recoverFrom serves cached data for a failed fetch, or normalizes the failure.
func (c *Client) recoverFrom(endpoint, rawURL string, cached Entry, hasCached bool, err error) (json.RawMessage, error) {
	if hasCached {
		c.logger.Warn("API request failed, returning cached response",
			"url", rawURL,
			"expired", cached.expiredAt(c.now()),
			"error", err,
		)
		c.metrics.recordStale(endpoint)
		return cached.Data, nil
	}

	c.metrics.recordFailure(endpoint, failureKind(err))
	if normalized := c.normalize(err); normalized != nil {
		return nil, normalized
	}
	return nil, err
}

func (c *Client) store(key string, entry Entry) {
	if evicted, ok := c.cache.Set(key, entry); ok {
		c.metrics.recordEviction()
		c.logger.Debug("evicted cached response", "url", evicted)
	}
	c.metrics.recordCacheSize(c.cache.Len())
}

// failureKind labels a failure for metrics.
func failureKind(err error) string {
	var sf *StatusFailure
	switch {
	case errors.As(err, &sf):
		return "status"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "network"
	}
}

func orDuration(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
