package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/recipesync/pkg/cache"
	"github.com/matzehuels/recipesync/pkg/errors"
	"github.com/matzehuels/recipesync/pkg/httputil"
	"github.com/matzehuels/recipesync/pkg/observability"
)

// Client provides shared HTTP functionality for all upstream API clients.
// It handles caching, retry logic, and common request headers.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	prefix  string
	ttl     time.Duration
	headers map[string]string
}

// NewClient creates a Client backed by the given cache.
// Every cache key is prefixed with prefix (for example "github:") and stored
// for ttl. Headers are applied to all requests made through this client.
// Pass nil for headers if no default headers are needed.
func NewClient(backend cache.Cache, prefix string, ttl time.Duration, headers map[string]string) *Client {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	return &Client{
		http:    NewHTTPClient(),
		cache:   backend,
		prefix:  prefix,
		ttl:     ttl,
		headers: headers,
	}
}

// WithHTTPClient replaces the underlying HTTP client and returns c.
// Use it to share a rate-limited transport or a custom timeout.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	if h != nil {
		c.http = h
	}
	return c
}

// HTTP returns the underlying HTTP client.
func (c *Client) HTTP() *http.Client { return c.http }

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache
// as JSON.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	fullKey := c.prefix + key
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, fullKey); ok {
			if err := json.Unmarshal(data, v); err == nil {
				observability.Cache().OnCacheHit(ctx, c.prefix)
				return nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, c.prefix)
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, fullKey, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, c.prefix, len(data))
		}
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// It uses the client's default headers. Retries are driven by [Client.Cached].
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkRateLimit(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

// checkStatus maps a response status to a sentinel error. 5xx responses are
// retryable, after the server's Retry-After delay when it sends one.
func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		re := &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
		if secs, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("Retry-After"))); err == nil && secs > 0 {
			re.After = time.Duration(secs) * time.Second
		}
		return re
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// checkRateLimit recognizes 429 responses and GitHub's 403 with an exhausted
// X-RateLimit-Remaining header. Rate limits are not retried: the reset window
// is usually far longer than the backoff.
func checkRateLimit(resp *http.Response) error {
	limited := resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0")
	if !limited {
		return nil
	}
	rl := &errors.RateLimitedError{Message: resp.Request.URL.Host}
	if s := strings.TrimSpace(resp.Header.Get("Retry-After")); s != "" {
		rl.RetryAfter, _ = strconv.Atoi(s)
	} else if s := resp.Header.Get("X-RateLimit-Reset"); s != "" {
		if reset, err := strconv.ParseInt(s, 10, 64); err == nil {
			rl.RetryAfter = max(int(time.Until(time.Unix(reset, 0)).Seconds()), 0)
		}
	}
	return fmt.Errorf("%w: %w", ErrRateLimited, rl)
}
