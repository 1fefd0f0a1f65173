package httputil

import (
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// userAgentTransport injects a User-Agent header into every request.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

// rateLimitTransport blocks requests to the limited hosts until the limiter
// grants a token. Requests to other hosts pass straight through.
type rateLimitTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
	hosts   []string
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limited(req.URL.Hostname()) {
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}
	return t.base.RoundTrip(req)
}

func (t *rateLimitTransport) limited(host string) bool {
	if len(t.hosts) == 0 {
		return true
	}
	for _, h := range t.hosts {
		if strings.EqualFold(host, h) {
			return true
		}
	}
	return false
}

// TransportOptions configures [NewTransport].
type TransportOptions struct {
	// UserAgent is sent with every request. Empty leaves the header untouched.
	UserAgent string

	// RatePerSecond caps requests per second to LimitedHosts. Zero disables
	// rate limiting.
	RatePerSecond float64

	// Burst is the limiter bucket size. Defaults to 1.
	Burst int

	// LimitedHosts restricts rate limiting to these hostnames. Empty limits
	// every host.
	LimitedHosts []string

	// Base is the underlying transport. Defaults to http.DefaultTransport.
	Base http.RoundTripper
}

// NewTransport builds a RoundTripper that applies the configured user agent
// and rate limit. One transport is meant to be shared by every client that
// talks to the same API so they draw from a single token bucket.
func NewTransport(opts TransportOptions) http.RoundTripper {
	rt := opts.Base
	if rt == nil {
		rt = http.DefaultTransport
	}
	if opts.RatePerSecond > 0 {
		burst := max(opts.Burst, 1)
		rt = &rateLimitTransport{
			base:    rt,
			limiter: rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst),
			hosts:   opts.LimitedHosts,
		}
	}
	if opts.UserAgent != "" {
		rt = &userAgentTransport{base: rt, userAgent: opts.UserAgent}
	}
	return rt
}
