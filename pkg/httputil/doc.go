// Package httputil provides HTTP utilities shared by the upstream clients.
//
// # Overview
//
// This package provides infrastructure used by every registry client and by
// the archive hasher:
//
//   - [Backoff]: Retry with exponential backoff and server delay hints
//   - [NewTransport]: User-Agent injection and per-host rate limiting
//   - [SHA256]: Streaming archive digest with retry
//
// # Retry
//
// [Retry] re-runs an operation only when it fails with a [RetryableError].
// Wrap transient failures (network errors, 5xx responses) with [Retryable]:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// # Rate limiting
//
// The GitHub API allows 60 unauthenticated requests per hour. A transport
// built with [NewTransport] holds a token bucket from golang.org/x/time/rate
// and every request to a limited host waits for a token, honoring context
// cancellation:
//
//	rt := httputil.NewTransport(httputil.TransportOptions{
//	    UserAgent:     "recipesync/1.0",
//	    RatePerSecond: 5,
//	    LimitedHosts:  []string{"api.github.com"},
//	})
//	client := &http.Client{Transport: rt, Timeout: 30 * time.Second}
//
// # Backoff
//
// [DefaultBackoff] makes 3 attempts, starting at 1 second and doubling, never
// waiting more than 10 seconds. A Retry-After delay carried by a
// [RetryableError] replaces the computed delay, within the same cap.
package httputil
