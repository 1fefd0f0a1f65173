package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient failure. After, when positive, is the
// delay the server asked for (a Retry-After header on a 5xx response) and
// replaces the computed backoff for the next attempt.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a [RetryableError]. A nil error stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is wrapped with [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Backoff is a retry policy. Delays start at Initial and double after every
// failed attempt, capped at Max when Max is positive.
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// DefaultBackoff is used by the upstream clients and the archive hasher.
var DefaultBackoff = Backoff{Attempts: 3, Initial: time.Second, Max: 10 * time.Second}

// Retry runs fn until it succeeds, fails with an error that is not a
// [RetryableError], or the attempts are used up. The last error is returned,
// or ctx.Err() when ctx ends while waiting.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Initial
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := delay
		if re.After > 0 {
			wait = re.After
		}
		if b.Max > 0 {
			wait = min(wait, b.Max)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
	return lastErr
}

// Retry runs fn with a backoff of attempts tries starting at delay.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Backoff{Attempts: attempts, Initial: delay}.Retry(ctx, fn)
}

// RetryWithBackoff runs fn under [DefaultBackoff].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Retry(ctx, fn)
}
