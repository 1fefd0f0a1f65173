package httputil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
)

// SHA256 downloads url and returns the hex SHA-256 digest of the body.
// The body is streamed through the hash and never buffered in full.
// Transient failures (network errors, 5xx) are retried with [RetryWithBackoff].
func SHA256(ctx context.Context, client *http.Client, url string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	var digest string
	err := RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return Retryable(fmt.Errorf("download %s: %w", url, err))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return Retryable(fmt.Errorf("download %s: status %d", url, resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("download %s: status %d", url, resp.StatusCode)
		}

		h := sha256.New()
		if _, err := io.Copy(h, resp.Body); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return Retryable(fmt.Errorf("download %s: %w", url, err))
		}
		digest = hex.EncodeToString(h.Sum(nil))
		return nil
	})
	return digest, err
}
