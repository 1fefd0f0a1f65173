package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const httpTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when a package or resource doesn't exist upstream.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrRateLimited is returned when the upstream API refuses requests until a reset.
	ErrRateLimited = errors.New("rate limited")
)

// NewHTTPClient creates an HTTP client with a standard timeout for API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NormalizePkgName converts a package name to its canonical form:
// lowercase, trimmed, with underscores replaced by hyphens. Conda-forge
// package names follow this convention.
func NormalizePkgName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS form.
// Handles git@, git://, and git+ prefixes, and removes .git suffixes.
// Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	return strings.TrimSuffix(s, ".git")
}

// PathEscape percent-encodes a string for use as a single URL path segment.
func PathEscape(s string) string { return url.PathEscape(s) }

// SplitURL returns the host and path of a source URL without requiring it to
// be a valid URL: recipe URLs routinely carry template expressions such as
// "${{ version }}" that a strict parser rejects. Git transport prefixes
// ("git+") and scp-style "git@host:path" forms are understood.
func SplitURL(raw string) (host, path string) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	} else if strings.HasPrefix(s, "git@") {
		s = strings.Replace(strings.TrimPrefix(s, "git@"), ":", "/", 1)
	}
	if at := strings.IndexByte(s, '@'); at >= 0 && at < strings.IndexByte(s+"/", '/') {
		s = s[at+1:]
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	host, path, _ = strings.Cut(s, "/")
	return host, "/" + path
}
