package rubygems

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/matzehuels/recipesync/pkg/cache"
	"github.com/matzehuels/recipesync/pkg/integrations"
)

// DefaultBaseURL is the RubyGems.org v1 API root.
const DefaultBaseURL = "https://rubygems.org/api/v1"

// Hosts lists gem registry hostnames whose download URLs this package understands.
var Hosts = []string{"rubygems.org", "gem.fury.io"}

// GemInfo holds the latest-version metadata for a Ruby gem.
//
// Gem names are normalized to lowercase.
type GemInfo struct {
	Name          string // Gem name, normalized lowercase (e.g., "rails")
	Version       string // Latest published version (e.g., "7.1.2")
	SHA           string // SHA-256 of the .gem file as reported by the registry (may be empty)
	SourceCodeURI string // Source code repository URL (may be empty)
	HomepageURI   string // Homepage URL (may be empty)
	License       string // License(s), comma-separated if multiple (may be empty)
}

// Client provides access to the RubyGems package registry API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a RubyGems client with the given cache backend.
//
// Parameters:
//   - backend: Cache backend for HTTP response caching (use cache.NewNullCache() for no caching)
//   - cacheTTL: How long responses are cached (typical: 1-24 hours)
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "rubygems:", cacheTTL, nil),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at a different API root.
func (c *Client) WithBaseURL(baseURL string) *Client {
	if baseURL != "" {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
	return c
}

// FetchGem retrieves the latest version of a Ruby gem from RubyGems.
//
// The gem parameter is normalized to lowercase with whitespace trimmed.
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - GemInfo populated with metadata on success
//   - [integrations.ErrNotFound] if the gem doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
//   - Other errors for JSON decoding failures
func (c *Client) FetchGem(ctx context.Context, gem string, refresh bool) (*GemInfo, error) {
	gem = strings.ToLower(strings.TrimSpace(gem))
	if gem == "" {
		return nil, errors.New("gem name cannot be empty")
	}

	var info GemInfo
	err := c.Cached(ctx, gem, refresh, &info, func() error {
		return c.fetch(ctx, gem, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, gem string, info *GemInfo) error {
	var data gemResponse
	url := fmt.Sprintf("%s/gems/%s.json", c.baseURL, integrations.PathEscape(gem))
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: gem %s", err, gem)
		}
		return err
	}

	*info = GemInfo{
		Name:          data.Name,
		Version:       data.Version,
		SHA:           data.SHA,
		License:       strings.Join(data.Licenses, ", "),
		SourceCodeURI: data.SourceCodeURI,
		HomepageURI:   data.HomepageURI,
	}
	return nil
}

// DownloadURL returns the canonical .gem download URL for a gem version.
func DownloadURL(gem, version string) string {
	return fmt.Sprintf("https://rubygems.org/downloads/%s-%s.gem", gem, version)
}

var versionSuffix = regexp.MustCompile(`-\d+(\.\d+)*.*$`)

// GemNameFromURL extracts the gem name from a registry URL. Both
// "/gems/<name>" pages and "/downloads/<name>-<version>.gem" links are
// understood, including download links whose version is a template
// expression. The boolean is false when no name can be derived.
func GemNameFromURL(raw string) (string, bool) {
	if _, rest, ok := strings.Cut(raw, "/gems/"); ok {
		name, _, _ := strings.Cut(rest, "/")
		name = strings.TrimSuffix(name, ".json")
		return name, name != ""
	}
	if _, rest, ok := strings.Cut(raw, "/downloads/"); ok {
		file, _, _ := strings.Cut(rest, "/")
		file = strings.TrimSuffix(file, ".gem")
		for _, tmpl := range []string{"-${{ version }}", "-{{ version }}"} {
			if i := strings.Index(file, tmpl); i >= 0 {
				return file[:i], i > 0
			}
		}
		name := versionSuffix.ReplaceAllString(file, "")
		return name, name != ""
	}
	return "", false
}

type gemResponse struct {
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	SHA           string   `json:"sha"`
	Licenses      []string `json:"licenses"`
	SourceCodeURI string   `json:"source_code_uri"`
	HomepageURI   string   `json:"homepage_uri"`
}
