package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/recipesync/pkg/cache"
	"github.com/matzehuels/recipesync/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com"

// Client provides access to the GitHub API for release and tag discovery.
// It handles HTTP requests with caching, automatic retries, and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
	token   string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate limits).
func NewClient(backend cache.Cache, token string, cacheTTL time.Duration) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return &Client{
		Client:  integrations.NewClient(backend, "github:", cacheTTL, headers),
		baseURL: DefaultBaseURL,
		token:   token,
	}
}

// WithBaseURL points the client at a different API root (GitHub Enterprise or tests).
func (c *Client) WithBaseURL(baseURL string) *Client {
	if baseURL != "" {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
	return c
}

// ListReleases returns up to 100 of the most recent releases, drafts and
// pre-releases included. Callers filter on [Release.Draft] and [Release.Prerelease].
// If refresh is true, cached data is bypassed.
func (c *Client) ListReleases(ctx context.Context, owner, repo string, refresh bool) ([]Release, error) {
	key := "releases:" + owner + "/" + repo

	var releases []Release
	err := c.Cached(ctx, key, refresh, &releases, func() error {
		var data []releaseResponse
		url := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=100", c.baseURL, owner, repo)
		if err := c.Get(ctx, url, &data); err != nil {
			return wrapNotFound(err, owner, repo)
		}
		releases = make([]Release, 0, len(data))
		for _, r := range data {
			releases = append(releases, Release{
				TagName:     r.TagName,
				Name:        r.Name,
				Draft:       r.Draft,
				Prerelease:  r.Prerelease,
				TarballURL:  r.TarballURL,
				PublishedAt: r.PublishedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return releases, nil
}

// ListTags returns up to 100 tags in the order the API reports them.
// If refresh is true, cached data is bypassed.
func (c *Client) ListTags(ctx context.Context, owner, repo string, refresh bool) ([]Tag, error) {
	key := "tags:" + owner + "/" + repo

	var tags []Tag
	err := c.Cached(ctx, key, refresh, &tags, func() error {
		var data []tagResponse
		url := fmt.Sprintf("%s/repos/%s/%s/tags?per_page=100", c.baseURL, owner, repo)
		if err := c.Get(ctx, url, &data); err != nil {
			return wrapNotFound(err, owner, repo)
		}
		tags = make([]Tag, 0, len(data))
		for _, t := range data {
			tags = append(tags, Tag{
				Name:       t.Name,
				CommitSHA:  t.Commit.SHA,
				TarballURL: t.TarballURL,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// ResolveArchive follows one redirect of an API tarball URL
// (api.github.com/repos/{owner}/{repo}/tarball/{ref}) and returns the
// codeload location. Legacy codeload links ("/legacy.tar.gz/") are rewritten
// to the pinned "/tar.gz/" form; for monorepos the legacy link can serve a
// different sub-project than the requested ref.
func (c *Client) ResolveArchive(ctx context.Context, tarballURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, tarballURL, nil)
	if err != nil {
		return "", err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	noFollow := *c.HTTP()
	noFollow.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := noFollow.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", integrations.ErrNetwork, err)
	}
	resp.Body.Close()

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		loc := resp.Header.Get("Location")
		if loc == "" {
			return "", fmt.Errorf("%w: redirect without location for %s", integrations.ErrNetwork, tarballURL)
		}
		return RewriteLegacyArchive(loc), nil
	case resp.StatusCode == http.StatusOK:
		return RewriteLegacyArchive(tarballURL), nil
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", integrations.ErrNotFound, tarballURL)
	default:
		return "", fmt.Errorf("%w: status %d for %s", integrations.ErrNetwork, resp.StatusCode, tarballURL)
	}
}

// RewriteLegacyArchive replaces the "/legacy.tar.gz/" path segment of a
// codeload URL with "/tar.gz/". Other URLs are returned unchanged.
func RewriteLegacyArchive(u string) string {
	return strings.Replace(u, "/legacy.tar.gz/", "/tar.gz/", 1)
}

// ArchiveURL returns the deterministic, tag-pinned source archive URL.
func ArchiveURL(owner, repo, tag string) string {
	return fmt.Sprintf("https://github.com/%s/%s/archive/refs/tags/%s.tar.gz", owner, repo, tag)
}

func wrapNotFound(err error, owner, repo string) error {
	if errors.Is(err, integrations.ErrNotFound) {
		return fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
	}
	return err
}

type releaseResponse struct {
	TagName     string     `json:"tag_name"`
	Name        string     `json:"name"`
	Draft       bool       `json:"draft"`
	Prerelease  bool       `json:"prerelease"`
	TarballURL  string     `json:"tarball_url"`
	PublishedAt *time.Time `json:"published_at"`
}

type tagResponse struct {
	Name       string `json:"name"`
	TarballURL string `json:"tarball_url"`
	Commit     struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}
