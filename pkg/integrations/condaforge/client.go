package condaforge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/recipesync/pkg/cache"
	"github.com/matzehuels/recipesync/pkg/integrations"
	"github.com/matzehuels/recipesync/pkg/version"
)

// DefaultBaseURL is the anaconda.org package API root for the conda-forge channel.
const DefaultBaseURL = "https://api.anaconda.org/package/conda-forge"

// Info describes what the conda-forge channel publishes for a package.
type Info struct {
	Exists   bool     `json:"exists"`
	Versions []string `json:"versions"`         // Distinct versions, newest first
	Latest   string   `json:"latest,omitempty"` // Empty when Versions is empty
}

// Has reports whether v is one of the published versions.
func (i *Info) Has(v string) bool {
	for _, x := range i.Versions {
		if x == v {
			return true
		}
	}
	return false
}

// Client looks packages up on the conda-forge channel.
// The lookup is informational: it feeds statistics and never gates an update.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a conda-forge client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "condaforge:", cacheTTL, nil),
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

// Lookup returns the published versions of name. A package that the channel
// does not carry yields Info{Exists: false} and a nil error; only transport
// failures are returned as errors.
func (c *Client) Lookup(ctx context.Context, name string, refresh bool) (*Info, error) {
	name = integrations.NormalizePkgName(name)
	if name == "" {
		return nil, errors.New("package name cannot be empty")
	}

	var info Info
	err := c.Cached(ctx, name, refresh, &info, func() error {
		return c.fetch(ctx, name, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, name string, info *Info) error {
	var data packageResponse
	url := fmt.Sprintf("%s/%s", c.baseURL, integrations.PathEscape(name))
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			*info = Info{}
			return nil
		}
		return err
	}

	seen := make(map[string]bool)
	var versions []string
	for _, f := range data.Files {
		if f.Version != "" && !seen[f.Version] {
			seen[f.Version] = true
			versions = append(versions, f.Version)
		}
	}
	for _, v := range data.Versions {
		if v != "" && !seen[v] {
			seen[v] = true
			versions = append(versions, v)
		}
	}
	versions = version.Rank(versions)

	*info = Info{Exists: true, Versions: versions}
	if len(versions) > 0 {
		info.Latest = versions[0]
	}
	return nil
}

type packageResponse struct {
	Name     string   `json:"name"`
	Versions []string `json:"versions"`
	Files    []struct {
		Version string `json:"version"`
	} `json:"files"`
}
