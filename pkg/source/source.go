package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/recipesync/pkg/version"
)

// Kind identifies the resolution path that produced a [Candidate].
type Kind string

const (
	KindGitHubRelease Kind = "github-release"
	KindGitHubTags    Kind = "github-tags"
	KindGitTags       Kind = "git-tags"
	KindGitBranch     Kind = "git-branch"
	KindRubyGems      Kind = "rubygems"
)

// Candidate is the newest upstream version found for a source.
type Candidate struct {
	// Version is the cleaned version string. It is usually a semantic
	// version but consumers must tolerate anything, see [version.Compare].
	Version string `json:"version"`

	// DownloadURL is the archive to hash. Empty means the caller falls back
	// to substituting Version into the recipe's URL template.
	DownloadURL string `json:"download_url,omitempty"`

	// OriginRef is the raw tag, release or registry version Version came from.
	OriginRef string `json:"origin_ref"`

	Kind      Kind   `json:"kind"`
	AssetName string `json:"asset_name,omitempty"`
}

// Mode selects a resolution path. The zero value means auto-detect.
type Mode string

const (
	ModeAuto          Mode = ""
	ModeGitHubRelease Mode = "github-release"
	ModeGitHubTags    Mode = "github-tags"
	ModeGitTags       Mode = "git-tags"
	ModeGitBranches   Mode = "git-branches"
	ModeRubyGems      Mode = "rubygems"

	// Recognized in recipes but not served by any resolver.
	ModePyPI Mode = "pypi"
	ModeNPM  Mode = "npm"
)

// ParseMode maps a recipe mode key onto a [Mode]. Registry-API aliases
// ("rubygems-api", "pypi-api", "npm-api") are folded onto their short names.
// Unknown keys are returned as-is and rejected later by the registry.
func ParseMode(key string) Mode {
	k := strings.ToLower(strings.TrimSpace(key))
	switch k {
	case "rubygems-api":
		return ModeRubyGems
	case "pypi-api":
		return ModePyPI
	case "npm-api":
		return ModeNPM
	case "github-releases":
		return ModeGitHubRelease
	case "git-branch":
		return ModeGitBranches
	}
	return Mode(k)
}

// Request describes one resolution.
type Request struct {
	URL      string           // Source URL from the recipe, possibly a template
	Package  string           // Package name, used for tag normalization
	Patterns version.Patterns // Version patterns; empty means the default pattern
	Mode     Mode             // Requested path; ModeAuto lets the resolver choose
	Explicit bool             // Mode was pinned by configuration, disabling fallback
	Refresh  bool             // Bypass cached upstream responses
}

// Pinned reports whether only the requested mode may run.
func (r Request) Pinned() bool { return r.Explicit && r.Mode != ModeAuto }

// Resolver discovers the newest upstream version for one source family.
type Resolver interface {
	// Name is a short identifier for logs ("github", "git", "rubygems").
	Name() string

	// CanHandle reports whether the resolver claims url.
	CanHandle(url string) bool

	// Supports reports whether the resolver implements mode. ModeAuto is
	// always supported.
	Supports(mode Mode) bool

	// Resolve returns the newest matching candidate, or (nil, nil) when the
	// upstream has candidates but none match the patterns.
	Resolve(ctx context.Context, req Request) (*Candidate, error)
}

func (c *Candidate) String() string {
	if c == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s (%s %s)", c.Version, c.Kind, c.OriginRef)
}
