package git

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/recipesync/pkg/integrations"
	"github.com/matzehuels/recipesync/pkg/source"
	"github.com/matzehuels/recipesync/pkg/version"
)

// hashLen is the number of commit characters used as a branch version.
const hashLen = 8

var transportPrefixes = []string{"git://", "git+https://", "git+ssh://", "ssh://", "git@"}

// hostingHosts have dedicated resolvers or archive layouts and are never
// claimed here.
var hostingHosts = []string{"github.com", "gitlab.com", "bitbucket.org"}

// Resolver implements [source.Resolver] for generic Git remotes.
type Resolver struct {
	lister Lister

	// Logger receives fallback diagnostics. Nil disables them.
	Logger *log.Logger
}

// New returns a resolver that lists references with l.
// A nil l uses [ExecLister].
func New(l Lister) *Resolver {
	if l == nil {
		l = ExecLister{}
	}
	return &Resolver{lister: l}
}

func (r *Resolver) Name() string { return "git" }

// CanHandle claims URLs with a Git transport prefix or a ".git" path, unless
// they point at a known hosting service.
func (r *Resolver) CanHandle(url string) bool {
	host, path := integrations.SplitURL(url)
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	for _, h := range hostingHosts {
		if strings.EqualFold(host, h) {
			return false
		}
	}
	if host == "" {
		return false
	}
	for _, p := range transportPrefixes {
		if strings.HasPrefix(url, p) {
			return true
		}
	}
	return strings.HasSuffix(path, ".git")
}

func (r *Resolver) Supports(m source.Mode) bool {
	switch m {
	case source.ModeAuto, source.ModeGitTags, source.ModeGitBranches:
		return true
	}
	return false
}

// Resolve returns the newest matching tag, or the default branch head.
func (r *Resolver) Resolve(ctx context.Context, req source.Request) (*source.Candidate, error) {
	remote := CloneURL(req.URL)

	if req.Mode == source.ModeGitBranches {
		return r.branch(ctx, remote)
	}

	tags, err := r.lister.Tags(ctx, remote)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(tags))
	for i, t := range tags {
		ids[i] = t.Name
	}
	if m, ok := version.Select(ids, req.Package, req.Patterns); ok {
		return &source.Candidate{
			Version:   m.Version,
			OriginRef: m.Raw,
			Kind:      source.KindGitTags,
		}, nil
	}
	if req.Pinned() {
		return nil, nil
	}

	if r.Logger != nil {
		r.Logger.Debug("no matching tags, trying default branch", "remote", remote, "package", req.Package)
	}
	return r.branch(ctx, remote)
}

func (r *Resolver) branch(ctx context.Context, remote string) (*source.Candidate, error) {
	head, err := r.lister.Head(ctx, remote)
	if err != nil {
		return nil, err
	}
	v := head.Hash
	if len(v) > hashLen {
		v = v[:hashLen]
	}
	return &source.Candidate{
		Version:   v,
		OriginRef: head.Name,
		Kind:      source.KindGitBranch,
	}, nil
}

// CloneURL strips the "git+" transport marker so the URL can be passed to git.
func CloneURL(url string) string {
	return strings.TrimPrefix(strings.TrimSpace(url), "git+")
}
