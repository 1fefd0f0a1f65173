package github

import (
	"context"
	stderrors "errors"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/recipesync/pkg/errors"
	"github.com/matzehuels/recipesync/pkg/integrations"
	ghapi "github.com/matzehuels/recipesync/pkg/integrations/github"
	"github.com/matzehuels/recipesync/pkg/source"
	"github.com/matzehuels/recipesync/pkg/version"
)

// Resolver implements [source.Resolver] for GitHub repositories.
type Resolver struct {
	client *ghapi.Client

	// Logger receives fallback diagnostics. Nil disables them.
	Logger *log.Logger
}

// New returns a resolver backed by client.
func New(client *ghapi.Client) *Resolver {
	return &Resolver{client: client}
}

func (r *Resolver) Name() string { return "github" }

// CanHandle reports whether url points at a GitHub host.
func (r *Resolver) CanHandle(url string) bool {
	host, _ := integrations.SplitURL(url)
	return ghapi.IsHost(host)
}

func (r *Resolver) Supports(m source.Mode) bool {
	switch m {
	case source.ModeAuto, source.ModeGitHubRelease, source.ModeGitHubTags:
		return true
	}
	return false
}

type path func(ctx context.Context, ref ghapi.RepoRef, req source.Request) (*source.Candidate, error)

// Resolve returns the newest release or tag matching req.Patterns.
func (r *Resolver) Resolve(ctx context.Context, req source.Request) (*source.Candidate, error) {
	ref, err := ghapi.ParseRepoURL(req.URL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupportedSource, err, "cannot derive repository")
	}

	paths := []path{r.releases, r.tags}
	if req.Mode == source.ModeGitHubTags {
		paths = []path{r.tags, r.releases}
	}
	if req.Pinned() {
		paths = paths[:1]
	}

	// A NotFound only surfaces when no path could list anything; otherwise
	// the repository exists and nothing matched.
	var (
		notFound error
		listed   bool
	)
	for i, p := range paths {
		cand, err := p(ctx, ref, req)
		switch {
		case err == nil && cand != nil:
			return cand, nil
		case err == nil:
			listed = true
		case stderrors.Is(err, integrations.ErrNotFound):
			notFound = err
		default:
			return nil, err
		}
		if i+1 < len(paths) && r.Logger != nil {
			r.Logger.Debug("no matching candidate, falling back", "repo", ref.String(), "package", req.Package)
		}
	}
	if listed {
		return nil, nil
	}
	return nil, notFound
}

func (r *Resolver) releases(ctx context.Context, ref ghapi.RepoRef, req source.Request) (*source.Candidate, error) {
	releases, err := r.client.ListReleases(ctx, ref.Owner, ref.Repo, req.Refresh)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, rel := range releases {
		if rel.Draft || rel.Prerelease {
			continue
		}
		ids = append(ids, rel.TagName)
	}
	return pick(ids, ref, req, source.KindGitHubRelease), nil
}

func (r *Resolver) tags(ctx context.Context, ref ghapi.RepoRef, req source.Request) (*source.Candidate, error) {
	tags, err := r.client.ListTags(ctx, ref.Owner, ref.Repo, req.Refresh)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(tags))
	for i, t := range tags {
		ids[i] = t.Name
	}
	return pick(ids, ref, req, source.KindGitHubTags), nil
}

func pick(ids []string, ref ghapi.RepoRef, req source.Request, kind source.Kind) *source.Candidate {
	m, ok := version.Select(ids, req.Package, req.Patterns)
	if !ok {
		return nil
	}
	return &source.Candidate{
		Version:     m.Version,
		DownloadURL: ghapi.ArchiveURL(ref.Owner, ref.Repo, m.Raw),
		OriginRef:   m.Raw,
		Kind:        kind,
	}
}
