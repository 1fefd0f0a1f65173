package updater

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/recipesync/pkg/errors"
	"github.com/matzehuels/recipesync/pkg/httputil"
	ghapi "github.com/matzehuels/recipesync/pkg/integrations/github"
	"github.com/matzehuels/recipesync/pkg/observability"
	"github.com/matzehuels/recipesync/pkg/recipe"
	"github.com/matzehuels/recipesync/pkg/source"
	"github.com/matzehuels/recipesync/pkg/version"
)

// Hasher computes the sha256 of the resource at url.
type Hasher interface {
	SHA256(ctx context.Context, url string) (string, error)
}

// HasherFunc adapts a function to [Hasher].
type HasherFunc func(ctx context.Context, url string) (string, error)

func (f HasherFunc) SHA256(ctx context.Context, url string) (string, error) { return f(ctx, url) }

// HTTPHasher streams downloads through an HTTP client.
type HTTPHasher struct {
	Client *http.Client // nil uses http.DefaultClient
}

func (h HTTPHasher) SHA256(ctx context.Context, url string) (string, error) {
	return httputil.SHA256(ctx, h.Client, url)
}

// ArchiveResolver follows GitHub API tarball redirects.
// *github.Client from pkg/integrations/github implements it.
type ArchiveResolver interface {
	ResolveArchive(ctx context.Context, tarballURL string) (string, error)
}

// Options controls a single synchronization.
type Options struct {
	DryRun  bool // Stop after comparing, never hash or write
	Force   bool // Update even when current >= upstream
	Refresh bool // Bypass cached upstream responses
}

// Synchronizer applies upstream versions to recipes.
type Synchronizer struct {
	Registry *source.Registry
	Hasher   Hasher

	// Archives resolves API tarball URLs before they are written as
	// literals. Nil writes them unresolved.
	Archives ArchiveResolver

	// Precheck runs for every recipe that reaches upstream resolution,
	// before resolution starts. It is informational only.
	Precheck func(ctx context.Context, pkg, current string)

	Logger *log.Logger
}

// New returns a Synchronizer resolving through reg and hashing with h.
// A nil h downloads with [http.DefaultClient].
func New(reg *source.Registry, h Hasher) *Synchronizer {
	if h == nil {
		h = HTTPHasher{}
	}
	return &Synchronizer{Registry: reg, Hasher: h}
}

// SyncFile loads the recipe at path, synchronizes it and saves it when it
// was updated. Nothing is written for any other outcome.
func (s *Synchronizer) SyncFile(ctx context.Context, path string, opts Options) Decision {
	doc, err := recipe.Load(path)
	if err != nil {
		return Decision{Outcome: OutcomeFailed, Err: errors.Wrap(errors.CodeOr(err, errors.ErrCodeInternal), err, "load recipe")}
	}
	d := s.Sync(ctx, doc, opts)
	if d.Outcome != OutcomeUpdated {
		return d
	}
	if err := doc.Save(path); err != nil {
		d.Outcome = OutcomeFailed
		d.Err = err
		return d
	}
	d.Written = true
	return d
}

// Sync decides and, unless opts.DryRun is set, applies the update to doc in
// memory. doc is only modified when the outcome is [OutcomeUpdated].
func (s *Synchronizer) Sync(ctx context.Context, doc *recipe.Document, opts Options) Decision {
	var d Decision
	fail := func(err error) Decision {
		d.Outcome = OutcomeFailed
		d.Err = err
		return d
	}

	current, err := doc.Version()
	if err != nil {
		return fail(err)
	}
	d.Current = current
	pkg, err := doc.PackageName()
	if err != nil {
		return fail(err)
	}
	d.Package = pkg
	sources, err := doc.Sources()
	if err != nil {
		return fail(err)
	}

	logger := s.logger().With("package", pkg)
	if len(sources) > 1 {
		d.Ambiguous = true
		logger.Warn("multiple sources, only the first is updated", "code", errors.ErrCodeAmbiguousSource, "count", len(sources))
	}

	src := sources[0]
	d.SourceKind = src.Kind()
	switch d.SourceKind {
	case recipe.SourcePath:
		logger.Debug("skipping local path source")
		d.Outcome = OutcomeSkipped
		return d
	case recipe.SourceUnknown:
		logger.Info("no supported source url")
		d.Outcome = OutcomeSkipped
		d.Unsupported = true
		return d
	}

	if s.Precheck != nil {
		s.Precheck(ctx, pkg, current)
	}

	// The lookup URL keeps its version placeholder, including in derived
	// context entries such as tag: v${{ version }}.
	lookupVars := doc.ContextWithout("version")

	cfg := doc.VersionConfig()
	patterns, errs := version.Compile(cfg.Patterns)
	for _, e := range errs {
		logger.Warn("ignoring version pattern", "err", e)
	}
	if len(patterns) == 0 {
		return fail(errors.New(errors.ErrCodeInvalidInput, "no valid version patterns in %v", cfg.Patterns))
	}

	req := source.Request{
		URL:      recipe.Expand(src.Remote(), lookupVars),
		Package:  pkg,
		Patterns: patterns,
		Mode:     source.ParseMode(cfg.Mode),
		Explicit: cfg.Explicit,
		Refresh:  opts.Refresh,
	}

	start := time.Now()
	observability.Sync().OnResolveStart(ctx, pkg, req.URL)
	cand, err := s.Registry.Resolve(ctx, req)
	var resolved string
	if cand != nil {
		resolved = cand.Version
	}
	observability.Sync().OnResolveComplete(ctx, pkg, resolved, time.Since(start), err)
	if err != nil {
		return fail(err)
	}
	d.Candidate = cand
	logger.Debug("upstream", "current", current, "upstream", cand.Version, "ref", cand.OriginRef)

	if !opts.Force && version.Compare(current, cand.Version) >= 0 {
		d.Outcome = OutcomeUpToDate
		return d
	}
	d.UpstreamNewer = version.Compare(current, cand.Version) < 0

	if opts.DryRun {
		d.Outcome = OutcomeWouldUpdate
		return d
	}
	if d.SourceKind == recipe.SourceGit {
		return fail(errors.New(errors.ErrCodeNotImplemented, "git source updates not implemented"))
	}

	return s.apply(ctx, doc, src, d, logger)
}

func (s *Synchronizer) apply(ctx context.Context, doc *recipe.Document, src *recipe.Source, d Decision, logger *log.Logger) Decision {
	cand := d.Candidate
	expanded := recipe.Expand(src.URL, doc.ContextWith("version", cand.Version))

	target := cand.DownloadURL
	if target == "" {
		switch {
		case recipe.IsTemplate(src.URL):
			target = expanded
		case d.Current != "" && strings.Contains(src.URL, d.Current):
			target = strings.ReplaceAll(src.URL, d.Current, cand.Version)
		default:
			d.Outcome = OutcomeFailed
			d.Err = errors.New(errors.ErrCodeMalformedDescriptor, "url %q has no version placeholder", src.URL)
			return d
		}
	}
	if recipe.IsTemplate(target) {
		d.Outcome = OutcomeFailed
		d.Err = errors.New(errors.ErrCodeMalformedDescriptor, "cannot expand url template %q", src.URL)
		return d
	}

	// newURL stays empty when the url field is left as written.
	var newURL string
	switch {
	case recipe.IsTemplate(src.URL) && expanded == target:
		d.TemplateKept = true
	case target != src.URL:
		newURL = s.resolveArchive(ctx, target, logger)
		target = newURL
	}

	start := time.Now()
	observability.Sync().OnHashStart(ctx, d.Package, target)
	sum, err := s.Hasher.SHA256(ctx, target)
	observability.Sync().OnHashComplete(ctx, d.Package, time.Since(start), err)
	if err != nil {
		d.Outcome = OutcomeFailed
		d.Err = errors.Wrap(errors.ErrCodeHashFailed, err, "hash %s", target)
		return d
	}
	d.URL, d.SHA256 = target, sum

	if err := doc.Apply(recipe.Update{Version: cand.Version, Source: src, URL: newURL, SHA256: sum}); err != nil {
		d.Outcome = OutcomeFailed
		d.Err = err
		return d
	}
	logger.Info("updated", "from", d.Current, "to", cand.Version, "template_kept", d.TemplateKept)
	d.Outcome = OutcomeUpdated
	return d
}

// resolveArchive replaces an API tarball URL with its pinned codeload form.
// Failures keep the API URL.
func (s *Synchronizer) resolveArchive(ctx context.Context, u string, logger *log.Logger) string {
	if s.Archives == nil {
		return u
	}
	ref, err := ghapi.ParseRepoURL(u)
	if err != nil || !ref.APITarball {
		return u
	}
	resolved, err := s.Archives.ResolveArchive(ctx, u)
	if err != nil {
		logger.Warn("could not resolve archive redirect", "url", u, "err", err)
		return u
	}
	return resolved
}

func (s *Synchronizer) logger() *log.Logger {
	if s.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return s.Logger
}
