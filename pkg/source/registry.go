package source

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/recipesync/pkg/errors"
	"github.com/matzehuels/recipesync/pkg/version"
)

// Registry dispatches source URLs to registered resolvers.
//
// A Registry is populated once at startup and is safe for concurrent
// Resolve calls afterwards.
type Registry struct {
	resolvers []Resolver

	// Logger receives dispatch diagnostics. Nil discards them.
	Logger *log.Logger
}

// NewRegistry returns a registry holding resolvers in the given order.
func NewRegistry(resolvers ...Resolver) *Registry {
	return &Registry{resolvers: resolvers}
}

// Register appends r. Resolvers registered earlier win ties in [Registry.ResolverFor].
func (g *Registry) Register(r Resolver) {
	g.resolvers = append(g.resolvers, r)
}

// Resolvers returns the registered resolvers in dispatch order.
func (g *Registry) Resolvers() []Resolver {
	return append([]Resolver(nil), g.resolvers...)
}

// ResolverFor returns the first resolver that claims url.
func (g *Registry) ResolverFor(url string) (Resolver, bool) {
	for _, r := range g.resolvers {
		if r.CanHandle(url) {
			return r, true
		}
	}
	return nil, false
}

// Resolve finds the newest upstream candidate for req.
//
// The returned error is always an [*errors.Error]:
//   - UNSUPPORTED_SOURCE when no resolver claims the URL or the mode is not
//     served by the claiming resolver
//   - NO_MATCHING_CANDIDATE when the resolver found nothing that matches
//   - a transport code from [Classify] for remote failures
func (g *Registry) Resolve(ctx context.Context, req Request) (*Candidate, error) {
	logger := g.logger().With("url", req.URL)

	r, ok := g.ResolverFor(req.URL)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedSource, "no resolver for %s", req.URL)
	}
	if !r.Supports(req.Mode) {
		return nil, errors.New(errors.ErrCodeUnsupportedSource, "%s resolver does not support mode %q", r.Name(), req.Mode)
	}
	if len(req.Patterns) == 0 {
		req.Patterns = version.MustCompile()
	}

	logger.Debug("resolving", "resolver", r.Name(), "mode", string(req.Mode), "explicit", req.Explicit)
	cand, err := r.Resolve(ctx, req)
	if err != nil {
		return nil, Classify(err, "%s resolver failed for %s", r.Name(), req.URL)
	}
	if cand == nil {
		return nil, errors.New(errors.ErrCodeNoMatchingCandidate,
			"no upstream version of %s matches %v", req.URL, req.Patterns.Strings())
	}
	logger.Debug("resolved", "version", cand.Version, "kind", string(cand.Kind), "ref", cand.OriginRef)
	return cand, nil
}

func (g *Registry) logger() *log.Logger {
	if g.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return g.Logger
}
