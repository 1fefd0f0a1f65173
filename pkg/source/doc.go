// Package source dispatches a recipe's source URL to the resolver that can
// discover its newest upstream version.
//
// # Overview
//
// A [Resolver] covers one upstream family:
//
//   - github: releases and tags of a GitHub repository
//   - git: tags (and, as a best-effort fallback, the default branch head) of
//     any other Git remote, listed without cloning
//   - rubygems: the latest-version endpoint of a gem registry
//
// Resolvers are collected in an explicit [Registry]. [Registry.ResolverFor]
// returns the first registered resolver whose CanHandle accepts the URL, so
// registration order is the tie breaker; resolvers keep their host rules
// mutually exclusive by convention.
//
// # Modes
//
// A [Request] carries an optional [Mode]. A pinned mode (Explicit) runs only
// that resolution path. An auto-detected request lets a resolver fall back
// within its family (releases to tags, tags to branch head) and the winning
// path is reported in [Candidate.Kind].
//
// # Errors
//
// Resolvers return (nil, nil) when candidates existed but none matched. The
// registry turns that into an [errors.ErrCodeNoMatchingCandidate] error and
// maps transport failures onto coded errors with [Classify], so callers can
// report every outcome with a stable code.
//
// [errors.ErrCodeNoMatchingCandidate]: github.com/matzehuels/recipesync/pkg/errors
package source
