// Package rubygems resolves upstream versions from a gem registry.
//
// The registry only reports the latest version of a gem, so there is no
// ranking: the latest version either matches the patterns or the gem has no
// candidate.
package rubygems

import (
	"context"
	"strings"

	"github.com/matzehuels/recipesync/pkg/errors"
	"github.com/matzehuels/recipesync/pkg/integrations"
	gemapi "github.com/matzehuels/recipesync/pkg/integrations/rubygems"
	"github.com/matzehuels/recipesync/pkg/source"
	"github.com/matzehuels/recipesync/pkg/version"
)

// Resolver implements [source.Resolver] for RubyGems URLs.
type Resolver struct {
	client *gemapi.Client
}

// New returns a resolver backed by client.
func New(client *gemapi.Client) *Resolver {
	return &Resolver{client: client}
}

func (r *Resolver) Name() string { return "rubygems" }

// CanHandle reports whether url points at one of [gemapi.Hosts].
func (r *Resolver) CanHandle(url string) bool {
	host, _ := integrations.SplitURL(url)
	for _, h := range gemapi.Hosts {
		if strings.EqualFold(host, h) {
			return true
		}
	}
	return false
}

func (r *Resolver) Supports(m source.Mode) bool {
	return m == source.ModeAuto || m == source.ModeRubyGems
}

// Resolve fetches the gem's latest version. The gem name is taken from the
// URL when possible and from req.Package otherwise.
func (r *Resolver) Resolve(ctx context.Context, req source.Request) (*source.Candidate, error) {
	gem, ok := gemapi.GemNameFromURL(req.URL)
	if !ok {
		gem = req.Package
	}
	if err := errors.ValidateGemName(gem); err != nil {
		return nil, err
	}

	info, err := r.client.FetchGem(ctx, gem, req.Refresh)
	if err != nil {
		return nil, err
	}
	m, ok := version.Select([]string{info.Version}, gem, req.Patterns)
	if !ok {
		return nil, nil
	}
	return &source.Candidate{
		Version:     m.Version,
		DownloadURL: gemapi.DownloadURL(gem, info.Version),
		OriginRef:   info.Version,
		Kind:        source.KindRubyGems,
	}, nil
}
