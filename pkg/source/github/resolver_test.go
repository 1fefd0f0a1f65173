package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/recipesync/pkg/cache"
	rserrors "github.com/matzehuels/recipesync/pkg/errors"
	ghapi "github.com/matzehuels/recipesync/pkg/integrations/github"
	"github.com/matzehuels/recipesync/pkg/source"
	"github.com/matzehuels/recipesync/pkg/version"
)

type fixture struct {
	releases string
	tags     string
}

func newResolver(t *testing.T, f fixture) (*Resolver, *atomic.Int32) {
	t.Helper()
	hits := new(atomic.Int32)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var body string
		switch r.URL.Path {
		case "/repos/owner/tool/releases":
			body = f.releases
		case "/repos/owner/tool/tags":
			body = f.tags
		}
		if body == "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	c := ghapi.NewClient(cache.NewNullCache(), "", time.Hour).WithBaseURL(server.URL)
	return New(c), hits
}

func TestCanHandle(t *testing.T) {
	r := New(ghapi.NewClient(nil, "", 0))
	tests := map[string]bool{
		"https://github.com/owner/tool/archive/v1.0.0.tar.gz":          true,
		"https://api.github.com/repos/owner/tool/tarball/v1":           true,
		"https://codeload.github.com/owner/tool/tar.gz/v1":             true,
		"git+https://github.com/owner/tool.git":                        true,
		"https://github.com/owner/tool/archive/v${{ version }}.tar.gz": true,
		"https://gitlab.com/owner/tool/-/archive/v1/tool.tar.gz":       false,
		"https://rubygems.org/downloads/rake-13.0.0.gem":               false,
		"https://example.com/github.com/owner/tool":                    false,
	}
	for url, want := range tests {
		if got := r.CanHandle(url); got != want {
			t.Errorf("CanHandle(%q) = %v, want %v", url, got, want)
		}
	}
}

func TestSupports(t *testing.T) {
	r := New(nil)
	for _, m := range []source.Mode{source.ModeAuto, source.ModeGitHubRelease, source.ModeGitHubTags} {
		if !r.Supports(m) {
			t.Errorf("Supports(%q) = false", m)
		}
	}
	for _, m := range []source.Mode{source.ModeGitTags, source.ModeRubyGems, source.ModePyPI} {
		if r.Supports(m) {
			t.Errorf("Supports(%q) = true", m)
		}
	}
}

func TestResolveReleasesSkipsDraftsAndPrereleases(t *testing.T) {
	r, _ := newResolver(t, fixture{releases: `[
		{"tag_name": "v3.0.0", "draft": true},
		{"tag_name": "v2.5.0-rc1", "prerelease": true},
		{"tag_name": "v1.2.0"},
		{"tag_name": "v1.10.0"},
		{"tag_name": "v1.9.0"}
	]`})

	cand, err := r.Resolve(context.Background(), source.Request{
		URL:      "https://github.com/owner/tool/archive/v1.2.0.tar.gz",
		Package:  "tool",
		Patterns: version.MustCompile(),
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := source.Candidate{
		Version:     "1.10.0",
		DownloadURL: "https://github.com/owner/tool/archive/refs/tags/v1.10.0.tar.gz",
		OriginRef:   "v1.10.0",
		Kind:        source.KindGitHubRelease,
	}
	if *cand != want {
		t.Errorf("got %+v, want %+v", *cand, want)
	}
}

func TestResolveAutoFallsBackToTags(t *testing.T) {
	r, _ := newResolver(t, fixture{
		releases: `[{"tag_name": "nightly"}]`,
		tags:     `[{"name": "tool-2.0.0", "commit": {"sha": "abc"}}, {"name": "tool-1.0.0"}]`,
	})

	cand, err := r.Resolve(context.Background(), source.Request{
		URL:      "https://github.com/owner/tool",
		Package:  "tool",
		Patterns: version.MustCompile(),
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cand.Version != "2.0.0" || cand.Kind != source.KindGitHubTags || cand.OriginRef != "tool-2.0.0" {
		t.Errorf("got %+v", cand)
	}
	if cand.DownloadURL != "https://github.com/owner/tool/archive/refs/tags/tool-2.0.0.tar.gz" {
		t.Errorf("DownloadURL = %s", cand.DownloadURL)
	}
}

func TestResolveAutoFallsBackWhenReleasesMissing(t *testing.T) {
	r, _ := newResolver(t, fixture{tags: `[{"name": "v0.3.1"}]`})

	cand, err := r.Resolve(context.Background(), source.Request{
		URL:      "git+https://github.com/owner/tool.git",
		Package:  "tool",
		Patterns: version.MustCompile(),
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cand.Version != "0.3.1" {
		t.Errorf("Version = %s", cand.Version)
	}
}

func TestResolvePinnedReleaseDoesNotFallBack(t *testing.T) {
	r, hits := newResolver(t, fixture{
		releases: `[{"tag_name": "nightly"}]`,
		tags:     `[{"name": "v1.0.0"}]`,
	})

	cand, err := r.Resolve(context.Background(), source.Request{
		URL:      "https://github.com/owner/tool",
		Package:  "tool",
		Patterns: version.MustCompile(),
		Mode:     source.ModeGitHubRelease,
		Explicit: true,
	})
	if err != nil || cand != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", cand, err)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("requests = %d, want 1", n)
	}
}

func TestResolvePinnedTags(t *testing.T) {
	r, hits := newResolver(t, fixture{
		releases: `[{"tag_name": "v9.9.9"}]`,
		tags:     `[{"name": "release-1.4.0"}, {"name": "release-1.3.2"}]`,
	})

	cand, err := r.Resolve(context.Background(), source.Request{
		URL:      "https://github.com/owner/tool",
		Package:  "tool",
		Patterns: version.MustCompile(`^(\d+\.\d+\.\d+)$`),
		Mode:     source.ModeGitHubTags,
		Explicit: true,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cand.Version != "1.4.0" || cand.Kind != source.KindGitHubTags {
		t.Errorf("got %+v", cand)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("requests = %d, want 1", n)
	}
}

func TestResolvePinnedNotFound(t *testing.T) {
	r, _ := newResolver(t, fixture{})

	reg := source.NewRegistry(r)
	_, err := reg.Resolve(context.Background(), source.Request{
		URL:      "https://github.com/owner/tool",
		Package:  "tool",
		Mode:     source.ModeGitHubTags,
		Explicit: true,
	})
	if !rserrors.Is(err, rserrors.ErrCodeNotFound) {
		t.Errorf("got %v, want NOT_FOUND", err)
	}
}

func TestResolveNoMatchBeatsMissingFallback(t *testing.T) {
	tests := []struct {
		name string
		f    fixture
		mode source.Mode
	}{
		{"releases listed, tags missing", fixture{releases: `[{"tag_name": "nightly"}]`}, source.ModeAuto},
		{"tags listed, releases missing", fixture{tags: `[{"name": "nightly"}]`}, source.ModeGitHubTags},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newResolver(t, tt.f)
			reg := source.NewRegistry(r)
			_, err := reg.Resolve(context.Background(), source.Request{
				URL:     "https://github.com/owner/tool",
				Package: "tool",
				Mode:    tt.mode,
			})
			if !rserrors.Is(err, rserrors.ErrCodeNoMatchingCandidate) {
				t.Errorf("got %v, want NO_MATCHING_CANDIDATE", err)
			}
		})
	}
}

func TestResolveBadURL(t *testing.T) {
	r := New(ghapi.NewClient(nil, "", 0))
	_, err := r.Resolve(context.Background(), source.Request{URL: "https://github.com/only-owner"})
	if !rserrors.Is(err, rserrors.ErrCodeUnsupportedSource) {
		t.Errorf("got %v, want UNSUPPORTED_SOURCE", err)
	}
}
