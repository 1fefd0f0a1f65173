package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/recipesync/pkg/cache"
	"github.com/matzehuels/recipesync/pkg/integrations"
)

func TestClient_ListReleases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/repos/owner/repo/releases":
			if r.URL.Query().Get("per_page") != "100" {
				t.Errorf("expected per_page=100, got %q", r.URL.RawQuery)
			}
			json.NewEncoder(w).Encode([]releaseResponse{
				{TagName: "v2.0.0-rc1", Prerelease: true},
				{TagName: "v1.1.0"},
				{TagName: "v1.2.0", Draft: true},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")

	releases, err := c.ListReleases(context.Background(), "owner", "repo", true)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(releases) != 3 {
		t.Fatalf("expected 3 releases, got %d", len(releases))
	}
	if !releases[0].Prerelease || !releases[2].Draft {
		t.Errorf("draft/prerelease flags not preserved: %+v", releases)
	}
	if releases[1].TagName != "v1.1.0" {
		t.Errorf("expected v1.1.0, got %s", releases[1].TagName)
	}
}

func TestClient_ListTags(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.URL.Path != "/repos/owner/repo/tags" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`[{"name":"v1.0.0","commit":{"sha":"abc123"}},{"name":"v0.9.0","commit":{"sha":"def456"}}]`))
	}))
	defer server.Close()

	c := testClient(t, server.URL, "secret")

	tags, err := c.ListTags(context.Background(), "owner", "repo", true)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tags) != 2 || tags[0].Name != "v1.0.0" || tags[0].CommitSHA != "abc123" {
		t.Errorf("unexpected tags: %+v", tags)
	}
	if auth != "Bearer secret" {
		t.Errorf("expected bearer token, got %q", auth)
	}
}

func TestClient_ListTagsCached(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[{"name":"v1.0.0","commit":{"sha":"abc"}}]`))
	}))
	defer server.Close()

	backend, _ := cache.NewFileCache(t.TempDir())
	c := NewClient(backend, "", time.Hour).WithBaseURL(server.URL)

	for i := 0; i < 2; i++ {
		if _, err := c.ListTags(context.Background(), "owner", "repo", false); err != nil {
			t.Fatalf("list failed: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 API call with cache, got %d", calls)
	}

	if _, err := c.ListTags(context.Background(), "owner", "repo", true); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("refresh should bypass cache, got %d calls", calls)
	}
}

func TestClient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")

	_, err := c.ListReleases(context.Background(), "owner", "missing", true)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_ResolveArchive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/owner/repo/tarball/v1.0.0":
			w.Header().Set("Location", "https://codeload.github.com/owner/repo/legacy.tar.gz/refs/tags/v1.0.0")
			w.WriteHeader(http.StatusFound)
		case "/repos/owner/repo/tarball/direct":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")

	got, err := c.ResolveArchive(context.Background(), server.URL+"/repos/owner/repo/tarball/v1.0.0")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	want := "https://codeload.github.com/owner/repo/tar.gz/refs/tags/v1.0.0"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	direct := server.URL + "/repos/owner/repo/tarball/direct"
	if got, err := c.ResolveArchive(context.Background(), direct); err != nil || got != direct {
		t.Errorf("expected unchanged %s, got %s (%v)", direct, got, err)
	}

	if _, err := c.ResolveArchive(context.Background(), server.URL+"/repos/owner/repo/tarball/missing"); !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestArchiveURL(t *testing.T) {
	got := ArchiveURL("sharkdp", "fd", "v10.2.0")
	want := "https://github.com/sharkdp/fd/archive/refs/tags/v10.2.0.tar.gz"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestRewriteLegacyArchive(t *testing.T) {
	tests := []struct{ in, want string }{
		{"https://codeload.github.com/o/r/legacy.tar.gz/refs/tags/v1", "https://codeload.github.com/o/r/tar.gz/refs/tags/v1"},
		{"https://codeload.github.com/o/r/tar.gz/refs/tags/v1", "https://codeload.github.com/o/r/tar.gz/refs/tags/v1"},
		{"https://example.com/foo.tar.gz", "https://example.com/foo.tar.gz"},
	}
	for _, tt := range tests {
		if got := RewriteLegacyArchive(tt.in); got != tt.want {
			t.Errorf("RewriteLegacyArchive(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient(cache.NewNullCache(), "test-token", time.Hour)
	if c.Client == nil {
		t.Error("expected client to be initialized")
	}
	if c.baseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %s", c.baseURL)
	}
	if c.WithBaseURL("http://localhost:8080/").baseURL != "http://localhost:8080" {
		t.Errorf("expected trailing slash trimmed, got %s", c.baseURL)
	}
}

func testClient(t *testing.T, serverURL, token string) *Client {
	t.Helper()
	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewClient(backend, token, time.Hour).WithBaseURL(serverURL)
}
