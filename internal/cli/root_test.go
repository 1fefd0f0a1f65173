package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/recipesync/pkg/buildinfo"
	"github.com/matzehuels/recipesync/pkg/pipeline"
)

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeRecipe(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, name), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name, pipeline.RecipeFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const githubRecipe = `context:
  version: "1.0.0"
package:
  name: tool
source:
  url: https://github.com/owner/tool/archive/v${{ version }}.tar.gz
  sha256: 0000
`

func githubServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/tool/releases" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"tag_name": "v1.2.0"}, {"tag_name": "v1.1.0"}]`))
	}))
	t.Cleanup(server.Close)
	return server
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipesync.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"check", "update", "list", "resolve", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"recipes-dir", "json", "conda-forge", "concurrency", "timeout", "no-cache", "refresh", "config", "verbose"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := run(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, buildinfo.Version) {
		t.Errorf("version output = %q", out)
	}
}

func TestCheckJSON(t *testing.T) {
	dir := t.TempDir()
	writeRecipe(t, dir, "tool", githubRecipe)
	cfg := writeConfig(t, `github_api = "`+githubServer(t).URL+`"`)

	out, err := run(t, "check", "--json", "-d", dir, "--config", cfg)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	var report pipeline.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if report.TotalPackages != 1 || report.UpstreamNewer != 1 || report.RunID == "" {
		t.Errorf("report = %+v", report)
	}
	if len(report.Results) != 1 || report.Results[0].Upstream != "1.2.0" {
		t.Errorf("results = %+v", report.Results)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "tool", pipeline.RecipeFile))
	if string(data) != githubRecipe {
		t.Error("check modified the recipe")
	}
}

func TestCheckHuman(t *testing.T) {
	dir := t.TempDir()
	writeRecipe(t, dir, "tool", githubRecipe)
	cfg := writeConfig(t, `github_api = "`+githubServer(t).URL+`"`)

	out, err := run(t, "check", "tool", "-d", dir, "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"tool", "1.0.0", "1.2.0", "would update", "Success rate", "recipesync update"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckFailingRecipeExitsNonZero(t *testing.T) {
	dir := t.TempDir()
	writeRecipe(t, dir, "broken", "context:\n  version: 1\n")

	out, err := run(t, "check", "-d", dir)
	if err == nil || !strings.Contains(err.Error(), "1 recipe(s) failed") {
		t.Errorf("err = %v", err)
	}
	if !strings.Contains(out, "MALFORMED_DESCRIPTOR") {
		t.Errorf("output missing error code:\n%s", out)
	}
}

func TestUpdateSkipsPathSources(t *testing.T) {
	dir := t.TempDir()
	local := "context:\n  version: 1\npackage:\n  name: local\nsource:\n  path: ../src\n"
	writeRecipe(t, dir, "local", local)

	out, err := run(t, "update", "--json", "-d", dir)
	if err != nil {
		t.Fatal(err)
	}
	var report pipeline.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatal(err)
	}
	if report.TotalPackages != 1 || report.Results[0].Outcome != "skipped" {
		t.Errorf("report = %+v", report)
	}
}

func TestUpdateUnknownPackage(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "update", "nope", "-d", dir)
	if err != errNoRecipes {
		t.Errorf("err = %v", err)
	}
	if !strings.Contains(out, `"nope" not found`) {
		t.Errorf("output = %q", out)
	}
}

func TestAllConflictsWithNames(t *testing.T) {
	if _, err := run(t, "check", "--all", "tool", "-d", t.TempDir()); err == nil {
		t.Error("expected --all conflict error")
	}
}

func TestMissingRecipesDir(t *testing.T) {
	if _, err := run(t, "check", "-d", filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing recipes dir")
	}
}

func TestListJSON(t *testing.T) {
	dir := t.TempDir()
	writeRecipe(t, dir, "tool", githubRecipe)

	out, err := run(t, "list", "--json", "-d", dir)
	if err != nil {
		t.Fatal(err)
	}
	var entries []pipeline.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name != "tool" || entries[0].Version != "1.0.0" || entries[0].Kind != "url" {
		t.Errorf("entries = %+v", entries)
	}

	out, err = run(t, "list", "-d", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "tool") || !strings.Contains(out, "1 recipe(s)") {
		t.Errorf("list output:\n%s", out)
	}
}

func TestResolve(t *testing.T) {
	cfg := writeConfig(t, `github_api = "`+githubServer(t).URL+`"`)

	out, err := run(t, "resolve", "https://github.com/owner/tool", "--package", "tool", "--json", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	var cand struct {
		Version string `json:"version"`
		Kind    string `json:"kind"`
	}
	if err := json.Unmarshal([]byte(out), &cand); err != nil {
		t.Fatal(err)
	}
	if cand.Version != "1.2.0" || cand.Kind != "github-release" {
		t.Errorf("candidate = %+v", cand)
	}
}

func TestResolveRejectsBadInput(t *testing.T) {
	tests := [][]string{
		{"resolve", "ftp://example.com/x", "--package", "x"},
		{"resolve", "https://github.com/owner/tool", "--package", "x", "--pattern", "(["},
		{"resolve", "https://github.com/owner/tool"},
	}
	for _, args := range tests {
		if _, err := run(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestCachePath(t *testing.T) {
	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), appName) {
		t.Errorf("cache path = %q", out)
	}
}

func TestCacheClear(t *testing.T) {
	cacheHome := t.TempDir()
	dir := filepath.Join(cacheHome, appName, "ab")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "cdef.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	c.cfg.CacheDir = filepath.Join(cacheHome, appName)
	if err := c.cacheClearCommand().RunE(nil, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cleared 1 cached entries") {
		t.Errorf("output = %q", out.String())
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("cache entries not removed")
	}
}

func TestCompletePackageNames(t *testing.T) {
	dir := t.TempDir()
	writeRecipe(t, dir, "tool", githubRecipe)
	writeRecipe(t, dir, "other", githubRecipe)

	out, err := run(t, "__complete", "update", "-d", dir, "tool", "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "other\n") || strings.Contains(out, "tool\n") || !strings.Contains(out, ":4") {
		t.Errorf("completions = %q", out)
	}
}

func TestCompletionScript(t *testing.T) {
	out, err := run(t, "completion", "fish")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "recipesync") {
		t.Errorf("fish completion does not mention recipesync:\n%s", out)
	}
	if _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell accepted")
	}
}
