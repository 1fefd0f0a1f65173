package recipe

import (
	"maps"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/recipesync/pkg/errors"
)

const sample = `# tool recipe
context:
  name: tool
  version: 1.0.0   # bumped by bot

package:
  name: ${{ name }}
  version: ${{ version }}

source:
  url: https://example.com/tool-${{ version }}.tar.gz
  sha256: 'aaaa'

build:
  number: 0

extra:
  version:
    github-tags: []
    github-release:
      - ^v(\d+\.\d+\.\d+)$
`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	d, err := Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

func TestDocumentFields(t *testing.T) {
	d := mustParse(t, sample)

	if v, err := d.Version(); err != nil || v != "1.0.0" {
		t.Errorf("Version() = %q, %v", v, err)
	}
	if name, err := d.PackageName(); err != nil || name != "tool" {
		t.Errorf("PackageName() = %q, %v", name, err)
	}
	ctx := d.Context()
	if ctx["name"] != "tool" || ctx["version"] != "1.0.0" {
		t.Errorf("Context() = %v", ctx)
	}

	sources, err := d.Sources()
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("len(sources) = %d", len(sources))
	}
	s := sources[0]
	if s.Kind() != SourceURL || s.URL != "https://example.com/tool-${{ version }}.tar.gz" || s.SHA256 != "aaaa" {
		t.Errorf("source = %+v", s)
	}
}

func TestMalformed(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		get  func(*Document) error
	}{
		{"no context", "package:\n  name: x\nsource:\n  path: .\n", func(d *Document) error { _, err := d.Version(); return err }},
		{"no version", "context:\n  name: x\n", func(d *Document) error { _, err := d.Version(); return err }},
		{"version mapping", "context:\n  version:\n    a: 1\n", func(d *Document) error { _, err := d.Version(); return err }},
		{"no package name", "package:\n  version: 1\n", func(d *Document) error { _, err := d.PackageName(); return err }},
		{"no source", "context:\n  version: 1\n", func(d *Document) error { _, err := d.Sources(); return err }},
		{"scalar source", "source: https://x\n", func(d *Document) error { _, err := d.Sources(); return err }},
		{"scalar list item", "source:\n  - https://x\n", func(d *Document) error { _, err := d.Sources(); return err }},
		{"empty list", "source: []\n", func(d *Document) error { _, err := d.Sources(); return err }},
		{"bad conditional", "source:\n  - if: unix\n    then: x\n", func(d *Document) error { _, err := d.Sources(); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.get(mustParse(t, tt.yaml))
			if !errors.Is(err, errors.ErrCodeMalformedDescriptor) {
				t.Errorf("got %v, want MALFORMED_DESCRIPTOR", err)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{"", "- a\n- b\n", "key: [unclosed\n"} {
		if _, err := Parse([]byte(s)); !errors.Is(err, errors.ErrCodeMalformedDescriptor) {
			t.Errorf("Parse(%q) = %v, want MALFORMED_DESCRIPTOR", s, err)
		}
	}
}

func TestSourcesShapes(t *testing.T) {
	d := mustParse(t, `source:
  - if: linux
    then:
      url: https://example.com/a.tgz
      sha256: abc
  - git: https://git.example.org/b.git
    tag: v1
  - path: ../local
`)
	sources, err := d.Sources()
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	if len(sources) != 3 {
		t.Fatalf("len = %d", len(sources))
	}
	if !sources[0].Conditional || sources[0].Kind() != SourceURL || sources[0].URL != "https://example.com/a.tgz" {
		t.Errorf("source[0] = %+v", sources[0])
	}
	if sources[1].Kind() != SourceGit || sources[1].Rev != "v1" || sources[1].Remote() != "https://git.example.org/b.git" {
		t.Errorf("source[1] = %+v", sources[1])
	}
	if sources[2].Kind() != SourcePath || sources[2].Index != 2 {
		t.Errorf("source[2] = %+v", sources[2])
	}
}

func TestVersionConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want VersionConfig
	}{
		{"none", "context: {version: 1}\n", VersionConfig{}},
		{"structured first non-empty", sample, VersionConfig{Mode: "github-release", Patterns: []string{`^v(\d+\.\d+\.\d+)$`}, Explicit: true}},
		{"structured scalar", "extra:\n  version:\n    rubygems-api: ^(\\d+)\n", VersionConfig{Mode: "rubygems-api", Patterns: []string{`^(\d+)`}, Explicit: true}},
		{"legacy pattern only", "extra:\n  version-pattern: ^(\\d+\\.\\d+)\n", VersionConfig{Patterns: []string{`^(\d+\.\d+)`}}},
		{"legacy list with mode", "extra:\n  version-pattern: [a, b]\n  mode: git-tags\n", VersionConfig{Mode: "git-tags", Patterns: []string{"a", "b"}, Explicit: true}},
		{"structured shadows legacy", "extra:\n  version: {}\n  version-pattern: x\n", VersionConfig{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.yaml).VersionConfig()
			if got.Mode != tt.want.Mode || got.Explicit != tt.want.Explicit || strings.Join(got.Patterns, "|") != strings.Join(tt.want.Patterns, "|") {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestApplyPreservesLayout(t *testing.T) {
	d := mustParse(t, sample)
	sources, _ := d.Sources()

	err := d.Apply(Update{Version: "1.2.0", Source: sources[0], SHA256: "bbbb"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := strings.Replace(sample, "version: 1.0.0   #", `version: "1.2.0"   #`, 1)
	want = strings.Replace(want, "sha256: 'aaaa'", "sha256: 'bbbb'", 1)
	if got := string(d.Bytes()); got != want {
		t.Errorf("output mismatch\n--- got\n%s\n--- want\n%s", got, want)
	}
	if !d.Modified() {
		t.Error("Modified() = false after Apply")
	}
}

func TestApplyQuoteStyles(t *testing.T) {
	in := `context:
  version: "0.9"
source:
  - url: "https://example.com/x-0.9.tgz"
    sha256: 0123abcd
  - {url: "https://example.com/y.tgz", sha256: ffff}
`
	d := mustParse(t, in)
	sources, _ := d.Sources()

	if err := d.Apply(Update{Version: "1.0", Source: sources[0], URL: "https://example.com/x-1.0.tgz", SHA256: "4567cdef"}); err != nil {
		t.Fatalf("Apply first: %v", err)
	}
	sources, _ = d.Sources()
	if err := d.Apply(Update{Source: sources[1], URL: "https://example.com/z.tgz", SHA256: "eeee"}); err != nil {
		t.Fatalf("Apply second: %v", err)
	}

	want := `context:
  version: "1.0"
source:
  - url: "https://example.com/x-1.0.tgz"
    sha256: 4567cdef
  - {url: "https://example.com/z.tgz", sha256: eeee}
`
	if got := string(d.Bytes()); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestApplyInsertsMissingSHA256(t *testing.T) {
	d := mustParse(t, "context:\n  version: '1'\nsource:\n  url: https://example.com/a.tgz  # archive\n  patches: []\n")
	sources, _ := d.Sources()
	if err := d.Apply(Update{Source: sources[0], SHA256: "abcd"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := "context:\n  version: '1'\nsource:\n  url: https://example.com/a.tgz  # archive\n  sha256: abcd\n  patches: []\n"
	if got := string(d.Bytes()); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestApplyFillsEmptySHA256(t *testing.T) {
	d := mustParse(t, "context:\n  version: 1\nsource:\n  url: https://example.com/a.tgz\n  sha256:\n")
	sources, _ := d.Sources()
	if err := d.Apply(Update{Source: sources[0], SHA256: "abcd"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(d.Bytes()); !strings.Contains(got, "  sha256: abcd\n") {
		t.Errorf("got\n%s", got)
	}
}

func TestApplyAllOrNothing(t *testing.T) {
	in := "context:\n  version: 1.0.0\nsource:\n  url: |\n    https://example.com/a.tgz\n  sha256: aaaa\n"
	d := mustParse(t, in)
	sources, _ := d.Sources()

	err := d.Apply(Update{Version: "2.0.0", Source: sources[0], URL: "https://example.com/b.tgz", SHA256: "bbbb"})
	if !errors.Is(err, errors.ErrCodeWriteFailed) {
		t.Fatalf("got %v, want WRITE_FAILED", err)
	}
	if string(d.Bytes()) != in || d.Modified() {
		t.Error("document changed after failed Apply")
	}
}

func TestApplyEscapesVersion(t *testing.T) {
	d := mustParse(t, "context:\n  version: \"a\\\"b\"\n")
	if err := d.Apply(Update{Version: `2.0 "final"`}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if v, _ := d.Version(); v != `2.0 "final"` {
		t.Errorf("Version() = %q", v)
	}
}

func TestApplyUnicodeColumns(t *testing.T) {
	d := mustParse(t, "context: {név: ő, version: 1.0}\n")
	if err := d.Apply(Update{Version: "1.1"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(d.Bytes()); got != "context: {név: ő, version: \"1.1\"}\n" {
		t.Errorf("got %q", got)
	}
}

func TestApplyNoop(t *testing.T) {
	d := mustParse(t, sample)
	if err := d.Apply(Update{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if d.Modified() || string(d.Bytes()) != sample {
		t.Error("empty update modified the document")
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recipe.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := d.Apply(Update{Version: "3.0.0"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := d.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if v, _ := again.Version(); v != "3.0.0" {
		t.Errorf("reloaded version = %q", v)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", fi.Mode().Perm())
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !os.IsNotExist(err) {
		t.Errorf("got %v, want not-exist", err)
	}
}

func TestExpand(t *testing.T) {
	vars := map[string]string{"name": "tool", "version": "1.0"}
	tests := []struct{ in, want string }{
		{"https://x/${{ name }}-${{ version }}.tgz", "https://x/tool-1.0.tgz"},
		{"https://x/{{version}}.tgz", "https://x/1.0.tgz"},
		{"${{ version | replace('.', '_') }}", "${{ version | replace('.', '_') }}"},
		{"${{ unknown }}", "${{ unknown }}"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := Expand(tt.in, vars); got != tt.want {
			t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if !IsTemplate("a${{ version }}") || IsTemplate("https://x/1.0.tgz") {
		t.Error("IsTemplate misclassified")
	}
}

func TestContextDerivedEntries(t *testing.T) {
	d := mustParse(t, `context:
  name: tool
  version: "1.0.0"
  tag: v${{ version }}
  archive: ${{ name }}-${{ tag }}
package:
  name: ${{ name }}
source:
  url: https://x/${{ archive }}.tgz
  sha256: abc
`)
	tests := []struct {
		name string
		got  map[string]string
		want map[string]string
	}{
		{
			"current",
			d.Context(),
			map[string]string{"name": "tool", "version": "1.0.0", "tag": "v1.0.0", "archive": "tool-v1.0.0"},
		},
		{
			"new version",
			d.ContextWith("version", "1.2.0"),
			map[string]string{"name": "tool", "version": "1.2.0", "tag": "v1.2.0", "archive": "tool-v1.2.0"},
		},
		{
			"without version",
			d.ContextWithout("version"),
			map[string]string{"name": "tool", "tag": "v${{ version }}", "archive": "tool-v${{ version }}"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !maps.Equal(tt.got, tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestResolveVarsOrderIndependent(t *testing.T) {
	// Entries refer forward and backward; every run must agree.
	vars := []Var{
		{"d", "${{ c }}-d"},
		{"a", "a"},
		{"c", "${{ b }}-c"},
		{"b", "${{ a }}-b"},
	}
	want := map[string]string{"a": "a", "b": "a-b", "c": "a-b-c", "d": "a-b-c-d"}
	for range 20 {
		if got := ResolveVars(vars, nil); !maps.Equal(got, want) {
			t.Fatalf("ResolveVars() = %v, want %v", got, want)
		}
	}
}

func TestResolveVarsCycleTerminates(t *testing.T) {
	got := ResolveVars([]Var{{"a", "${{ b }}"}, {"b", "${{ a }}"}}, nil)
	if len(got) != 2 {
		t.Errorf("ResolveVars() = %v", got)
	}
}
