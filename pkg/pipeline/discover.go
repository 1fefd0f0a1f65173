package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/matzehuels/recipesync/pkg/errors"
	"github.com/matzehuels/recipesync/pkg/recipe"
)

// Target is one recipe file to process.
type Target struct {
	Name string // Package directory name
	Path string // Path to the recipe file
}

// Discover returns every <dir>/<name>/recipe.yaml, sorted by name.
func Discover(dir string) ([]Target, error) {
	if err := checkDir(dir); err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*", RecipeFile))
	if err != nil {
		return nil, fmt.Errorf("glob recipes: %w", err)
	}
	targets := make([]Target, 0, len(matches))
	for _, m := range matches {
		targets = append(targets, Target{Name: filepath.Base(filepath.Dir(m)), Path: m})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Name < targets[j].Name })
	return targets, nil
}

// Named returns the recipes of the given packages in argument order. Names
// without a recipe are returned in missing; invalid names are an error.
func Named(dir string, names []string) (targets []Target, missing []string, err error) {
	if err := checkDir(dir); err != nil {
		return nil, nil, err
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if err := errors.ValidatePackageName(name); err != nil {
			return nil, nil, err
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		path := filepath.Join(dir, name, RecipeFile)
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, name)
			continue
		}
		targets = append(targets, Target{Name: name, Path: path})
	}
	return targets, missing, nil
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "recipes directory %q", dir)
	}
	if !info.IsDir() {
		return errors.New(errors.ErrCodeInvalidInput, "recipes directory %q is not a directory", dir)
	}
	return nil
}

// Entry describes a recipe for listing.
type Entry struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Kind    string `json:"source,omitempty"` // path, git, url or unknown
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Inventory reads the current version and primary source of each target.
// Unreadable recipes are listed with their error.
func Inventory(targets []Target) []Entry {
	out := make([]Entry, 0, len(targets))
	for _, t := range targets {
		e := Entry{Name: t.Name}
		doc, err := recipe.Load(t.Path)
		if err == nil {
			e.Version, err = doc.Version()
		}
		if err == nil {
			var sources []*recipe.Source
			if sources, err = doc.Sources(); err == nil {
				e.Kind = sources[0].Kind().String()
				e.URL = sources[0].Remote()
			}
		}
		if err != nil {
			e.Error = errors.UserMessage(err)
		}
		out = append(out, e)
	}
	return out
}
