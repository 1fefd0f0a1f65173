// Package pipeline runs recipe synchronization over a recipes directory.
//
// This package implements the batch loop shared by the check and update
// commands: discover recipe files, synchronize each through an
// [updater.Synchronizer], optionally look the package up on conda-forge, and
// aggregate everything into a [Report].
//
// # Architecture
//
// Each recipe goes through the same sequential steps:
//
//  1. Lookup: conda-forge availability (informational, when enabled)
//  2. Resolve: latest upstream version through the source registry
//  3. Apply: hash the new archive and rewrite the recipe (update mode only)
//
// Recipes are independent. The [Runner] processes up to
// [Options.Concurrency] of them at once; only the statistics are shared.
//
// # Usage
//
//	targets, err := pipeline.Discover("./pkgs")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(syncer, condaforge.NewClient(c, time.Hour), logger)
//	report, err := runner.Execute(ctx, targets, pipeline.Options{DryRun: true})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(report.PackagesUpToDate)
package pipeline

import (
	"fmt"

	"github.com/matzehuels/recipesync/pkg/updater"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultConcurrency processes recipes one at a time.
	DefaultConcurrency = 1

	// MaxConcurrency bounds parallel recipe processing. Most upstream APIs
	// rate limit well below this.
	MaxConcurrency = 64

	// RecipeFile is the recipe file name inside each package directory.
	RecipeFile = "recipe.yaml"
)

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options controls a batch run.
type Options struct {
	DryRun      bool `json:"dry_run,omitempty"`     // Report would_update instead of writing
	Force       bool `json:"force,omitempty"`       // Update even when the recipe is current
	Refresh     bool `json:"refresh,omitempty"`     // Bypass cached upstream responses
	CondaForge  bool `json:"conda_forge,omitempty"` // Look every package up on conda-forge
	Concurrency int  `json:"concurrency,omitempty"` // Recipes processed in parallel

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", o.Concurrency)
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Concurrency > MaxConcurrency {
		o.Concurrency = MaxConcurrency
	}
	o.validated = true
	return nil
}

// SyncOptions returns the per-recipe options for the synchronizer.
func (o *Options) SyncOptions() updater.Options {
	return updater.Options{DryRun: o.DryRun, Force: o.Force, Refresh: o.Refresh}
}

// =============================================================================
// Report - Run Results
// =============================================================================

// Report is the outcome of a batch run. It marshals to the JSON summary.
type Report struct {
	RunID string `json:"run_id"`
	Stats

	// Results holds one entry per target, in target order.
	Results []Result `json:"packages"`
}

// Result is the outcome for a single recipe.
type Result struct {
	Package  string          `json:"package"`
	Path     string          `json:"path"`
	Outcome  updater.Outcome `json:"outcome"`
	Current  string          `json:"current,omitempty"`
	Upstream string          `json:"upstream,omitempty"`
	URL      string          `json:"url,omitempty"`
	SHA256   string          `json:"sha256,omitempty"`
	Error    string          `json:"error,omitempty"`

	// Ambiguous is set when the recipe lists several sources.
	Ambiguous bool `json:"ambiguous,omitempty"`

	// CondaForge is nil when the lookup was disabled or failed.
	CondaForge *CondaForgeStatus `json:"conda_forge,omitempty"`

	Decision updater.Decision `json:"-"`
}

// CondaForgeStatus summarizes the conda-forge lookup for one recipe.
type CondaForgeStatus struct {
	Exists     bool   `json:"exists"`
	Latest     string `json:"latest,omitempty"`
	HasCurrent bool   `json:"has_current"`
	Newer      bool   `json:"newer"`
}

// OK reports whether no recipe ended in an error.
func (r *Report) OK() bool {
	return r.PackagesWithErrors == 0
}
