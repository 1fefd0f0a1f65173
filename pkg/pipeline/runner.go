package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/recipesync/pkg/integrations/condaforge"
	"github.com/matzehuels/recipesync/pkg/observability"
	"github.com/matzehuels/recipesync/pkg/updater"
	"github.com/matzehuels/recipesync/pkg/version"
)

// CondaForge looks packages up on the conda-forge channel.
// *condaforge.Client implements it.
type CondaForge interface {
	Lookup(ctx context.Context, name string, refresh bool) (*condaforge.Info, error)
}

// Runner executes batch runs over recipe files.
//
// The Runner keeps no per-run state: every Execute call gets its own
// statistics, so one Runner can serve several runs concurrently.
type Runner struct {
	Sync       *updater.Synchronizer
	CondaForge CondaForge // nil disables lookups regardless of Options
	Logger     *log.Logger
}

// NewRunner creates a runner around the given synchronizer.
// If logger is nil, the default charmbracelet logger is used.
func NewRunner(s *updater.Synchronizer, cf CondaForge, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Sync: s, CondaForge: cf, Logger: logger}
}

// Execute synchronizes every target and aggregates the outcomes.
//
// A failing recipe never stops the run; it is recorded in the report.
// When ctx is cancelled no further recipes are started, recipes in flight
// finish or fail on their own, and ctx's error is returned with the partial
// report.
func (r *Runner) Execute(ctx context.Context, targets []Target, opts Options) (*Report, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	report := &Report{
		RunID:   uuid.NewString(),
		Results: make([]Result, len(targets)),
	}
	stats := &collector{}
	logger := r.Logger.With("run", report.RunID[:8])

	start := time.Now()
	logger.Info("starting run", "recipes", len(targets), "concurrency", opts.Concurrency, "dry_run", opts.DryRun)

	var g errgroup.Group
	g.SetLimit(opts.Concurrency)
	started := 0
	for i, t := range targets {
		if ctx.Err() != nil {
			break
		}
		started++
		g.Go(func() error {
			report.Results[i] = r.process(ctx, t, opts, stats, logger)
			return nil
		})
	}
	_ = g.Wait()

	report.Results = report.Results[:started]
	report.Stats = stats.finish(report.Results)
	logger.Info("finished run",
		"total", report.TotalPackages,
		"updated", report.PackagesUpdated,
		"errors", report.PackagesWithErrors,
		"duration", time.Since(start))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (r *Runner) process(ctx context.Context, t Target, opts Options, stats *collector, logger *log.Logger) Result {
	res := Result{Package: t.Name, Path: t.Path}

	syncer := *r.Sync
	syncer.Logger = logger.With("package", t.Name)
	if opts.CondaForge && r.CondaForge != nil {
		syncer.Precheck = func(ctx context.Context, pkg, current string) {
			res.CondaForge = r.lookup(ctx, pkg, current, opts.Refresh, syncer.Logger)
			if res.CondaForge != nil {
				stats.condaForge(res.CondaForge)
			}
		}
	}

	d := syncer.SyncFile(ctx, t.Path, opts.SyncOptions())
	if d.Package != "" {
		res.Package = d.Package
	}
	res.Decision = d
	res.Outcome = d.Outcome
	res.Current = d.Current
	if d.Candidate != nil {
		res.Upstream = d.Candidate.Version
	}
	res.URL, res.SHA256 = d.URL, d.SHA256
	res.Ambiguous = d.Ambiguous
	if d.Err != nil {
		res.Error = errorMessage(d.Err)
		syncer.Logger.Error("sync failed", "err", d.Err)
	}

	stats.decision(d)
	observability.Sync().OnDecision(ctx, res.Package, string(d.Outcome), d.Err)
	return res
}

// lookup checks conda-forge for pkg. Failures are logged and yield nil.
func (r *Runner) lookup(ctx context.Context, pkg, current string, refresh bool, logger *log.Logger) *CondaForgeStatus {
	info, err := r.CondaForge.Lookup(ctx, pkg, refresh)
	if err != nil {
		logger.Warn("conda-forge lookup failed", "err", err)
		return nil
	}
	st := &CondaForgeStatus{Exists: info.Exists, Latest: info.Latest, HasCurrent: info.Has(current)}
	st.Newer = info.Latest != "" && version.Compare(info.Latest, current) > 0
	if info.Exists {
		logger.Debug("on conda-forge", "versions", len(info.Versions), "latest", info.Latest, "has_current", st.HasCurrent)
	} else {
		logger.Debug("not on conda-forge")
	}
	return st
}
