package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recipesync/pkg/pipeline"
	"github.com/matzehuels/recipesync/pkg/updater"
)

// errNoRecipes is returned when a run has nothing to process.
var errNoRecipes = errors.New("no recipe files found to process")

// checkCommand creates the check command (report only, never writes).
func (c *CLI) checkCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "check [package...]",
		Short: "Report recipes that have a newer upstream version",
		Long: `Check resolves the latest upstream version of each recipe and reports
whether it is up to date. No recipe file is modified.

Without package names (or with --all) every <recipes-dir>/*/recipe.yaml is checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkAll(all, args); err != nil {
				return err
			}
			return c.runSync(cmd.Context(), args, pipeline.Options{DryRun: true})
		},
		ValidArgsFunction: completePackages,
	}
	cmd.Flags().BoolVar(&all, "all", false, "process every recipe")
	return cmd
}

// updateCommand creates the update command.
func (c *CLI) updateCommand() *cobra.Command {
	var (
		all  bool
		opts pipeline.Options
	)
	cmd := &cobra.Command{
		Use:   "update [package...]",
		Short: "Rewrite outdated recipes to the latest upstream version",
		Long: `Update resolves the latest upstream version of each recipe and, when it is
newer, downloads the new source archive, computes its sha256 and rewrites
context.version, source.url and source.sha256. Everything else in the recipe
is left byte-for-byte intact. A recipe is never written when hashing fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkAll(all, args); err != nil {
				return err
			}
			return c.runSync(cmd.Context(), args, opts)
		},
		ValidArgsFunction: completePackages,
	}
	cmd.Flags().BoolVar(&all, "all", false, "process every recipe")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "show what would change without writing")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "update even when the recipe is already current")
	return cmd
}

// completePackages offers the recipe names under --recipes-dir that are not
// already on the command line.
func completePackages(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	dir, err := cmd.Flags().GetString("recipes-dir")
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	targets, err := pipeline.Discover(dir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, t := range targets {
		if strings.HasPrefix(t.Name, toComplete) && !slices.Contains(args, t.Name) {
			names = append(names, t.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func checkAll(all bool, args []string) error {
	if all && len(args) > 0 {
		return fmt.Errorf("--all cannot be combined with package names")
	}
	return nil
}

// runSync processes the named recipes (all when names is empty) and prints
// the results. It fails when any recipe ended in an error.
func (c *CLI) runSync(ctx context.Context, names []string, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)

	targets, err := c.targets(ctx, names)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return errNoRecipes
	}

	svc, err := c.newServices()
	if err != nil {
		return err
	}
	defer svc.cache.Close()

	opts.Concurrency = c.cfg.Concurrency
	opts.CondaForge = c.cfg.CondaForge
	opts.Refresh = c.flags.refresh

	if !c.flags.jsonOutput {
		printInfo(c.Out, "Found %d recipe file(s) to process", len(targets))
		if opts.DryRun {
			printDetail(c.Out, "dry run: no files will be modified")
		} else {
			printDetail(c.Out, "update: outdated recipes will be rewritten")
		}
	}

	prog := newProgress(logger)
	report, runErr := c.newRunner(svc).Execute(ctx, targets, opts)
	if report == nil {
		return runErr
	}
	prog.done(fmt.Sprintf("Processed %d recipes", report.TotalPackages))

	if c.flags.jsonOutput {
		enc := json.NewEncoder(c.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		for _, r := range report.Results {
			fmt.Fprintln(c.Out, renderResult(r))
		}
		fmt.Fprintln(c.Out)
		fmt.Fprint(c.Out, renderSummary(report, opts))
		if opts.DryRun && countOutcome(report, updater.OutcomeWouldUpdate) > 0 {
			printNextStep(c.Out, "Apply with", appName+" update")
		}
	}

	if runErr != nil {
		return runErr
	}
	if !report.OK() {
		return fmt.Errorf("%d recipe(s) failed", report.PackagesWithErrors)
	}
	return nil
}

// targets resolves package names to recipe files, warning about unknown ones.
func (c *CLI) targets(ctx context.Context, names []string) ([]pipeline.Target, error) {
	if len(names) == 0 {
		return pipeline.Discover(c.cfg.RecipesDir)
	}
	targets, missing, err := pipeline.Named(c.cfg.RecipesDir, names)
	if err != nil {
		return nil, err
	}
	for _, name := range missing {
		if c.flags.jsonOutput {
			loggerFromContext(ctx).Warn("package not found", "package", name, "dir", c.cfg.RecipesDir)
			continue
		}
		printWarning(c.Out, "Package %q not found in %s", name, c.cfg.RecipesDir)
	}
	return targets, nil
}
