package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recipesync/pkg/buildinfo"
	"github.com/matzehuels/recipesync/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Persistent flags are merged with the config file and environment before
// any subcommand runs; -v switches the logger to debug level and registers
// hooks that log every resolution and HTTP call.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "recipesync keeps recipe versions in step with upstream",
		Long:         `recipesync discovers the latest upstream release of every recipe in a recipes directory, and rewrites version, source url and sha256 when upstream moved on.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.flags.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			c.cfg = cfg

			if c.flags.verbose {
				c.SetLogLevel(LogDebug)
				hooks := &logHooks{logger: c.Logger}
				observability.SetSyncHooks(hooks)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringP("recipes-dir", "d", "./pkgs", "directory containing <package>/recipe.yaml files")
	pf.Int("concurrency", 1, "recipes processed in parallel")
	pf.Duration("timeout", 30*time.Second, "timeout for each network call")
	pf.Bool("conda-forge", false, "look every package up on conda-forge")
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default ./"+defaultConfigFile+")")
	pf.BoolVar(&c.flags.jsonOutput, "json", false, "print the summary as JSON")
	pf.BoolVar(&c.flags.noCache, "no-cache", false, "disable the HTTP response cache")
	pf.BoolVar(&c.flags.refresh, "refresh", false, "ignore cached responses but store fresh ones")
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.updateCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
