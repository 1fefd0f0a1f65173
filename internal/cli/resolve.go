package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recipesync/pkg/errors"
	"github.com/matzehuels/recipesync/pkg/source"
	"github.com/matzehuels/recipesync/pkg/version"
)

// resolveCommand creates the resolve command, which runs one source URL
// through the resolver registry without touching any recipe.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		pkg      string
		patterns []string
		mode     string
	)
	cmd := &cobra.Command{
		Use:   "resolve <url>",
		Short: "Resolve the latest upstream version of a source URL",
		Long: `Resolve asks the resolver registry for the newest version of a single
source URL, the way check does for a recipe. Useful to try out version
patterns and modes before writing them into a recipe.

A --mode pins the lookup to that single path with no fallback.`,
		Example: `  recipesync resolve https://github.com/BurntSushi/ripgrep --package ripgrep
  recipesync resolve https://github.com/o/r --package r --mode github-tags --pattern '^release-(\d+\.\d+)$'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			if err := errors.ValidateSourceURL(url); err != nil {
				return err
			}
			if err := errors.ValidatePatterns(patterns); err != nil {
				return err
			}
			compiled, _ := version.Compile(patterns)

			svc, err := c.newServices()
			if err != nil {
				return err
			}
			defer svc.cache.Close()

			cand, err := svc.registry.Resolve(cmd.Context(), source.Request{
				URL:      url,
				Package:  pkg,
				Patterns: compiled,
				Mode:     source.ParseMode(mode),
				Explicit: mode != "",
				Refresh:  c.flags.refresh,
			})
			if err != nil {
				return err
			}

			if c.flags.jsonOutput {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(cand)
			}
			printSuccess(c.Out, "%s %s", StyleValue.Render(pkg), StyleHighlight.Render(cand.Version))
			printKeyValue(c.Out, "ref", cand.OriginRef)
			printKeyValue(c.Out, "via", string(cand.Kind))
			if cand.AssetName != "" {
				printKeyValue(c.Out, "asset", cand.AssetName)
			}
			if cand.DownloadURL != "" {
				printKeyValue(c.Out, "download", StyleLink.Render(cand.DownloadURL))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pkg, "package", "", "package name used to strip tag prefixes")
	cmd.Flags().StringArrayVar(&patterns, "pattern", nil, "version pattern (repeatable, first capture group is the version)")
	cmd.Flags().StringVar(&mode, "mode", "", "pin a lookup mode (github-release, github-tags, git-tags, git-branches, rubygems)")
	_ = cmd.MarkFlagRequired("package")
	return cmd
}
