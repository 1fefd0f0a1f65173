package cli

import (
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// completionGenerators writes the completion script of each supported shell.
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

// completionCommand creates the "completion" command. Package names complete
// from the recipes directory for check and update.
func (c *CLI) completionCommand() *cobra.Command {
	shells := make([]string, 0, len(completionGenerators))
	for name := range completionGenerators {
		shells = append(shells, name)
	}
	slices.Sort(shells)

	return &cobra.Command{
		Use:   "completion [" + strings.Join(shells, "|") + "]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for recipesync on stdout.

  $ source <(recipesync completion bash)
  $ recipesync completion zsh > "${fpath[1]}/_recipesync"
  $ recipesync completion fish > ~/.config/fish/completions/recipesync.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionGenerators[args[0]](cmd.Root(), c.Out)
		},
	}
}
