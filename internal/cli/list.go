package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recipesync/pkg/pipeline"
)

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the recipes in the recipes directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := pipeline.Discover(c.cfg.RecipesDir)
			if err != nil {
				return err
			}
			entries := pipeline.Inventory(targets)

			if c.flags.jsonOutput {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			if len(entries) == 0 {
				printInfo(c.Out, "No recipes found in %s", c.cfg.RecipesDir)
				return nil
			}
			fmt.Fprintln(c.Out, renderInventory(entries))
			printDetail(c.Out, "%d recipe(s) in %s", len(entries), c.cfg.RecipesDir)
			return nil
		},
	}
}
