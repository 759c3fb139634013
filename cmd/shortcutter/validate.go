package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/shortcutter/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate <combo>",
	Short: "Check whether a shortcut can be bound",
	Long: `Normalizes the combo and checks it against the reserved shortcuts, the
shortcuts already bound by saved macros and the combo grammar.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		editing, _ := cmd.Flags().GetString("editing")
		c, err := cli.ValidateCombo(cmd.Context(), globalOptions(cmd), args[0], editing)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is available ✅\n", c)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("editing", "", "Name of the macro being edited (its own combo stays valid)")
}
