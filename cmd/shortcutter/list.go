package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/shortcutter/internal/cli"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved macros and their steps",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return cli.List(cmd.Context(), globalOptions(cmd), format, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("format", "f", cli.FormatMarkdown, "Output format: markdown, plain or mermaid")
}
