package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/shortcutter"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of shortcutter",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "shortcutter version %s\n", strings.TrimSpace(shortcutter.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
