package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/shortcutter/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Listen for shortcuts and replay their macros",
	Long: `Loads every saved macro, registers its shortcut and replays the macro
each time the shortcut is pressed. Blocks until SIGINT or SIGTERM; SIGHUP
reloads the macros.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listen, _ := cmd.Flags().GetString("listen")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		quiet, _ := cmd.Flags().GetBool("quiet")

		return cli.Run(cmd.Context(), cli.RunOptions{
			Options: globalOptions(cmd),
			Listen:  listen,
			DryRun:  dryRun,
			Quiet:   quiet,
		}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	for _, cmd := range []*cobra.Command{runCmd, rootCmd} {
		cmd.Flags().StringP("listen", "l", "", "Serve the control API on this address (e.g. 127.0.0.1:7878)")
		cmd.Flags().Bool("dry-run", false, "Use an in-memory keyboard, pointer and screen instead of the display")
		cmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
	}

	rootCmd.RunE = runCmd.RunE
}
