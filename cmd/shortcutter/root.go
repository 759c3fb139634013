package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/shortcutter/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "shortcutter",
	Short: "Shortcutter replays pointer macros bound to keyboard shortcuts",
	Long: `Shortcutter binds keyboard combinations to macros of delays, clicks and
moves to on-screen images, and replays them when the combination is pressed.

Running without a subcommand is the same as "shortcutter run".`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: ./shortcutter.{yaml,toml,json} if present)")
	flags.String("dir", "", "Data directory holding shortcuts/ and icons/")
	flags.String("store", "", "Macro store backend: file, redis or sqlite")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.Bool("log-json", false, "Log as JSON")
}

func globalOptions(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	dir, _ := flags.GetString("dir")
	backend, _ := flags.GetString("store")
	level, _ := flags.GetString("log-level")
	asJSON, _ := flags.GetBool("log-json")
	return cli.Options{
		ConfigPath: configPath,
		DataDir:    dir,
		Backend:    backend,
		LogLevel:   level,
		LogJSON:    asJSON,
	}
}
