// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set from main at startup so subcommands can report it.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "ghdash",
	Short: "A CLI tool to build a GitHub user activity dashboard.",
	Long: `ghdash is a CLI tool that fetches a GitHub user's public repositories and
recent activity, aggregates them into monthly buckets over the trailing
twelve months, and reports the result as a dashboard document.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = Version
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
