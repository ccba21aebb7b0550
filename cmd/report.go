// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mizuho-dev/ghdash/internal/gateway"
	"github.com/mizuho-dev/ghdash/internal/usecase"
	"github.com/mizuho-dev/ghdash/internal/view"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Builds a GitHub user activity dashboard and outputs it as JSON",
	Long: `Fetches a user's public repositories and recent activity, aggregates them
into a trailing 12-month time series (commits, repositories, stars, forks per
month), and outputs the resulting dashboard document in JSON format.

A GITHUB_TOKEN is optional. Without one the commit counts come from the public
events feed, which only covers recent activity; with one the accurate
contribution calendar is used for the whole window.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		user, _ := cmd.Flags().GetString("user")
		if strings.TrimSpace(user) == "" {
			// Rejected before any network call.
			fmt.Fprintln(os.Stderr, "Error: --user must not be empty.")
			os.Exit(1)
		}
		token := os.Getenv("GITHUB_TOKEN") // optional

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		builder := usecase.NewBuilder(githubGateway, logger)

		state := view.New()
		if err := state.Start(user); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start analysis: %v\n", err)
			os.Exit(1)
		}

		dashboard, err := builder.Build(ctx, user, token != "")
		if err != nil {
			_ = state.Fail(err)
			fmt.Fprintf(os.Stderr, "Failed to build dashboard: %v\n", err)
			os.Exit(1)
		}
		_ = state.Succeed(dashboard)

		// Marshal the dashboard into a pretty-printed JSON string.
		jsonData, err := json.MarshalIndent(state.Dashboard, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal dashboard to JSON: %v\n", err)
			os.Exit(1)
		}

		// Print the final JSON to standard output.
		fmt.Println(string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("user", "u", "", "Target GitHub user name (required)")
	reportCmd.MarkFlagRequired("user")
}
