// Package cli implements the pulse command-line interface using Cobra.
// Subcommands cover serving the API, recording activity events, and
// inspecting user stats, leaderboards and achievements.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Pulse — the engagement engine behind Rally",
	Long: `Pulse tracks points, levels, streaks and achievements for Rally users.
It runs as a local HTTP service backed by SQLite, and the same binary
doubles as an admin tool for recording events and inspecting state.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
