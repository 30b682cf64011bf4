package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plexdedupe/plexdedupe/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "plexdedupe",
		Short: "Duplicate media manager for Plex",
		Long: `plexdedupe finds movies and TV episodes with more than one media version in
a Plex library, decides which version to keep per title, and reclaims storage
by deleting the rest (trash-aware) or by converting them into verified
hardlinks to the kept version.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cli.AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(cli.NewScanCommand())
	rootCmd.AddCommand(cli.NewCleanCommand())
	rootCmd.AddCommand(cli.NewConfigCommand())
	rootCmd.AddCommand(cli.NewVersionCommand())

	return rootCmd.Execute()
}
