package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cfpradar",
	Short: "Track and browse speaking opportunities",
	Long: `cfpradar catalogs calls-for-speakers, CFPs and panel openings collected
from external sources, deduplicates them by URL, and serves them through
a searchable web page and JSON API.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
