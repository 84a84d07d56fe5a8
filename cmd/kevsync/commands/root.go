// Package commands defines the kevsync command tree.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kevsync",
	Short: "KEV catalog connector",
	Long: `kevsync - Known Exploited Vulnerabilities catalog connector

Fetches the KEV feed, enriches each record with derived risk fields,
and persists it into ArangoDB keyed by CVE identifier.`,
	SilenceUsage: true,
}

// Execute runs the command tree; any stage failure maps to exit code 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(serveCmd)
}
