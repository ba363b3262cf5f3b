// Package cli implements the offerd command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the admin API base URL, shared by the client-side
	// subcommands.
	serverURL string

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "offerd",
	Short: "offerd is an admin panel server for ride offers",
	Long: `offerd serves a REST API and a browser admin page for managing
promotional ride offers. Offers persist to a JSON file on disk by default.

Run 'offerd serve' to start the server and 'offerd console' for an
interactive terminal client.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server-url", "http://localhost:4380", "Admin API base URL")
}
