// Package cli implements the fleetbookctl staff tool, a thin cobra front
// end over the admin HTTP API.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	apiAddr    string
	tenantHost string
	outputJSON bool
	client     *apiClient
)

var rootCmd = &cobra.Command{
	Use:   "fleetbookctl",
	Short: "Staff tool for the fleetbook reservation engine",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		client = newAPIClient(apiAddr, tenantHost)
	},
	SilenceUsage: true,
}

func Execute() {
	rootCmd.AddCommand(reservationsCmd())
	rootCmd.AddCommand(notificationsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiAddr, "addr", envOr("FLEETBOOK_ADDR", "http://localhost:8080"), "Server base URL")
	rootCmd.PersistentFlags().StringVar(&tenantHost, "host", os.Getenv("FLEETBOOK_HOST"), "Tenant host (sent as X-Forwarded-Host)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output JSON")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
