package commands

import (
	"github.com/spf13/cobra"

	"github.com/dkoval/flagpole/internal/cli"
	"github.com/dkoval/flagpole/internal/client"
)

var (
	// Global flags
	baseURL string
	apiKey  string
	format  string
	quiet   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "flagpole",
	Short: "CLI tool for managing feature flags",
	Long: `Flagpole is a command-line tool for managing feature flags in the
flagpole service.

It provides commands for creating, reading, updating, and deleting flags,
and for evaluating a flag against a user identifier.

Examples:
  flagpole list
  flagpole create new-ui --enabled --rollout 25
  flagpole get new-ui --format json
  flagpole evaluate new-ui --user user-123`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// apiClient builds a client from the global connection flags.
func apiClient() *client.Client {
	conn := cli.ResolveConnection(baseURL, apiKey)
	return client.NewClient(conn.BaseURL, conn.APIKey)
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Base URL of the flagpole API")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for authentication")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress output")
}
