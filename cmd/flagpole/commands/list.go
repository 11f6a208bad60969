package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkoval/flagpole/internal/cli"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all feature flags",
	Long: `List all feature flags known to the service.

Examples:
  flagpole list
  flagpole list --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags, err := apiClient().ListFlags(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list flags: %w", err)
		}
		if !quiet {
			return cli.PrintFlags(flags, cli.OutputFormat(format))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
