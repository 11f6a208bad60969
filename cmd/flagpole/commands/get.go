package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkoval/flagpole/internal/cli"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a feature flag",
	Long: `Get details of a specific feature flag.

Examples:
  flagpole get new-ui
  flagpole get new-ui --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flag, err := apiClient().GetFlag(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get flag: %w", err)
		}
		if !quiet {
			return cli.PrintFlag(flag, cli.OutputFormat(format))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
