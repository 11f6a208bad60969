package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a feature flag",
	Long: `Delete a feature flag. Evaluations for the key will return 404
afterwards.

Examples:
  flagpole delete new-ui`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient().DeleteFlag(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete flag: %w", err)
		}
		if !quiet {
			fmt.Printf("Deleted flag %q\n", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
