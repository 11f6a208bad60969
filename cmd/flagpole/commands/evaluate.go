package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var evaluateUser string

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <key>",
	Short: "Evaluate a feature flag",
	Long: `Evaluate a feature flag for a user identifier and print the
decision. Without --user the evaluation is anonymous: percentage rollouts
fail closed and no variant is assigned under the default server policy.

Examples:
  flagpole evaluate new-ui --user user-123
  flagpole evaluate new-ui`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var userID *string
		if cmd.Flags().Changed("user") {
			userID = &evaluateUser
		}

		result, err := apiClient().Evaluate(context.Background(), args[0], userID)
		if err != nil {
			return fmt.Errorf("failed to evaluate flag: %w", err)
		}
		if quiet {
			return nil
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateUser, "user", "", "User identifier to evaluate for")
	rootCmd.AddCommand(evaluateCmd)
}
