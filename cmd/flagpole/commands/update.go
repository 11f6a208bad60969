package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkoval/flagpole/internal/cli"
	"github.com/dkoval/flagpole/internal/store"
)

var (
	updateEnabled  bool
	updateRollout  int32
	updateVariants map[string]int
)

var updateCmd = &cobra.Command{
	Use:   "update <key>",
	Short: "Update a feature flag",
	Long: `Apply a partial update to an existing feature flag. Only the
flags you pass are changed; everything else keeps its stored value.

Examples:
  flagpole update new-ui --enabled=true
  flagpole update new-ui --rollout 50
  flagpole update new-ui --variants control=1,experiment=1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var params store.UpdateParams
		if cmd.Flags().Changed("enabled") {
			params.Enabled = &updateEnabled
		}
		if cmd.Flags().Changed("rollout") {
			params.Rollout = &updateRollout
		}
		if cmd.Flags().Changed("variants") {
			variants, err := toVariantWeights(updateVariants)
			if err != nil {
				return err
			}
			params.Variants = variants
		}

		flag, err := apiClient().UpdateFlag(context.Background(), args[0], params)
		if err != nil {
			return fmt.Errorf("failed to update flag: %w", err)
		}
		if !quiet {
			return cli.PrintFlag(flag, cli.OutputFormat(format))
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateEnabled, "enabled", false, "Enable or disable the flag")
	updateCmd.Flags().Int32Var(&updateRollout, "rollout", 0, "Rollout percentage (0-100)")
	updateCmd.Flags().StringToIntVar(&updateVariants, "variants", nil, "Variant weights as name=weight pairs")
	rootCmd.AddCommand(updateCmd)
}
