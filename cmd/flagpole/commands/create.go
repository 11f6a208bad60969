package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkoval/flagpole/internal/cli"
	"github.com/dkoval/flagpole/internal/store"
)

var (
	createEnabled  bool
	createRollout  int32
	createVariants map[string]int
)

var createCmd = &cobra.Command{
	Use:   "create <key>",
	Short: "Create a feature flag",
	Long: `Create a new feature flag.

Omitting --rollout creates a flag without a percentage gate (always passes
when enabled). Variants are given as name=weight pairs.

Examples:
  flagpole create new-ui --enabled
  flagpole create new-ui --enabled --rollout 25
  flagpole create new-ui --enabled --variants control=1,experiment=3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := store.CreateParams{
			Key:     args[0],
			Enabled: createEnabled,
		}
		if cmd.Flags().Changed("rollout") {
			params.Rollout = &createRollout
		}
		variants, err := toVariantWeights(createVariants)
		if err != nil {
			return err
		}
		params.Variants = variants

		flag, err := apiClient().CreateFlag(context.Background(), params)
		if err != nil {
			return fmt.Errorf("failed to create flag: %w", err)
		}
		if !quiet {
			return cli.PrintFlag(flag, cli.OutputFormat(format))
		}
		return nil
	},
}

// toVariantWeights converts the CLI's name=weight pairs, rejecting
// negative weights before they would wrap around.
func toVariantWeights(in map[string]int) (map[string]uint32, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]uint32, len(in))
	for name, weight := range in {
		if weight < 0 {
			return nil, fmt.Errorf("variant %q has negative weight %d", name, weight)
		}
		out[name] = uint32(weight)
	}
	return out, nil
}

func init() {
	createCmd.Flags().BoolVar(&createEnabled, "enabled", false, "Create the flag enabled")
	createCmd.Flags().Int32Var(&createRollout, "rollout", 0, "Rollout percentage (0-100)")
	createCmd.Flags().StringToIntVar(&createVariants, "variants", nil, "Variant weights as name=weight pairs")
	rootCmd.AddCommand(createCmd)
}
