package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/dkoval/flagpole/internal/store"
)

// OutputFormat specifies the output format for CLI commands.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// PrintFlags outputs flags in the specified format.
func PrintFlags(flags []store.Flag, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(map[string][]store.Flag{"flags": flags})
	case FormatYAML:
		return printYAML(flags)
	case FormatTable:
		return printTable(flags)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintFlag outputs a single flag in the specified format.
func PrintFlag(flag *store.Flag, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(flag)
	case FormatYAML:
		return printYAML(flag)
	case FormatTable:
		return printTable([]store.Flag{*flag})
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printYAML(data any) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(data)
}

func printTable(flags []store.Flag) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Key", "Enabled", "Rollout", "Variants", "Updated At")

	for _, flag := range flags {
		enabled := "false"
		if flag.Enabled {
			enabled = "true"
		}

		rollout := "-"
		if flag.Rollout != nil {
			rollout = fmt.Sprintf("%d%%", *flag.Rollout)
		}

		table.Append(
			flag.Key,
			enabled,
			rollout,
			formatVariants(flag.Variants),
			flag.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}

	return table.Render()
}

// formatVariants renders a variant map as "a:1 b:3" in name order.
func formatVariants(variants map[string]uint32) string {
	if len(variants) == 0 {
		return "-"
	}
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)

	out := ""
	for i, name := range names {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s:%d", name, variants[name])
	}
	return out
}
