package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/swipetoast/internal/config"
	"github.com/jmylchreest/swipetoast/internal/position"
)

var placementsOpts struct {
	offset int
	output string
}

// Placement is the computed container style for one position.
type Placement struct {
	Position config.Position `json:"position" yaml:"position"`
	Style    position.Style  `json:"style" yaml:"style"`
}

var placementsCmd = &cobra.Command{
	Use:   "placements",
	Short: "Print the container style for every position",
	Long: `Print the inline style each position's container receives.

Output formats:
  table  One row per position (default)
  json   A JSON array
  yaml   A YAML sequence`,
	Args: cobra.NoArgs,
	RunE: runPlacements,
}

func init() {
	rootCmd.AddCommand(placementsCmd)

	placementsCmd.Flags().IntVar(&placementsOpts.offset, "offset", -1,
		"Distance from the screen edge in pixels (default: configured offset)")
	placementsCmd.Flags().StringVarP(&placementsOpts.output, "output", "o", "table",
		"Output format (table, json, yaml)")
}

func runPlacements(cmd *cobra.Command, args []string) error {
	offset := placementsOpts.offset
	if offset < 0 {
		offset = getConfig().Toast.Offset
	}
	return writePlacements(cmd.OutOrStdout(), placementsOpts.output, placements(offset))
}

func placements(offset int) []Placement {
	positions := config.ValidPositions()
	out := make([]Placement, 0, len(positions))
	for _, pos := range positions {
		out = append(out, Placement{Position: pos, Style: position.Compute(pos, offset)})
	}
	return out
}

func writePlacements(w io.Writer, format string, ps []Placement) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(ps, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal placements: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ps); err != nil {
			return fmt.Errorf("failed to marshal placements: %w", err)
		}
		return enc.Close()

	case "table", "":
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("POSITION", "STYLE")
		for _, p := range ps {
			t.Row(string(p.Position), p.Style.String())
		}
		_, err := fmt.Fprintln(w, t.Render())
		return err

	default:
		return fmt.Errorf("unknown output format %q (valid: table, json, yaml)", format)
	}
}
