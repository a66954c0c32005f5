package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kozaktomas/collage-pdf/internal/config"
	"github.com/kozaktomas/collage-pdf/internal/document"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var planCmd = &cobra.Command{
	Use:   "plan <image|folder|zip> [...]",
	Short: "Print the computed layout without rendering",
	Long: `Compute the layout for the given photos and print the placement report
(positions and sizes in millimetres, effective DPI, warnings).

Example:
  collage-pdf plan --mode symmetric --set imagesPerRow=3 photos/
  collage-pdf plan --mode collage --format yaml a.jpg b.jpg c.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	addLayoutFlags(planCmd)
	planCmd.Flags().StringP("format", "f", "json", "Output format: json or yaml")
}

func runPlan(cmd *cobra.Command, args []string) error {
	format := mustGetString(cmd, "format")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown format %q (use json or yaml)", format)
	}

	in, err := buildInput(cmd, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := document.NewGenerator(config.Load()).Report(ctx, in)
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}

	if format == "yaml" {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(report)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
