package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kozaktomas/collage-pdf/internal/config"
	"github.com/kozaktomas/collage-pdf/internal/document"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <image|folder|zip> [...]",
	Short: "Render photos into a PDF",
	Long: `Lay out the given photos and write the PDF.

Arguments may be image files, zip archives of images or folders.
Settings come from the mode defaults, an optional JSON configuration
(--config) and --set overrides, in that order.

Example:
  collage-pdf render --mode collage photos/ -o collage.pdf
  collage-pdf render --mode repeat --set imageWidth=35 --set anchor=center id.jpg
  collage-pdf render --mode freeform --config template.json album.zip`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addLayoutFlags(renderCmd)
	renderCmd.Flags().StringP("output", "o", "", "Output file (default derived from --title or the mode)")
	renderCmd.Flags().Bool("verify", false, "Re-read the generated PDF and check its page count")
	renderCmd.Flags().Float64("max-dpi", -1, "Downscale images above this resolution, 0 keeps full size (default from RENDER_MAX_DPI)")
	renderCmd.Flags().Bool("no-progress", false, "Do not show a progress bar")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if mustGetBool(cmd, "verify") {
		cfg.Render.Verify = true
	}
	if dpi := mustGetFloat64(cmd, "max-dpi"); dpi >= 0 {
		cfg.Render.MaxDPI = dpi
	}

	in, err := buildInput(cmd, args)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d file(s), mode %s\n", len(in.Files), in.Mode)

	var bar *progressbar.ProgressBar
	if !mustGetBool(cmd, "no-progress") {
		in.Progress = func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription("Preparing images"),
					progressbar.OptionShowCount(),
					progressbar.OptionShowIts(),
					progressbar.OptionSetItsString("images"),
					progressbar.OptionShowElapsedTimeOnFinish(),
					progressbar.OptionFullWidth(),
				)
			}
			bar.Set(done)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := document.NewGenerator(cfg).Generate(ctx, in)
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}
	if err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}

	output := mustGetString(cmd, "output")
	if output == "" {
		output = res.Filename
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(output, res.PDF, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", output, err)
	}

	fmt.Printf("Wrote %s: %d page(s), %d placement(s), %d bytes\n",
		output, res.Report.PageCount, res.Report.PlacementCount, len(res.PDF))
	printWarnings(res.Report.Warnings)
	return nil
}

func printWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Printf("\nWarnings (%d):\n", len(warnings))
	for _, w := range warnings {
		fmt.Printf("  - %s\n", w)
	}
}
