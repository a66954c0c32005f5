package cmd

import (
	"fmt"

	"github.com/kozaktomas/collage-pdf/internal/archive"
	"github.com/kozaktomas/collage-pdf/internal/probe"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe <image|folder|zip> [...]",
	Short: "Print the pixel dimensions of images",
	Long: `Read the intrinsic size of each image the same way the layout engine
does. Images whose size cannot be read are reported with the 800x600
fallback used by lenient probing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().BoolP("recursive", "r", false, "Search directories recursively")
}

func runProbe(cmd *cobra.Command, args []string) error {
	files, err := loadFiles(args, mustGetBool(cmd, "recursive"))
	if err != nil {
		return err
	}

	for _, f := range files {
		if probe.Sniff(f.Data) == "" && archive.IsZip(f.Name, "", f.Data) {
			entries, skipped, err := archive.ExtractImages(f.Data, archive.Limits{})
			if err != nil {
				fmt.Printf("%s: %v\n", f.Name, err)
				continue
			}
			for _, e := range entries {
				printProbe(f.Name+":"+e.Name, e.Data)
			}
			if len(skipped) > 0 {
				fmt.Printf("%s: skipped %d non-image entries\n", f.Name, len(skipped))
			}
			continue
		}
		printProbe(f.Name, f.Data)
	}
	return nil
}

func printProbe(name string, data []byte) {
	res, err := probe.Detect(data, "")
	if err != nil {
		fmt.Printf("%-40s %dx%d (fallback: %v)\n", name, probe.DefaultWidth, probe.DefaultHeight, err)
		return
	}
	orientation := "square"
	switch {
	case res.Width > res.Height:
		orientation = "landscape"
	case res.Width < res.Height:
		orientation = "portrait"
	}
	fmt.Printf("%-40s %dx%d %s %s\n", name, res.Width, res.Height, res.Format, orientation)
}
