package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kozaktomas/collage-pdf/internal/archive"
	"github.com/kozaktomas/collage-pdf/internal/document"
	"github.com/kozaktomas/collage-pdf/internal/layout"
	"github.com/spf13/cobra"
)

// addLayoutFlags registers the flags shared by render and plan.
func addLayoutFlags(c *cobra.Command) {
	c.Flags().StringP("mode", "m", "collage", "Layout mode: repeat, collage, symmetric, freeform or one-per-page")
	c.Flags().StringP("config", "c", "", "Path to a JSON layout configuration")
	c.Flags().StringSlice("set", nil, "Override a setting, e.g. --set margin=5 --set orientation=landscape")
	c.Flags().String("title", "", "Document title, also used for the output file name")
	c.Flags().BoolP("recursive", "r", false, "Search directories recursively")
}

// buildInput turns command line arguments into a document request.
func buildInput(c *cobra.Command, paths []string) (document.Input, error) {
	mode, err := layout.ParseMode(mustGetString(c, "mode"))
	if err != nil {
		return document.Input{}, err
	}

	in := document.Input{
		Mode:      mode,
		Title:     mustGetString(c, "title"),
		Overrides: make(map[string]string),
	}

	if path := mustGetString(c, "config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return in, fmt.Errorf("cannot read config %s: %w", path, err)
		}
		in.Config = data
	}

	for _, kv := range mustGetStringSlice(c, "set") {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return in, fmt.Errorf("invalid --set %q, expected key=value", kv)
		}
		in.Overrides[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	files, err := loadFiles(paths, mustGetBool(c, "recursive"))
	if err != nil {
		return in, err
	}
	in.Files = files
	return in, nil
}

// loadFiles reads image files, zip archives and the images inside directories.
// Directory entries are read in lexical order.
func loadFiles(paths []string, recursive bool) ([]document.File, error) {
	var files []document.File
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", p, err)
		}

		var filePaths []string
		if info.IsDir() {
			filePaths, err = listImages(p, recursive)
			if err != nil {
				return nil, err
			}
		} else {
			filePaths = []string{p}
		}

		for _, fp := range filePaths {
			data, err := os.ReadFile(fp)
			if err != nil {
				return nil, fmt.Errorf("cannot read %s: %w", fp, err)
			}
			files = append(files, document.File{Name: filepath.Base(fp), Data: data})
		}
	}
	return files, nil
}

func listImages(dir string, recursive bool) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if !strings.HasPrefix(name, ".") && (archive.IsImageName(name) || strings.EqualFold(filepath.Ext(name), ".zip")) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot walk folder %s: %w", dir, err)
	}
	return out, nil
}
