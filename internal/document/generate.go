// Package document turns uploaded files plus a layout configuration into a
// finished PDF. It is the single entry point shared by the HTTP handlers and
// the CLI.
package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/kozaktomas/collage-pdf/internal/archive"
	"github.com/kozaktomas/collage-pdf/internal/config"
	"github.com/kozaktomas/collage-pdf/internal/layout"
	"github.com/kozaktomas/collage-pdf/internal/probe"
	"github.com/kozaktomas/collage-pdf/internal/render"
)

// File is one uploaded file: an image or a zip archive of images.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Input is one document request.
type Input struct {
	Mode      layout.Mode
	Config    []byte            // JSON configuration, may be empty
	Overrides map[string]string // plain form fields applied over Config
	Files     []File
	Title     string
	// Progress is passed to the renderer. It may be nil.
	Progress func(done, total int)
}

// Result is a generated document.
type Result struct {
	PDF        []byte
	Report     *layout.Report
	Layout     *layout.Layout
	DocumentID string
	Filename   string
}

// Generator runs the whole pipeline from uploads to PDF bytes.
type Generator struct {
	cfg *config.Config
}

// NewGenerator creates a generator using cfg for defaults and limits.
func NewGenerator(cfg *config.Config) *Generator {
	return &Generator{cfg: cfg}
}

// Plan decodes the configuration and files of in and computes the layout
// without rendering it.
func (g *Generator) Plan(ctx context.Context, in Input) (*layout.Layout, error) {
	lay, _, err := g.plan(ctx, in)
	return lay, err
}

// Generate plans and renders the document. On any error no PDF is returned.
func (g *Generator) Generate(ctx context.Context, in Input) (*Result, error) {
	lay, notes, err := g.plan(ctx, in)
	if err != nil {
		return nil, err
	}

	docID := uuid.New().String()
	report := layout.NewReport(lay)
	report.DocumentID = docID
	report.Warnings = append(notes, report.Warnings...)

	renderer := render.New(render.Options{
		JPEGQuality: g.cfg.Render.JPEGQuality,
		MaxDPI:      g.cfg.Render.MaxDPI,
		MaxPixels:   g.cfg.Limits.MaxPixels,
		Workers:     g.cfg.Render.Workers,
		Verify:      g.cfg.Render.Verify,
		Title:       in.Title,
		DocumentID:  docID,
		Progress:    in.Progress,
	})
	pdf, err := renderer.Render(ctx, lay)
	if err != nil {
		return nil, err
	}

	return &Result{
		PDF:        pdf,
		Report:     report,
		Layout:     lay,
		DocumentID: docID,
		Filename:   DownloadName(in.Title, in.Mode),
	}, nil
}

// Report plans the document and returns its report without rendering.
func (g *Generator) Report(ctx context.Context, in Input) (*layout.Report, error) {
	lay, notes, err := g.plan(ctx, in)
	if err != nil {
		return nil, err
	}
	report := layout.NewReport(lay)
	report.Warnings = append(notes, report.Warnings...)
	return report, nil
}

func (g *Generator) plan(ctx context.Context, in Input) (*layout.Layout, []string, error) {
	defaults := g.cfg.ModeDefaults(in.Mode.String())

	settings, err := DecodeSettings(in.Mode, in.Config, in.Overrides, defaults)
	if err != nil {
		return nil, nil, err
	}

	files, notes, err := g.collectFiles(in.Files, defaults.MaxFiles)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	assets, err := g.probeAll(files)
	if err != nil {
		return nil, nil, err
	}
	if g.cfg.Probe.Duplicates && in.Mode != layout.ModeRepeat {
		notes = append(notes, g.duplicateWarnings(ctx, assets)...)
	}

	lay, err := layout.Plan(layout.Request{
		Page:       settings.Page,
		Mode:       in.Mode,
		Assets:     assets,
		Repeat:     settings.Repeat,
		Symmetric:  settings.Symmetric,
		Freeform:   settings.Freeform,
		OnePerPage: settings.OnePerPage,

		MaxPlacements: g.cfg.Limits.MaxPlacements,
	})
	if err != nil {
		return nil, nil, err
	}
	return lay, notes, nil
}

// collectFiles expands archives, rejects non images and enforces the size
// and count limits. Names are made unique in upload order.
func (g *Generator) collectFiles(uploads []File, maxFiles int) ([]File, []string, error) {
	var (
		files []File
		notes []string
	)
	limits := archive.Limits{
		MaxFiles:     maxFiles,
		MaxFileSize:  g.cfg.Limits.MaxFileSize,
		MaxTotalSize: g.cfg.Limits.MaxUploadSize,
	}

	for _, up := range uploads {
		if len(up.Data) == 0 {
			continue
		}
		if probe.Sniff(up.Data) == "" && archive.IsZip(up.Name, up.ContentType, up.Data) {
			extracted, skipped, err := archive.ExtractImages(up.Data, limits)
			if err != nil {
				return nil, nil, layout.NewError(layout.ErrConfiguration, "extract", err)
			}
			if len(skipped) > 0 {
				slog.Debug("skipped archive entries", "archive", up.Name, "entries", skipped)
				notes = append(notes, fmt.Sprintf("%s: ignored %d non-image entries", up.Name, len(skipped)))
			}
			for _, f := range extracted {
				files = append(files, File{Name: f.Name, Data: f.Data})
			}
			continue
		}

		if !isImage(up) {
			return nil, nil, layout.NewError(layout.ErrConfiguration, "upload",
				fmt.Errorf("only image files are allowed: %s", up.Name))
		}
		if limits.MaxFileSize > 0 && int64(len(up.Data)) > limits.MaxFileSize {
			return nil, nil, layout.NewError(layout.ErrConfiguration, "upload",
				fmt.Errorf("%s exceeds the %d MB file limit", up.Name, limits.MaxFileSize>>20))
		}
		files = append(files, up)
	}

	if len(files) == 0 {
		return nil, nil, layout.NewError(layout.ErrNoInput, "upload", errors.New("no images uploaded"))
	}
	if maxFiles > 0 && len(files) > maxFiles {
		return nil, nil, layout.NewError(layout.ErrConfiguration, "upload",
			fmt.Errorf("too many images: %d (maximum %d)", len(files), maxFiles))
	}

	uniqueNames(files)
	return files, notes, nil
}

func isImage(f File) bool {
	if probe.Sniff(f.Data) != "" || archive.IsImageName(f.Name) {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(f.ContentType)
	return err == nil && strings.HasPrefix(mediaType, "image/")
}

// uniqueNames reduces names to their base and suffixes repeats with -2, -3...
func uniqueNames(files []File) {
	seen := make(map[string]bool, len(files))
	for i := range files {
		name := path.Base(strings.ReplaceAll(files[i].Name, "\\", "/"))
		if name == "." || name == "/" || name == "" {
			name = fmt.Sprintf("image-%d", i+1)
		}
		if seen[name] {
			ext := path.Ext(name)
			stem := strings.TrimSuffix(name, ext)
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s-%d%s", stem, n, ext)
				if !seen[candidate] {
					name = candidate
					break
				}
			}
		}
		seen[name] = true
		files[i].Name = name
	}
}

func (g *Generator) probeAll(files []File) ([]layout.Asset, error) {
	assets := make([]layout.Asset, 0, len(files))
	for _, f := range files {
		var res probe.Result
		if g.cfg.Probe.Strict {
			var err error
			res, err = probe.Detect(f.Data, f.ContentType)
			if err != nil {
				return nil, layout.NewError(layout.ErrAssetDecode, "probe", fmt.Errorf("%s: %w", f.Name, err))
			}
		} else {
			res = probe.Dimensions(f.Data, f.ContentType)
			if res.Degraded {
				slog.Warn("using fallback image size", "image", f.Name, "width", res.Width, "height", res.Height)
			}
		}
		if limit := g.cfg.Limits.MaxPixels; limit > 0 && res.Pixels() > limit {
			return nil, layout.NewError(layout.ErrAssetDecode, "probe",
				fmt.Errorf("%s: %w: %dx%d is more than %d pixels", f.Name, probe.ErrTooManyPixels, res.Width, res.Height, limit))
		}
		assets = append(assets, layout.Asset{
			ID:          f.Name,
			PixelWidth:  res.Width,
			PixelHeight: res.Height,
			Format:      res.Format,
			Degraded:    res.Degraded,
			Data:        f.Data,
		})
	}
	return assets, nil
}
