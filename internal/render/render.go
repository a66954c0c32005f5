// Package render paints a planned layout into a PDF document.
package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"codeberg.org/go-pdf/fpdf"
	"github.com/kozaktomas/collage-pdf/internal/layout"
	"golang.org/x/sync/errgroup"
)

// Options controls rendering.
type Options struct {
	JPEGQuality int     // 1-100
	MaxDPI      float64 // downscale images beyond this resolution; 0 keeps full size
	MaxPixels   int64   // refuse to decode larger images
	Workers     int     // parallel image preparation
	Verify      bool    // re-read the finished PDF with pdfcpu
	Title       string
	Author      string
	DocumentID  string
	// Progress is called after each image is prepared. It may be nil.
	Progress func(done, total int)
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		JPEGQuality: 90,
		MaxDPI:      300,
		MaxPixels:   64 << 20,
		Workers:     4,
		Verify:      true,
		Title:       "Photo layout",
	}
}

// Renderer writes layouts as PDF documents. It holds no per-document state
// and is safe for concurrent use.
type Renderer struct {
	opts Options
}

// New creates a renderer, filling zero options with defaults.
func New(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = def.JPEGQuality
	}
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if opts.MaxDPI < 0 {
		opts.MaxDPI = 0
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = def.MaxPixels
	}
	if opts.Title == "" {
		opts.Title = def.Title
	}
	return &Renderer{opts: opts}
}

// Render prepares every image and writes the document. It returns the whole
// PDF or an error; a failure on any image fails the document.
func (r *Renderer) Render(ctx context.Context, lay *layout.Layout) ([]byte, error) {
	data, err := r.render(ctx, lay)
	if err != nil {
		return nil, layout.NewError(layout.ErrRender, "render", err)
	}
	return data, nil
}

func (r *Renderer) render(ctx context.Context, lay *layout.Layout) ([]byte, error) {
	if len(lay.Pages) == 0 {
		return nil, fmt.Errorf("layout has no pages")
	}

	jobs, index, err := collectJobs(lay)
	if err != nil {
		return nil, err
	}
	images, err := r.prepareAll(ctx, jobs)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	first := lay.Pages[0]
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(r.opts.Title, true)
	pdf.SetCreator("collage-pdf", true)
	pdf.SetProducer("collage-pdf", true)
	if r.opts.Author != "" {
		pdf.SetAuthor(r.opts.Author, true)
	}
	if r.opts.DocumentID != "" {
		pdf.SetKeywords(r.opts.DocumentID, true)
	}

	for _, img := range images {
		pdf.RegisterImageOptionsReader(img.name, fpdf.ImageOptions{ImageType: img.imageType}, bytes.NewReader(img.data))
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("embedding images: %w", err)
	}

	for _, page := range lay.Pages {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
		for _, p := range lay.PagePlacements(page.Index) {
			img := images[index[imageKey{assetID: p.AssetID, rotation: p.Rotation}]]
			// fpdf measures y from the top edge
			top := page.Height - p.Y - p.Height
			pdf.ImageOptions(img.name, p.X, top, p.Width, p.Height, false, fpdf.ImageOptions{ImageType: img.imageType}, 0, "")
		}
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("drawing pages: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	data := buf.Bytes()

	if r.opts.Verify {
		pages, err := PageCount(data)
		if err != nil {
			return nil, fmt.Errorf("verifying pdf: %w", err)
		}
		if pages != len(lay.Pages) {
			return nil, fmt.Errorf("verifying pdf: got %d pages, want %d", pages, len(lay.Pages))
		}
	}

	slog.Info("document rendered",
		"mode", lay.Mode.String(),
		"pages", len(lay.Pages),
		"placements", len(lay.Placements),
		"images", len(images),
		"bytes", len(data))
	return data, nil
}

// prepareAll prepares the images concurrently. The first failure cancels the
// remaining work.
func (r *Renderer) prepareAll(ctx context.Context, jobs []*imageJob) ([]*preparedImage, error) {
	results := make([]*preparedImage, len(jobs))
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := r.prepare(job, fmt.Sprintf("img%d", i))
			if err != nil {
				return err
			}
			slog.Debug("image prepared",
				"asset", job.asset.ID,
				"rotation", job.key.rotation,
				"type", img.imageType,
				"width", img.width,
				"height", img.height)
			results[i] = img

			if r.opts.Progress != nil {
				mu.Lock()
				done++
				r.opts.Progress(done, len(jobs))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
