package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/kozaktomas/collage-pdf/internal/layout"
	"github.com/kozaktomas/collage-pdf/internal/probe"
)

// fpdf image types
const (
	imageJPG = "JPG"
	imagePNG = "PNG"
)

// imageKey identifies one embedded image: the same asset drawn with the same
// rotation is embedded once however many times it is placed.
type imageKey struct {
	assetID  string
	rotation int
}

// imageJob describes the pixels one embedded image has to provide.
type imageJob struct {
	key   imageKey
	asset layout.Asset
	// largest placement size in points across every use of the image
	maxW, maxH float64
}

type preparedImage struct {
	name      string
	imageType string
	data      []byte
	width     int
	height    int
}

// collectJobs groups placements by asset and rotation in first-use order.
func collectJobs(lay *layout.Layout) ([]*imageJob, map[imageKey]int, error) {
	index := make(map[imageKey]int)
	var jobs []*imageJob
	for _, p := range lay.Placements {
		key := imageKey{assetID: p.AssetID, rotation: p.Rotation}
		i, ok := index[key]
		if !ok {
			a, found := lay.Asset(p.AssetID)
			if !found {
				return nil, nil, fmt.Errorf("placement references unknown image %q", p.AssetID)
			}
			i = len(jobs)
			index[key] = i
			jobs = append(jobs, &imageJob{key: key, asset: a})
		}
		jobs[i].maxW = math.Max(jobs[i].maxW, p.Width)
		jobs[i].maxH = math.Max(jobs[i].maxH, p.Height)
	}
	return jobs, index, nil
}

// prepare turns the source bytes into something fpdf can embed. PNG stays
// PNG; everything else becomes JPEG. Unrotated JPEGs that need no
// downscaling are passed through untouched.
func (r *Renderer) prepare(job *imageJob, name string) (*preparedImage, error) {
	a := job.asset
	format := probe.Sniff(a.Data)
	targetW, targetH := r.targetPixels(job)

	if format == "jpeg" && job.key.rotation == 0 && !a.Degraded && !needsDownscale(a.PixelWidth, a.PixelHeight, targetW, targetH) {
		return &preparedImage{name: name, imageType: imageJPG, data: a.Data, width: a.PixelWidth, height: a.PixelHeight}, nil
	}

	if err := probe.CheckPixels(a.Data, r.opts.MaxPixels); err != nil {
		return nil, layout.NewError(layout.ErrAssetDecode, "render", fmt.Errorf("decoding %q: %w", a.ID, err))
	}
	img, err := imaging.Decode(bytes.NewReader(a.Data))
	if err != nil {
		return nil, layout.NewError(layout.ErrAssetDecode, "render", fmt.Errorf("decoding %q: %w", a.ID, err))
	}

	img = rotateClockwise(img, job.key.rotation)
	b := img.Bounds()
	if needsDownscale(b.Dx(), b.Dy(), targetW, targetH) {
		img = imaging.Fit(img, targetW, targetH, imaging.Lanczos)
	}

	var buf bytes.Buffer
	out := &preparedImage{name: name}
	if format == "png" {
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("encoding %q as png: %w", a.ID, err)
		}
		out.imageType = imagePNG
	} else {
		img = flatten(img)
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(r.opts.JPEGQuality)); err != nil {
			return nil, fmt.Errorf("encoding %q as jpeg: %w", a.ID, err)
		}
		out.imageType = imageJPG
	}
	out.data = buf.Bytes()
	out.width = img.Bounds().Dx()
	out.height = img.Bounds().Dy()
	return out, nil
}

// targetPixels returns the pixel box the image needs at the configured DPI,
// or 0, 0 when downscaling is disabled.
func (r *Renderer) targetPixels(job *imageJob) (int, int) {
	if r.opts.MaxDPI <= 0 {
		return 0, 0
	}
	w := int(math.Ceil(job.maxW / 72 * r.opts.MaxDPI))
	h := int(math.Ceil(job.maxH / 72 * r.opts.MaxDPI))
	return max(w, 1), max(h, 1)
}

// needsDownscale reports whether a w x h image is larger than the target box.
// Rotated sizes are compared by the caller after rotation.
func needsDownscale(w, h, targetW, targetH int) bool {
	if targetW <= 0 || targetH <= 0 {
		return false
	}
	return w > targetW && h > targetH
}

// rotateClockwise turns img by a multiple of 90 degrees. imaging rotates
// counter-clockwise.
func rotateClockwise(img image.Image, deg int) image.Image {
	switch deg {
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// flatten composites translucent images onto white before JPEG encoding.
func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
