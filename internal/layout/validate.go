package layout

import (
	"fmt"
	"math"
)

// Finding severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationWarning describes a layout issue found during validation.
type ValidationWarning struct {
	PageNumber     int
	PlacementIndex int
	Message        string
	Severity       string
}

// Validate checks every page for placements outside the drawable area,
// overlapping placements and distorted aspect ratios.
func Validate(lay *Layout) []ValidationWarning {
	var warnings []ValidationWarning
	for _, page := range lay.Pages {
		warnings = append(warnings, validatePage(lay, page)...)
	}
	return warnings
}

func validatePage(lay *Layout, page Page) []ValidationWarning {
	var warnings []ValidationWarning
	const eps = 0.01
	d := page.Drawable
	pageNumber := page.Index + 1

	var placements []Placement
	for _, p := range lay.Placements {
		if p.Page == page.Index {
			placements = append(placements, p)
		}
	}

	for i, p := range placements {
		if p.Width <= 0 || p.Height <= 0 {
			warnings = append(warnings, ValidationWarning{
				PageNumber:     pageNumber,
				PlacementIndex: i,
				Message:        fmt.Sprintf("placement %d has no area (%.2fx%.2f)", i, p.Width, p.Height),
				Severity:       SeverityError,
			})
			continue
		}
		if p.X < d.X-eps || p.X+p.Width > d.X+d.W+eps || p.Y < d.Y-eps || p.Y+p.Height > d.Top()+eps {
			warnings = append(warnings, ValidationWarning{
				PageNumber:     pageNumber,
				PlacementIndex: i,
				Message: fmt.Sprintf("placement %d (%.2f,%.2f %.2fx%.2f) extends past the drawable area (%.2f,%.2f %.2fx%.2f)",
					i, p.X, p.Y, p.Width, p.Height, d.X, d.Y, d.W, d.H),
				Severity: SeverityError,
			})
		}
		if a, ok := lay.Asset(p.AssetID); ok {
			want := rotatedRatio(a.PixelWidth, a.PixelHeight, p.Rotation)
			if got := p.Width / p.Height; math.Abs(got-want) > 1e-6*want {
				warnings = append(warnings, ValidationWarning{
					PageNumber:     pageNumber,
					PlacementIndex: i,
					Message:        fmt.Sprintf("placement %d aspect ratio %.4f differs from image %.4f", i, got, want),
					Severity:       SeverityError,
				})
			}
		}
	}

	for i := range placements {
		for j := i + 1; j < len(placements); j++ {
			a, b := placements[i], placements[j]
			if rectsOverlap(a.X, a.Y, a.Width, a.Height, b.X, b.Y, b.Width, b.Height, eps) {
				warnings = append(warnings, ValidationWarning{
					PageNumber:     pageNumber,
					PlacementIndex: i,
					Message:        fmt.Sprintf("placement %d overlaps with placement %d", i, j),
					Severity:       SeverityError,
				})
			}
		}
	}
	return warnings
}

// rectsOverlap checks if two axis-aligned rectangles overlap with tolerance.
func rectsOverlap(x1, y1, w1, h1, x2, y2, w2, h2, eps float64) bool {
	if x1+w1 <= x2+eps || x2+w2 <= x1+eps {
		return false
	}
	if y1+h1 <= y2+eps || y2+h2 <= y1+eps {
		return false
	}
	return true
}
