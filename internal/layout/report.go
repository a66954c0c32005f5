package layout

import (
	"fmt"
	"math"

	"github.com/kozaktomas/collage-pdf/internal/units"
)

// lowResDPIThreshold is the effective resolution below which a placement is
// flagged as low resolution.
const lowResDPIThreshold = 150.0

// Report summarizes a layout for API clients and the CLI.
type Report struct {
	Mode           string       `json:"mode" yaml:"mode"`
	DocumentID     string       `json:"document_id,omitempty" yaml:"document_id,omitempty"`
	PageCount      int          `json:"page_count" yaml:"page_count"`
	PlacementCount int          `json:"placement_count" yaml:"placement_count"`
	Pages          []ReportPage `json:"pages" yaml:"pages"`
	Warnings       []string     `json:"warnings" yaml:"warnings"`
}

// ReportPage describes a single page in the report. Sizes are in millimetres.
type ReportPage struct {
	PageNumber int               `json:"page_number" yaml:"page_number"`
	WidthMM    float64           `json:"width_mm" yaml:"width_mm"`
	HeightMM   float64           `json:"height_mm" yaml:"height_mm"`
	Placements []ReportPlacement `json:"placements" yaml:"placements"`
}

// ReportPlacement describes a single image placement in the report.
type ReportPlacement struct {
	Asset        string  `json:"asset" yaml:"asset"`
	XMM          float64 `json:"x_mm" yaml:"x_mm"`
	YMM          float64 `json:"y_mm" yaml:"y_mm"`
	WidthMM      float64 `json:"width_mm" yaml:"width_mm"`
	HeightMM     float64 `json:"height_mm" yaml:"height_mm"`
	Rotation     int     `json:"rotation" yaml:"rotation"`
	EffectiveDPI float64 `json:"effective_dpi" yaml:"effective_dpi"`
	LowRes       bool    `json:"low_res" yaml:"low_res"`
	Degraded     bool    `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

// NewReport builds the report for lay and adds low resolution warnings.
func NewReport(lay *Layout) *Report {
	report := &Report{
		Mode:           lay.Mode.String(),
		PageCount:      len(lay.Pages),
		PlacementCount: len(lay.Placements),
		Warnings:       append([]string{}, lay.Warnings...),
	}

	for _, page := range lay.Pages {
		rp := ReportPage{
			PageNumber: page.Index + 1,
			WidthMM:    round2(units.PtToMM(page.Width)),
			HeightMM:   round2(units.PtToMM(page.Height)),
		}
		for _, p := range lay.PagePlacements(page.Index) {
			a, _ := lay.Asset(p.AssetID)
			dpi := EffectiveDPI(a, p)
			rp.Placements = append(rp.Placements, ReportPlacement{
				Asset:        p.AssetID,
				XMM:          round2(units.PtToMM(p.X)),
				YMM:          round2(units.PtToMM(p.Y)),
				WidthMM:      round2(units.PtToMM(p.Width)),
				HeightMM:     round2(units.PtToMM(p.Height)),
				Rotation:     p.Rotation,
				EffectiveDPI: round2(dpi),
				LowRes:       dpi > 0 && dpi < lowResDPIThreshold,
				Degraded:     a.Degraded,
			})
		}
		report.Pages = append(report.Pages, rp)
	}

	addDPIWarnings(report)
	return report
}

// EffectiveDPI returns the print resolution of a placement: source pixels per
// inch along the image's width after rotation.
func EffectiveDPI(a Asset, p Placement) float64 {
	if p.Width <= 0 || a.PixelWidth <= 0 {
		return 0
	}
	px := a.PixelWidth
	if p.Rotation%180 != 0 {
		px = a.PixelHeight
	}
	return float64(px) / (p.Width / 72)
}

func addDPIWarnings(report *Report) {
	seen := make(map[string]bool)
	for _, rp := range report.Pages {
		for _, p := range rp.Placements {
			if !p.LowRes || seen[p.Asset] {
				continue
			}
			seen[p.Asset] = true
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("Page %d (%s): effective DPI %.0f is below %d",
					rp.PageNumber, p.Asset, p.EffectiveDPI, int(lowResDPIThreshold)))
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
