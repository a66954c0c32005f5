// Package layout computes where every image goes on which page.
//
// Planning is pure: a Request goes in, a Layout with placements in PDF points
// (bottom-left origin) comes out. Rendering is a separate pass.
package layout

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kozaktomas/collage-pdf/internal/units"
)

// Mode selects a placement strategy.
type Mode int

const (
	ModeRepeat Mode = iota
	ModeCollage
	ModeSymmetric
	ModeFreeform
	ModeOnePerPage
)

// Modes lists every supported mode in a stable order.
var Modes = []Mode{ModeRepeat, ModeCollage, ModeSymmetric, ModeFreeform, ModeOnePerPage}

var modeNames = map[Mode]string{
	ModeRepeat:     "repeat",
	ModeCollage:    "collage",
	ModeSymmetric:  "symmetric",
	ModeFreeform:   "freeform",
	ModeOnePerPage: "one-per-page",
}

var modeAliases = map[string]Mode{
	"repeat":              ModeRepeat,
	"repetidor":           ModeRepeat,
	"auto-repetidor":      ModeRepeat,
	"repetidor-simetrico": ModeRepeat,
	"pattern":             ModeRepeat,
	"collage":             ModeCollage,
	"symmetric":           ModeSymmetric,
	"simetrico":           ModeSymmetric,
	"freeform":            ModeFreeform,
	"layout":              ModeFreeform,
	"plantilla":           ModeFreeform,
	"one-per-page":        ModeOnePerPage,
	"multi-pagina":        ModeOnePerPage,
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Aliases returns the alternative names accepted for m, sorted.
func (m Mode) Aliases() []string {
	var out []string
	for name, mode := range modeAliases {
		if mode == m && name != m.String() {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// ParseMode resolves a mode name or one of its aliases.
func ParseMode(name string) (Mode, error) {
	if m, ok := modeAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m, nil
	}
	return 0, configError("parse mode", "unknown mode %q", name)
}

// Rect is an axis-aligned rectangle in points with a bottom-left origin.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Top returns the y coordinate of the upper edge.
func (r Rect) Top() float64 { return r.Y + r.H }

// PageSpec describes the paper and the margins shared by every page of a document.
type PageSpec struct {
	Paper     units.Paper
	Portrait  bool
	MarginMM  float64
	SpacingMM float64
	HalfPage  bool
}

// Size returns the page dimensions in points.
func (p PageSpec) Size() (float64, float64) {
	return p.Paper.Size(p.Portrait)
}

// Margin returns the margin in points.
func (p PageSpec) Margin() float64 { return units.MMToPt(p.MarginMM) }

// Spacing returns the gap between cells in points.
func (p PageSpec) Spacing() float64 { return units.MMToPt(p.SpacingMM) }

// Drawable returns the usable area of the page: the page minus the margin on
// every side. A half page keeps only the upper half of that area.
func (p PageSpec) Drawable() Rect {
	w, h := p.Size()
	m := p.Margin()
	dw := w - 2*m
	dh := h - 2*m
	if p.HalfPage {
		dh /= 2
	}
	return Rect{X: m, Y: h - m - dh, W: dw, H: dh}
}

func (p PageSpec) validate() error {
	if !finite(p.MarginMM) || !finite(p.SpacingMM) {
		return configError("page", "margin and spacing must be finite numbers (got %g, %g)", p.MarginMM, p.SpacingMM)
	}
	if p.MarginMM < 0 {
		return configError("page", "margin must not be negative (got %g)", p.MarginMM)
	}
	if p.SpacingMM < 0 {
		return configError("page", "spacing must not be negative (got %g)", p.SpacingMM)
	}
	if !p.Paper.Valid() {
		return configError("page", "unknown page size %s", p.Paper)
	}
	d := p.Drawable()
	if d.W <= 0 || d.H <= 0 {
		return doesNotFit("page", "margin %gmm leaves no drawable area", p.MarginMM)
	}
	return nil
}

// Asset is one input image with its intrinsic pixel size.
type Asset struct {
	ID          string
	PixelWidth  int
	PixelHeight int
	Rotation    int // clockwise degrees applied before layout: 0, 90, 180 or 270
	Format      string
	Degraded    bool // size is a probe fallback, not read from the image
	Data        []byte
}

// Ratio returns width/height after the asset's own rotation.
func (a Asset) Ratio() float64 {
	return rotatedRatio(a.PixelWidth, a.PixelHeight, a.Rotation)
}

func rotatedRatio(w, h, rotation int) float64 {
	if h <= 0 || w <= 0 {
		return 0
	}
	if rotation%180 != 0 {
		return float64(h) / float64(w)
	}
	return float64(w) / float64(h)
}

// Placement is the resolved position of one image on one page.
type Placement struct {
	AssetID  string  `json:"asset" yaml:"asset"`
	Page     int     `json:"page" yaml:"page"`
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
	Rotation int     `json:"rotation" yaml:"rotation"` // total clockwise rotation of the source pixels
}

// Rect returns the placement rectangle.
func (p Placement) Rect() Rect { return Rect{X: p.X, Y: p.Y, W: p.Width, H: p.Height} }

// Page is one output page.
type Page struct {
	Index    int     `json:"index" yaml:"index"`
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
	Drawable Rect    `json:"drawable" yaml:"drawable"`
}

// Layout is the result of planning.
type Layout struct {
	Mode       Mode        `json:"-" yaml:"-"`
	Pages      []Page      `json:"pages" yaml:"pages"`
	Placements []Placement `json:"placements" yaml:"placements"`
	Warnings   []string    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Assets     []Asset     `json:"-" yaml:"-"`
}

// Asset looks up an asset by identity.
func (l *Layout) Asset(id string) (Asset, bool) {
	for _, a := range l.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return Asset{}, false
}

// PagePlacements returns the placements of one page in plan order.
func (l *Layout) PagePlacements(page int) []Placement {
	var out []Placement
	for _, p := range l.Placements {
		if p.Page == page {
			out = append(out, p)
		}
	}
	return out
}

func (l *Layout) warnf(format string, args ...any) {
	l.Warnings = append(l.Warnings, fmt.Sprintf(format, args...))
}

// OrientationPolicy selects how Symmetric mode rotates images.
type OrientationPolicy int

const (
	OrientAuto OrientationPolicy = iota // majority vote
	OrientPortrait
	OrientLandscape
	OrientNone
)

// ParseOrientationPolicy resolves "auto", "portrait", "landscape" or "none".
func ParseOrientationPolicy(name string) (OrientationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return OrientAuto, nil
	case "portrait", "vertical":
		return OrientPortrait, nil
	case "landscape", "horizontal":
		return OrientLandscape, nil
	case "none", "off":
		return OrientNone, nil
	}
	return 0, configError("parse orientation", "unknown orientation policy %q", name)
}

// RepeatParams configures ModeRepeat. A physical size takes precedence over an
// explicit grid; with only Cols and Rows the image is fitted into each cell.
type RepeatParams struct {
	WidthMM  float64
	HeightMM float64
	Rotation int
	Cols     int
	Rows     int
	Center   bool // center the tiled block instead of anchoring it at the margin
}

// SymmetricParams configures ModeSymmetric.
type SymmetricParams struct {
	ImagesPerRow int
	RowsPerPage  int // 0 means as many rows as the images need
	Orientation  OrientationPolicy
}

// Cell is one freeform cell in grid units.
type Cell struct {
	Col      int
	Row      int
	ColSpan  int
	RowSpan  int
	Image    string
	Rotation int
}

// FreeformPage is one page of a freeform template.
type FreeformPage struct {
	BaseCols int
	BaseRows int
	Cells    []Cell
}

// FreeformParams configures ModeFreeform.
type FreeformParams struct {
	Pages []FreeformPage
}

// OnePerPageParams configures ModeOnePerPage.
type OnePerPageParams struct {
	// SwitchPageOrientation turns the page instead of the image when their
	// orientations disagree.
	SwitchPageOrientation bool
}

// Request is everything the planner needs.
type Request struct {
	Page       PageSpec
	Mode       Mode
	Assets     []Asset
	Repeat     RepeatParams
	Symmetric  SymmetricParams
	Freeform   FreeformParams
	OnePerPage OnePerPageParams

	// MaxPlacements caps grid cells and placements; zero means
	// DefaultMaxPlacements.
	MaxPlacements int
}

func (r Request) placementLimit() int {
	if r.MaxPlacements > 0 {
		return r.MaxPlacements
	}
	return DefaultMaxPlacements
}
