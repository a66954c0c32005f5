package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kozaktomas/collage-pdf/internal/config"
	"github.com/kozaktomas/collage-pdf/internal/layout"
	"github.com/kozaktomas/collage-pdf/internal/units"
)

// maxInteger bounds integer settings such as grid sizes and rotations.
const maxInteger = math.MaxInt32

// parseNumber parses a finite float. NaN and infinities are rejected.
func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}

// parseInteger parses a whole number within maxInteger.
func parseInteger(s string) (int, error) {
	f, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s is not a whole number", s)
	}
	if math.Abs(f) > maxInteger {
		return 0, fmt.Errorf("%s is out of range", s)
	}
	return int(f), nil
}

// numericText returns the text of a JSON number or numeric string. An empty
// string yields "".
func numericText(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// number accepts both JSON numbers and numeric strings, which is what HTML
// forms tend to send.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	s, err := numericText(b)
	if err != nil || s == "" {
		return err
	}
	f, err := parseNumber(s)
	if err != nil {
		return err
	}
	*n = number(f)
	return nil
}

func (n *number) float() float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

// integer is a number that must be whole.
type integer int

func (n *integer) UnmarshalJSON(b []byte) error {
	s, err := numericText(b)
	if err != nil || s == "" {
		return err
	}
	v, err := parseInteger(s)
	if err != nil {
		return err
	}
	*n = integer(v)
	return nil
}

func (n *integer) int() int {
	if n == nil {
		return 0
	}
	return int(*n)
}

type pageSettings struct {
	PageSize    string   `json:"pageSize"`
	Orientation string   `json:"orientation"`
	Margin      *number  `json:"margin"`
	Spacing     *number  `json:"spacing"`
	UseHalfPage bool     `json:"useHalfPage"`
	BaseCols    *integer `json:"baseCols"`
	BaseRows    *integer `json:"baseRows"`
}

type imageSettings struct {
	WidthMM  *number  `json:"widthMM"`
	HeightMM *number  `json:"heightMM"`
	Rotation *integer `json:"rotation"`
}

type gridSettings struct {
	Spacing *number  `json:"spacing"`
	Cols    *integer `json:"cols"`
	Rows    *integer `json:"rows"`
}

type cellImage struct {
	Name     string   `json:"name"`
	Rotation *integer `json:"rotation"`
}

type cellSettings struct {
	Col       *integer   `json:"col"`
	Row       *integer   `json:"row"`
	ColSpan   *integer   `json:"colSpan"`
	RowSpan   *integer   `json:"rowSpan"`
	Image     *cellImage `json:"image"`
	ImageName string     `json:"imageName"`
	Rotation  *integer   `json:"rotation"`
}

type templatePage struct {
	BaseCols *integer       `json:"baseCols"`
	BaseRows *integer       `json:"baseRows"`
	Cells    []cellSettings `json:"cells"`
}

// configDocument is the JSON configuration of every mode. Each mode reads
// the fields it knows and ignores the rest.
type configDocument struct {
	PageSettings pageSettings `json:"pageSettings"`

	Image  *imageSettings `json:"image"`
	Grid   gridSettings   `json:"grid"`
	Anchor string         `json:"anchor"`

	ImagesPerRow     *integer `json:"imagesPerRow"`
	RowsPerPage      *integer `json:"rowsPerPage"`
	ForceOrientation string   `json:"forceOrientation"`

	Pages []templatePage `json:"pages"`
	Cells []cellSettings `json:"cells"`

	Fit string `json:"fit"`
}

// Settings is a decoded configuration with every default applied.
type Settings struct {
	Page       layout.PageSpec
	Repeat     layout.RepeatParams
	Symmetric  layout.SymmetricParams
	Freeform   layout.FreeformParams
	OnePerPage layout.OnePerPageParams
}

func settingsError(format string, args ...any) error {
	return layout.NewError(layout.ErrConfiguration, "config", fmt.Errorf(format, args...))
}

// DecodeSettings parses a JSON configuration for mode, applies plain form
// overrides on top and fills missing values from defaults.
func DecodeSettings(mode layout.Mode, raw []byte, overrides map[string]string, defaults config.ModeDefaults) (Settings, error) {
	var doc configDocument
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return Settings{}, settingsError("invalid configuration JSON: %v", err)
		}
	}
	if err := applyOverrides(&doc, overrides); err != nil {
		return Settings{}, err
	}

	var s Settings
	var err error
	if s.Page, err = decodePage(mode, doc, defaults); err != nil {
		return Settings{}, err
	}

	switch mode {
	case layout.ModeRepeat:
		s.Repeat, err = decodeRepeat(doc, defaults)
	case layout.ModeSymmetric:
		s.Symmetric, err = decodeSymmetric(doc, defaults)
	case layout.ModeFreeform:
		s.Freeform = decodeFreeform(doc)
	case layout.ModeOnePerPage:
		s.OnePerPage, err = decodeOnePerPage(doc)
	}
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}

func decodePage(mode layout.Mode, doc configDocument, defaults config.ModeDefaults) (layout.PageSpec, error) {
	ps := doc.PageSettings
	paper, err := units.ParsePaper(ps.PageSize)
	if err != nil {
		return layout.PageSpec{}, settingsError("%v", err)
	}
	portrait, err := units.ParseOrientation(ps.Orientation)
	if err != nil {
		return layout.PageSpec{}, settingsError("%v", err)
	}

	spec := layout.PageSpec{
		Paper:     paper,
		Portrait:  portrait,
		MarginMM:  defaults.MarginMM,
		SpacingMM: defaults.SpacingMM,
		HalfPage:  ps.UseHalfPage,
	}
	if ps.Margin != nil {
		spec.MarginMM = ps.Margin.float()
	}
	switch {
	case ps.Spacing != nil:
		spec.SpacingMM = ps.Spacing.float()
	case mode == layout.ModeRepeat && doc.Grid.Spacing != nil:
		spec.SpacingMM = doc.Grid.Spacing.float()
	}
	return spec, nil
}

func decodeRepeat(doc configDocument, defaults config.ModeDefaults) (layout.RepeatParams, error) {
	var p layout.RepeatParams
	if doc.Image != nil {
		p.WidthMM = doc.Image.WidthMM.float()
		p.HeightMM = doc.Image.HeightMM.float()
		p.Rotation = doc.Image.Rotation.int()
	}
	p.Cols = doc.Grid.Cols.int()
	p.Rows = doc.Grid.Rows.int()

	if p.WidthMM <= 0 && p.HeightMM <= 0 && (p.Cols <= 0 || p.Rows <= 0) {
		p.WidthMM = defaults.ImageWidthMM
	}

	switch strings.ToLower(strings.TrimSpace(doc.Anchor)) {
	case "", "margin":
	case "center", "centre":
		p.Center = true
	default:
		return p, settingsError("unknown anchor %q", doc.Anchor)
	}
	return p, nil
}

func decodeSymmetric(doc configDocument, defaults config.ModeDefaults) (layout.SymmetricParams, error) {
	p := layout.SymmetricParams{
		ImagesPerRow: defaults.ImagesPerRow,
		RowsPerPage:  doc.RowsPerPage.int(),
	}
	if p.ImagesPerRow <= 0 {
		p.ImagesPerRow = 2
	}
	if doc.ImagesPerRow != nil {
		p.ImagesPerRow = doc.ImagesPerRow.int()
	}
	policy, err := layout.ParseOrientationPolicy(doc.ForceOrientation)
	if err != nil {
		return p, err
	}
	p.Orientation = policy
	return p, nil
}

func decodeFreeform(doc configDocument) layout.FreeformParams {
	var p layout.FreeformParams
	pages := doc.Pages
	if len(pages) == 0 && len(doc.Cells) > 0 {
		// single page editor form: the base grid lives in pageSettings
		pages = []templatePage{{
			BaseCols: doc.PageSettings.BaseCols,
			BaseRows: doc.PageSettings.BaseRows,
			Cells:    doc.Cells,
		}}
	}
	for _, tp := range pages {
		page := layout.FreeformPage{BaseCols: tp.BaseCols.int(), BaseRows: tp.BaseRows.int()}
		for _, c := range tp.Cells {
			cell := layout.Cell{
				Col:      c.Col.int(),
				Row:      c.Row.int(),
				ColSpan:  c.ColSpan.int(),
				RowSpan:  c.RowSpan.int(),
				Image:    c.ImageName,
				Rotation: c.Rotation.int(),
			}
			if c.Image != nil {
				cell.Image = c.Image.Name
				if c.Image.Rotation != nil {
					cell.Rotation = c.Image.Rotation.int()
				}
			}
			page.Cells = append(page.Cells, cell)
		}
		p.Pages = append(p.Pages, page)
	}
	return p
}

func decodeOnePerPage(doc configDocument) (layout.OnePerPageParams, error) {
	switch strings.ToLower(strings.TrimSpace(doc.Fit)) {
	case "", "rotate":
		return layout.OnePerPageParams{}, nil
	case "page":
		return layout.OnePerPageParams{SwitchPageOrientation: true}, nil
	}
	return layout.OnePerPageParams{}, settingsError("unknown fit %q", doc.Fit)
}

// applyOverrides copies plain form fields over the JSON document.
func applyOverrides(doc *configDocument, overrides map[string]string) error {
	num := func(key string) (*number, error) {
		v := strings.TrimSpace(overrides[key])
		if v == "" {
			return nil, nil
		}
		f, err := parseNumber(v)
		if err != nil {
			return nil, settingsError("%s must be a number (got %q)", key, v)
		}
		n := number(f)
		return &n, nil
	}
	whole := func(key string) (*integer, error) {
		v := strings.TrimSpace(overrides[key])
		if v == "" {
			return nil, nil
		}
		i, err := parseInteger(v)
		if err != nil {
			return nil, settingsError("%s must be a whole number (got %q)", key, v)
		}
		n := integer(i)
		return &n, nil
	}
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(overrides[key]); v != "" {
			*dst = v
		}
	}

	targets := []struct {
		key string
		dst **number
	}{
		{"margin", &doc.PageSettings.Margin},
		{"spacing", &doc.PageSettings.Spacing},
	}
	for _, t := range targets {
		n, err := num(t.key)
		if err != nil {
			return err
		}
		if n != nil {
			*t.dst = n
		}
	}
	counts := []struct {
		key string
		dst **integer
	}{
		{"imagesPerRow", &doc.ImagesPerRow},
		{"rowsPerPage", &doc.RowsPerPage},
	}
	for _, c := range counts {
		n, err := whole(c.key)
		if err != nil {
			return err
		}
		if n != nil {
			*c.dst = n
		}
	}

	width, err := num("imageWidth")
	if err != nil {
		return err
	}
	if width != nil {
		if doc.Image == nil {
			doc.Image = &imageSettings{}
		}
		doc.Image.WidthMM = width
	}

	str("orientation", &doc.PageSettings.Orientation)
	str("pageSize", &doc.PageSettings.PageSize)
	str("forceOrientation", &doc.ForceOrientation)
	str("anchor", &doc.Anchor)
	str("fit", &doc.Fit)

	if v := strings.TrimSpace(overrides["useHalfPage"]); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return settingsError("useHalfPage must be true or false (got %q)", v)
		}
		doc.PageSettings.UseHalfPage = b
	}
	return nil
}
