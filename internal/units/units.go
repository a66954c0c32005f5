// Package units converts between millimetres and PDF points and knows the
// supported paper sizes.
package units

import (
	"fmt"
	"strings"
)

// MMPerPoint is the length of one PostScript point in millimetres.
const MMPerPoint = 0.352778

// MMToPt converts millimetres to points.
func MMToPt(mm float64) float64 {
	return mm / MMPerPoint
}

// PtToMM converts points to millimetres.
func PtToMM(pt float64) float64 {
	return pt * MMPerPoint
}

// Paper identifies a supported paper size.
type Paper int

const (
	Letter Paper = iota
	Legal
)

// paperSizes holds portrait dimensions in points.
var paperSizes = map[Paper][2]float64{
	Letter: {612, 792},
	Legal:  {612, 1008},
}

func (p Paper) String() string {
	switch p {
	case Letter:
		return "letter"
	case Legal:
		return "legal"
	default:
		return fmt.Sprintf("paper(%d)", int(p))
	}
}

// Valid reports whether p is a known paper size.
func (p Paper) Valid() bool {
	_, ok := paperSizes[p]
	return ok
}

// ParsePaper resolves a paper name. An empty name means Letter.
func ParsePaper(name string) (Paper, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "letter", "carta":
		return Letter, nil
	case "legal", "oficio":
		return Legal, nil
	default:
		return 0, fmt.Errorf("unknown page size %q", name)
	}
}

// Size returns the page width and height in points. Landscape swaps the two.
func (p Paper) Size(portrait bool) (width, height float64) {
	dims, ok := paperSizes[p]
	if !ok {
		dims = paperSizes[Letter]
	}
	if portrait {
		return dims[0], dims[1]
	}
	return dims[1], dims[0]
}

// ParseOrientation reports whether name selects portrait orientation.
// An empty name means portrait.
func ParseOrientation(name string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "portrait", "vertical", "p":
		return true, nil
	case "landscape", "horizontal", "l":
		return false, nil
	default:
		return false, fmt.Errorf("unknown orientation %q", name)
	}
}
