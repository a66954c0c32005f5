package layout

import "math"

// Grid is a cols x rows partition of an area.
type Grid struct {
	Cols int `json:"cols" yaml:"cols"`
	Rows int `json:"rows" yaml:"rows"`
}

// DefaultMaxPlacements bounds the grid cells and placements of one layout
// when the request sets no limit of its own.
const DefaultMaxPlacements = 5000

// Capacity returns the number of cells.
func (g Grid) Capacity() int { return g.Cols * g.Rows }

// checkLimit rejects grids holding more than limit cells. The sides are
// checked first so the product cannot overflow.
func (g Grid) checkLimit(limit int) error {
	if g.Cols > limit || g.Rows > limit || g.Capacity() > limit {
		return doesNotFit("grid", "%dx%d grid exceeds the limit of %d cells", g.Cols, g.Rows, limit)
	}
	return nil
}

// CollageGrid picks a grid for n images in a containerW x containerH area.
// Up to four images get a near-square grid. Larger counts follow the
// container's aspect, then widen while the last column would stay empty.
// The result always holds at least n cells.
func CollageGrid(n int, containerW, containerH float64) Grid {
	if n <= 0 {
		return Grid{}
	}
	if n == 1 {
		return Grid{Cols: 1, Rows: 1}
	}

	var cols int
	if n <= 4 || containerW <= 0 || containerH <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(n))))
	} else {
		cols = int(math.Ceil(math.Sqrt(float64(n) * containerW / containerH)))
	}
	cols = max(1, cols)
	rows := ceilDiv(n, cols)

	if n > 4 {
		for cols*rows-n >= cols {
			cols++
			rows = ceilDiv(n, cols)
		}
	}
	return Grid{Cols: cols, Rows: rows}
}

// RepeatCount returns how many items of size item fit in usable with spacing
// between neighbours.
// The result saturates at math.MaxInt32; callers enforce their own limit.
func RepeatCount(usable, item, spacing float64) int {
	if !(usable > 0) || !(item > 0) || !(spacing >= 0) {
		return 0
	}
	// tolerance for sizes that fit exactly after the mm to pt round trip
	n := math.Floor((usable+spacing)/(item+spacing) + 1e-9)
	if !(n >= 0) {
		return 0
	}
	return int(min(n, math.MaxInt32))
}

// CellSize returns the size of one of n equal cells sharing length with
// spacing between them.
func CellSize(length float64, n int, spacing float64) float64 {
	if n <= 0 {
		return 0
	}
	return (length - float64(n-1)*spacing) / float64(n)
}

// Cells returns the first n grid cells in row-major order starting at the
// top-left. Only those n cells are allocated.
func (g Grid) Cells(area Rect, spacing float64, n int) ([]Rect, error) {
	if g.Cols <= 0 || g.Rows <= 0 {
		return nil, configError("grid", "grid must have at least one row and column (got %dx%d)", g.Cols, g.Rows)
	}
	cellW := CellSize(area.W, g.Cols, spacing)
	cellH := CellSize(area.H, g.Rows, spacing)
	if cellW <= 0 || cellH <= 0 {
		return nil, doesNotFit("grid", "%dx%d grid with %.2fpt spacing leaves no room for images", g.Cols, g.Rows, spacing)
	}

	n = max(0, min(n, g.Capacity()))
	cells := make([]Rect, 0, n)
	for i := range n {
		row, col := i/g.Cols, i%g.Cols
		cells = append(cells, Rect{
			X: area.X + float64(col)*(cellW+spacing),
			Y: area.Top() - float64(row)*(cellH+spacing) - cellH,
			W: cellW,
			H: cellH,
		})
	}
	return cells, nil
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a-1)/b + 1
}
