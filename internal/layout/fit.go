package layout

import "math"

// Fit returns the largest width and height with the given aspect ratio that
// fit inside a cellW x cellH box.
func Fit(cellW, cellH, ratio float64) (float64, float64, error) {
	if !finite(cellW) || !finite(cellH) || !finite(ratio) {
		return 0, 0, configError("fit", "geometry must be finite (cell %gx%g, ratio %g)", cellW, cellH, ratio)
	}
	if cellW <= 0 || cellH <= 0 {
		return 0, 0, doesNotFit("fit", "cell %.2fx%.2fpt has no area", cellW, cellH)
	}
	if ratio <= 0 {
		return 0, 0, configError("fit", "invalid aspect ratio %g", ratio)
	}
	if ratio > cellW/cellH {
		return cellW, cellW / ratio, nil
	}
	return cellH * ratio, cellH, nil
}

// FitInto fits an image of the given ratio inside cell and centers it.
func FitInto(cell Rect, ratio float64) (Rect, error) {
	w, h, err := Fit(cell.W, cell.H, ratio)
	if err != nil {
		return Rect{}, err
	}
	return Rect{
		X: cell.X + (cell.W-w)/2,
		Y: cell.Y + (cell.H-h)/2,
		W: w,
		H: h,
	}, nil
}

// finite reports whether v is neither NaN nor an infinity.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
