package layout

// normalizeRotation maps any multiple of 90 degrees into [0, 360).
func normalizeRotation(deg int) (int, error) {
	r := ((deg % 360) + 360) % 360
	if r%90 != 0 {
		return 0, configError("rotation", "rotation must be a multiple of 90 degrees (got %d)", deg)
	}
	return r, nil
}

// isPortrait and isLandscape classify an aspect ratio. Squares are neither.
func isPortrait(ratio float64) bool  { return ratio < 1 }
func isLandscape(ratio float64) bool { return ratio > 1 }
