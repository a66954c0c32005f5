package layout

// planSymmetric fills a fixed ImagesPerRow x RowsPerPage grid on one page.
// Images beyond the grid capacity are dropped with a warning. Unless the
// policy is OrientNone, images are turned 90 degrees to share one target
// orientation: the forced one, or the majority among the inputs.
func planSymmetric(req Request) (*Layout, error) {
	p := req.Symmetric
	if p.ImagesPerRow <= 0 {
		return nil, configError("symmetric", "images per row must be positive (got %d)", p.ImagesPerRow)
	}
	if p.RowsPerPage < 0 {
		return nil, configError("symmetric", "rows per page must not be negative (got %d)", p.RowsPerPage)
	}

	lay := newSinglePageLayout(req)
	rows := p.RowsPerPage
	if rows == 0 {
		rows = ceilDiv(len(req.Assets), p.ImagesPerRow)
	}
	grid := Grid{Cols: p.ImagesPerRow, Rows: rows}
	if err := grid.checkLimit(req.placementLimit()); err != nil {
		return nil, err
	}

	assets := req.Assets
	if len(assets) > grid.Capacity() {
		lay.warnf("grid %dx%d holds %d images; %d image(s) dropped",
			grid.Cols, grid.Rows, grid.Capacity(), len(assets)-grid.Capacity())
		assets = assets[:grid.Capacity()]
	}

	cells, err := grid.Cells(req.Page.Drawable(), req.Page.Spacing(), len(assets))
	if err != nil {
		return nil, err
	}

	targetPortrait, rotate := symmetricTarget(req.Assets, p.Orientation)
	for i, a := range assets {
		rotation := a.Rotation
		ratio := a.Ratio()
		if rotate && needsRotation(ratio, targetPortrait) {
			rotation = (rotation + 90) % 360
			ratio = 1 / ratio
		}
		r, err := FitInto(cells[i], ratio)
		if err != nil {
			return nil, err
		}
		lay.Placements = append(lay.Placements, placementAt(a.ID, 0, r, rotation))
	}
	return lay, nil
}

// symmetricTarget returns the target orientation and whether rotation applies.
// The majority vote counts every input image.
func symmetricTarget(assets []Asset, policy OrientationPolicy) (portrait bool, rotate bool) {
	switch policy {
	case OrientPortrait:
		return true, true
	case OrientLandscape:
		return false, true
	case OrientNone:
		return false, false
	}
	var portraits int
	for _, a := range assets {
		if isPortrait(a.Ratio()) {
			portraits++
		}
	}
	return portraits > len(assets)/2, true
}

func needsRotation(ratio float64, targetPortrait bool) bool {
	return (targetPortrait && isLandscape(ratio)) || (!targetPortrait && isPortrait(ratio))
}
