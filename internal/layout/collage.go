package layout

// planCollage places every asset on a single page. One image fills the whole
// drawable area; more images share a grid picked by CollageGrid, filled in
// input order, each image centered in its cell.
func planCollage(req Request) (*Layout, error) {
	lay := newSinglePageLayout(req)
	area := req.Page.Drawable()

	if len(req.Assets) == 1 {
		a := req.Assets[0]
		r, err := FitInto(area, a.Ratio())
		if err != nil {
			return nil, err
		}
		lay.Placements = append(lay.Placements, placementAt(a.ID, 0, r, a.Rotation))
		return lay, nil
	}

	grid := CollageGrid(len(req.Assets), area.W, area.H)
	if err := grid.checkLimit(req.placementLimit()); err != nil {
		return nil, err
	}
	cells, err := grid.Cells(area, req.Page.Spacing(), len(req.Assets))
	if err != nil {
		return nil, err
	}
	for i, a := range req.Assets {
		r, err := FitInto(cells[i], a.Ratio())
		if err != nil {
			return nil, err
		}
		lay.Placements = append(lay.Placements, placementAt(a.ID, 0, r, a.Rotation))
	}
	return lay, nil
}
