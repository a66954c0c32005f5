package layout

import "fmt"

// planFreeform places cells of a user template. Each template page splits the
// drawable area into BaseCols x BaseRows unit cells; a cell anchored at
// (Col, Row) spans ColSpan x RowSpan units including the spacing between them.
// Cells naming an unknown image are skipped and so are pages left empty.
func planFreeform(req Request) (*Layout, error) {
	if len(req.Freeform.Pages) == 0 {
		return nil, configError("freeform", "at least one page is required")
	}

	byID := make(map[string]Asset, len(req.Assets))
	for _, a := range req.Assets {
		byID[a.ID] = a
	}

	w, h := req.Page.Size()
	area := req.Page.Drawable()
	spacing := req.Page.Spacing()
	lay := &Layout{Mode: req.Mode, Assets: req.Assets}

	for pi, page := range req.Freeform.Pages {
		if page.BaseCols <= 0 || page.BaseRows <= 0 {
			return nil, configError("freeform", "page %d: base grid must be positive (got %dx%d)", pi+1, page.BaseCols, page.BaseRows)
		}
		unitW := CellSize(area.W, page.BaseCols, spacing)
		unitH := CellSize(area.H, page.BaseRows, spacing)
		if unitW <= 0 || unitH <= 0 {
			return nil, doesNotFit("freeform", "page %d: %dx%d grid leaves no room for images", pi+1, page.BaseCols, page.BaseRows)
		}

		index := len(lay.Pages)
		var placed []Placement
		for ci, cell := range page.Cells {
			colSpan := max(cell.ColSpan, 1)
			rowSpan := max(cell.RowSpan, 1)
			if cell.Col < 0 || cell.Row < 0 || cell.Col+colSpan > page.BaseCols || cell.Row+rowSpan > page.BaseRows {
				return nil, configError("freeform", "page %d cell %d: span %d,%d+%dx%d is outside the %dx%d grid",
					pi+1, ci+1, cell.Col, cell.Row, colSpan, rowSpan, page.BaseCols, page.BaseRows)
			}

			a, ok := byID[cell.Image]
			if !ok {
				lay.warnf("page %d cell %d: image %q not found, cell skipped", pi+1, ci+1, cell.Image)
				continue
			}
			if a.Degraded {
				return nil, NewError(ErrAssetDecode, "freeform",
					fmt.Errorf("image %q could not be read, exact fitting is impossible", a.ID))
			}

			extra, err := normalizeRotation(cell.Rotation)
			if err != nil {
				return nil, err
			}
			rotation := (a.Rotation + extra) % 360

			cw := float64(colSpan)*unitW + float64(colSpan-1)*spacing
			ch := float64(rowSpan)*unitH + float64(rowSpan-1)*spacing
			box := Rect{
				X: area.X + float64(cell.Col)*(unitW+spacing),
				Y: area.Top() - float64(cell.Row)*(unitH+spacing) - ch,
				W: cw,
				H: ch,
			}
			r, err := FitInto(box, rotatedRatio(a.PixelWidth, a.PixelHeight, rotation))
			if err != nil {
				return nil, err
			}
			placed = append(placed, placementAt(a.ID, index, r, rotation))
		}

		if len(placed) == 0 {
			lay.warnf("page %d has no images, skipped", pi+1)
			continue
		}
		lay.Pages = append(lay.Pages, Page{Index: index, Width: w, Height: h, Drawable: area})
		lay.Placements = append(lay.Placements, placed...)
	}

	if len(lay.Pages) == 0 {
		return nil, noInput("freeform", "no cell references an uploaded image")
	}
	return lay, nil
}
