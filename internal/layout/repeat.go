package layout

import "github.com/kozaktomas/collage-pdf/internal/units"

// planRepeat tiles the first asset across one page (or the top half of it).
//
// With a physical size every tile has that size and the grid holds as many
// tiles as fit, anchored at the top-left margin unless Center is set. Without
// a size the explicit Cols x Rows grid splits the drawable area and the image
// is fitted into every cell.
func planRepeat(req Request) (*Layout, error) {
	p := req.Repeat
	asset := req.Assets[0]
	lay := newSinglePageLayout(req)
	if len(req.Assets) > 1 {
		lay.warnf("repeat mode uses one image; %d extra image(s) ignored", len(req.Assets)-1)
	}

	extra, err := normalizeRotation(p.Rotation)
	if err != nil {
		return nil, err
	}
	rotation := (asset.Rotation + extra) % 360
	ratio := rotatedRatio(asset.PixelWidth, asset.PixelHeight, rotation)

	area := req.Page.Drawable()
	spacing := req.Page.Spacing()

	if p.WidthMM <= 0 && p.HeightMM <= 0 {
		if p.Cols <= 0 || p.Rows <= 0 {
			return nil, configError("repeat", "either an image size or a grid of columns and rows is required")
		}
		grid := Grid{Cols: p.Cols, Rows: p.Rows}
		if err := grid.checkLimit(req.placementLimit()); err != nil {
			return nil, err
		}
		cells, err := grid.Cells(area, spacing, grid.Capacity())
		if err != nil {
			return nil, err
		}
		for _, cell := range cells {
			r, err := FitInto(cell, ratio)
			if err != nil {
				return nil, err
			}
			lay.Placements = append(lay.Placements, placementAt(asset.ID, 0, r, rotation))
		}
		return lay, nil
	}

	if !finite(p.WidthMM) || !finite(p.HeightMM) {
		return nil, configError("repeat", "image size must be a finite number")
	}
	if p.WidthMM < 0 || p.HeightMM < 0 {
		return nil, configError("repeat", "image size must not be negative")
	}
	if ratio <= 0 {
		return nil, configError("repeat", "image %q has no size", asset.ID)
	}

	var itemW, itemH float64
	if p.WidthMM > 0 {
		itemW = units.MMToPt(p.WidthMM)
		itemH = itemW / ratio
	} else {
		itemH = units.MMToPt(p.HeightMM)
		itemW = itemH * ratio
	}

	cols := RepeatCount(area.W, itemW, spacing)
	rows := RepeatCount(area.H, itemH, spacing)
	if cols == 0 || rows == 0 {
		return nil, doesNotFit("repeat", "a %.1fx%.1fmm image does not fit in the %.1fx%.1fmm drawable area",
			units.PtToMM(itemW), units.PtToMM(itemH), units.PtToMM(area.W), units.PtToMM(area.H))
	}
	if p.Cols > 0 && p.Cols < cols {
		cols = p.Cols
	}
	if p.Rows > 0 && p.Rows < rows {
		rows = p.Rows
	}
	if err := (Grid{Cols: cols, Rows: rows}).checkLimit(req.placementLimit()); err != nil {
		return nil, err
	}

	var offX, offY float64
	if p.Center {
		offX = (area.W - (float64(cols)*itemW + float64(cols-1)*spacing)) / 2
		offY = (area.H - (float64(rows)*itemH + float64(rows-1)*spacing)) / 2
	}

	for row := range rows {
		for col := range cols {
			r := Rect{
				X: area.X + offX + float64(col)*(itemW+spacing),
				Y: area.Top() - offY - float64(row)*(itemH+spacing) - itemH,
				W: itemW,
				H: itemH,
			}
			lay.Placements = append(lay.Placements, placementAt(asset.ID, 0, r, rotation))
		}
	}
	return lay, nil
}

func placementAt(assetID string, page int, r Rect, rotation int) Placement {
	return Placement{
		AssetID:  assetID,
		Page:     page,
		X:        r.X,
		Y:        r.Y,
		Width:    r.W,
		Height:   r.H,
		Rotation: rotation,
	}
}

func newSinglePageLayout(req Request) *Layout {
	w, h := req.Page.Size()
	return &Layout{
		Mode:   req.Mode,
		Pages:  []Page{{Index: 0, Width: w, Height: h, Drawable: req.Page.Drawable()}},
		Assets: req.Assets,
	}
}
