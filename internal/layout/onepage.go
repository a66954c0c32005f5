package layout

// planOnePerPage puts each asset on its own page, fitted to the drawable
// area. When the image and the drawable area disagree in orientation either
// the image is turned 90 degrees or, with SwitchPageOrientation, the page is.
func planOnePerPage(req Request) (*Layout, error) {
	lay := &Layout{Mode: req.Mode, Assets: req.Assets}

	for i, a := range req.Assets {
		spec := req.Page
		rotation := a.Rotation
		ratio := a.Ratio()

		area := spec.Drawable()
		areaLandscape := area.W > area.H
		mismatch := (isLandscape(ratio) && !areaLandscape) || (isPortrait(ratio) && areaLandscape)
		if mismatch {
			if req.OnePerPage.SwitchPageOrientation {
				spec.Portrait = !spec.Portrait
				area = spec.Drawable()
			} else {
				rotation = (rotation + 90) % 360
				ratio = 1 / ratio
			}
		}

		r, err := FitInto(area, ratio)
		if err != nil {
			return nil, err
		}
		w, h := spec.Size()
		lay.Pages = append(lay.Pages, Page{Index: i, Width: w, Height: h, Drawable: area})
		lay.Placements = append(lay.Placements, placementAt(a.ID, i, r, rotation))
	}
	return lay, nil
}
