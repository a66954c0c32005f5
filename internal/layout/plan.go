package layout

import (
	"fmt"
	"log/slog"
	"slices"
)

type planFunc func(Request) (*Layout, error)

var planners = map[Mode]planFunc{
	ModeRepeat:     planRepeat,
	ModeCollage:    planCollage,
	ModeSymmetric:  planSymmetric,
	ModeFreeform:   planFreeform,
	ModeOnePerPage: planOnePerPage,
}

// Plan computes the placements for req. The same request always yields the
// same layout. Warnings cover dropped images, skipped cells and assets whose
// size is a probe fallback.
func Plan(req Request) (*Layout, error) {
	planner, ok := planners[req.Mode]
	if !ok {
		return nil, configError("plan", "unknown mode %s", req.Mode)
	}
	if err := req.Page.validate(); err != nil {
		return nil, err
	}
	if len(req.Assets) == 0 {
		return nil, noInput("plan", "at least one image is required")
	}
	req.Assets = slices.Clone(req.Assets)
	if err := validateAssets(req.Assets); err != nil {
		return nil, err
	}

	lay, err := planner(req)
	if err != nil {
		return nil, err
	}
	if limit := req.placementLimit(); len(lay.Placements) > limit {
		return nil, doesNotFit("plan", "%d placements exceed the limit of %d", len(lay.Placements), limit)
	}

	for _, f := range Validate(lay) {
		if f.Severity == SeverityError {
			return nil, doesNotFit("plan", "page %d: %s", f.PageNumber, f.Message)
		}
		lay.warnf("page %d: %s", f.PageNumber, f.Message)
	}
	for _, a := range req.Assets {
		if a.Degraded {
			lay.warnf("size of %q could not be read; assumed %dx%d", a.ID, a.PixelWidth, a.PixelHeight)
		}
	}
	for _, w := range lay.Warnings {
		slog.Warn("layout warning", "mode", req.Mode.String(), "warning", w)
	}
	return lay, nil
}

func validateAssets(assets []Asset) error {
	seen := make(map[string]struct{}, len(assets))
	for i := range assets {
		a := &assets[i]
		if a.ID == "" {
			return configError("plan", "image %d has no name", i+1)
		}
		if _, dup := seen[a.ID]; dup {
			return configError("plan", "duplicate image name %q", a.ID)
		}
		seen[a.ID] = struct{}{}
		if a.PixelWidth <= 0 || a.PixelHeight <= 0 {
			return configError("plan", "image %q has invalid size %dx%d", a.ID, a.PixelWidth, a.PixelHeight)
		}
		r, err := normalizeRotation(a.Rotation)
		if err != nil {
			return fmt.Errorf("image %q: %w", a.ID, err)
		}
		a.Rotation = r
	}
	return nil
}
