package layout

import (
	"testing"

	"github.com/kozaktomas/collage-pdf/internal/units"
)

const eps = 0.01

func letterPage(marginMM, spacingMM float64) PageSpec {
	return PageSpec{Paper: units.Letter, Portrait: true, MarginMM: marginMM, SpacingMM: spacingMM}
}

func asset(id string, w, h int) Asset {
	return Asset{ID: id, PixelWidth: w, PixelHeight: h, Format: "jpeg"}
}

func mustPlan(t *testing.T, req Request) *Layout {
	t.Helper()
	lay, err := Plan(req)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	return lay
}

func assertInside(t *testing.T, r, box Rect) {
	t.Helper()
	if r.X < box.X-eps || r.Y < box.Y-eps || r.X+r.W > box.X+box.W+eps || r.Y+r.H > box.Top()+eps {
		t.Errorf("rect %+v is not inside %+v", r, box)
	}
}
