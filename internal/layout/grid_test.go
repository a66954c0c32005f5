package layout

import (
	"math"
	"testing"

	"github.com/kozaktomas/collage-pdf/internal/units"
)

func TestCollageGrid(t *testing.T) {
	tests := []struct {
		name string
		n    int
		w, h float64
		want Grid
	}{
		{"single", 1, 100, 100, Grid{1, 1}},
		{"two", 2, 100, 100, Grid{2, 1}},
		{"three", 3, 100, 100, Grid{2, 2}},
		{"four", 4, 100, 500, Grid{2, 2}},
		{"five on letter", 5, units.MMToPt(190), units.MMToPt(257), Grid{2, 3}},
		{"five wide", 5, 400, 100, Grid{5, 1}},
		{"nine square", 9, 100, 100, Grid{3, 3}},
		{"twelve landscape", 12, 300, 200, Grid{5, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CollageGrid(tt.n, tt.w, tt.h)
			if got != tt.want {
				t.Errorf("CollageGrid(%d, %v, %v) = %+v, want %+v", tt.n, tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestCollageGrid_AlwaysHoldsAllImages(t *testing.T) {
	containers := [][2]float64{{100, 100}, {555, 735}, {735, 555}, {1000, 50}, {50, 1000}}
	for _, c := range containers {
		for n := 1; n <= 100; n++ {
			g := CollageGrid(n, c[0], c[1])
			if g.Capacity() < n {
				t.Errorf("CollageGrid(%d, %v, %v) = %+v holds only %d", n, c[0], c[1], g, g.Capacity())
			}
			if n > 4 && g.Capacity()-n >= g.Cols {
				t.Errorf("CollageGrid(%d, %v, %v) = %+v leaves an empty row", n, c[0], c[1], g)
			}
		}
	}
	if g := CollageGrid(0, 100, 100); g.Capacity() != 0 {
		t.Errorf("CollageGrid(0) = %+v, want empty grid", g)
	}
}

func TestRepeatCount(t *testing.T) {
	tests := []struct {
		usable, item, spacing float64
		want                  int
	}{
		{190, 50, 1, 3},
		{257, 50, 1, 5},
		{101, 50, 1, 2},
		{49, 50, 1, 0},
		{100, 0, 1, 0},
		{100, 1, math.Inf(1), 0},
		{100, math.NaN(), 0, 0},
		{1e6, 1e-300, 0, math.MaxInt32},
		{units.MMToPt(101), units.MMToPt(50), units.MMToPt(1), 2},
	}
	for _, tt := range tests {
		if got := RepeatCount(tt.usable, tt.item, tt.spacing); got != tt.want {
			t.Errorf("RepeatCount(%v, %v, %v) = %d, want %d", tt.usable, tt.item, tt.spacing, got, tt.want)
		}
	}
}

func TestGridCells(t *testing.T) {
	cells, err := Grid{Cols: 2, Rows: 2}.Cells(Rect{X: 0, Y: 0, W: 100, H: 100}, 10, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []Rect{
		{X: 0, Y: 55, W: 45, H: 45},
		{X: 55, Y: 55, W: 45, H: 45},
		{X: 0, Y: 0, W: 45, H: 45},
		{X: 55, Y: 0, W: 45, H: 45},
	}
	if len(cells) != len(want) {
		t.Fatalf("got %d cells, want %d", len(cells), len(want))
	}
	for i := range want {
		if math.Abs(cells[i].X-want[i].X) > eps || math.Abs(cells[i].Y-want[i].Y) > eps ||
			math.Abs(cells[i].W-want[i].W) > eps || math.Abs(cells[i].H-want[i].H) > eps {
			t.Errorf("cell %d = %+v, want %+v", i, cells[i], want[i])
		}
	}
}

func TestGridCells_TooFine(t *testing.T) {
	_, err := Grid{Cols: 20, Rows: 1}.Cells(Rect{W: 100, H: 100}, 10, 20)
	if err == nil {
		t.Fatal("expected does-not-fit error")
	}
	_, err = Grid{Cols: 0, Rows: 3}.Cells(Rect{W: 100, H: 100}, 0, 3)
	if err == nil {
		t.Fatal("expected configuration error for empty grid")
	}
}

func TestGridCells_AllocatesRequestedOnly(t *testing.T) {
	cells, err := Grid{Cols: 1000, Rows: 1000}.Cells(Rect{W: 1000, H: 1000}, 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 3 || cap(cells) != 3 {
		t.Fatalf("got len %d cap %d, want 3 cells", len(cells), cap(cells))
	}
	if cells[2].X != 2 || cells[2].Y != 999 {
		t.Errorf("third cell = %+v, want x 2 y 999", cells[2])
	}
}

func TestGridCheckLimit(t *testing.T) {
	tests := []struct {
		grid    Grid
		wantErr bool
	}{
		{Grid{Cols: 10, Rows: 10}, false},
		{Grid{Cols: 100, Rows: 51}, true},
		{Grid{Cols: 1 << 20, Rows: 1}, true},
		{Grid{Cols: 1 << 40, Rows: 1 << 40}, true},
	}
	for _, tt := range tests {
		err := tt.grid.checkLimit(5000)
		if (err != nil) != tt.wantErr {
			t.Errorf("checkLimit(%+v) = %v, wantErr %v", tt.grid, err, tt.wantErr)
		}
	}
}
