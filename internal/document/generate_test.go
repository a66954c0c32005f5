package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/kozaktomas/collage-pdf/internal/config"
	"github.com/kozaktomas/collage-pdf/internal/layout"
)

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.Probe.Strict = false
	cfg.Render.Verify = true
	cfg.Render.Workers = 2
	return cfg
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 5), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func zipBytes(t *testing.T, entries map[string][]byte, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry: %v", err)
		}
		if _, err := w.Write(entries[name]); err != nil {
			t.Fatalf("writing zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

func TestGenerate_Collage(t *testing.T) {
	g := NewGenerator(testConfig())
	res, err := g.Generate(context.Background(), Input{
		Mode: layout.ModeCollage,
		Files: []File{
			{Name: "wide.png", ContentType: "image/png", Data: pngBytes(t, 60, 30)},
			{Name: "tall.png", ContentType: "image/png", Data: pngBytes(t, 30, 60)},
		},
		Title: "Vacaciones de Verano",
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !bytes.HasPrefix(res.PDF, []byte("%PDF")) {
		t.Error("result is not a PDF")
	}
	if res.Report.PageCount != 1 || res.Report.PlacementCount != 2 {
		t.Errorf("report = %d pages / %d placements, want 1 / 2", res.Report.PageCount, res.Report.PlacementCount)
	}
	if res.DocumentID == "" || res.Report.DocumentID != res.DocumentID {
		t.Errorf("document id mismatch: %q vs %q", res.DocumentID, res.Report.DocumentID)
	}
	if res.Filename != "vacaciones-de-verano.pdf" {
		t.Errorf("filename = %q", res.Filename)
	}
}

func TestGenerate_ZipArchive(t *testing.T) {
	data := zipBytes(t, map[string][]byte{
		"photos/a.png":          pngBytes(t, 40, 40),
		"photos/b.png":          pngBytes(t, 40, 20),
		"photos/notes.txt":      []byte("not an image"),
		"__MACOSX/photos/a.png": []byte("resource fork"),
	}, []string{"photos/a.png", "photos/b.png", "photos/notes.txt", "__MACOSX/photos/a.png"})

	g := NewGenerator(testConfig())
	report, err := g.Report(context.Background(), Input{
		Mode:  layout.ModeOnePerPage,
		Files: []File{{Name: "photos.zip", ContentType: "application/zip", Data: data}},
	})
	if err != nil {
		t.Fatalf("Report() error: %v", err)
	}

	if report.PageCount != 2 {
		t.Errorf("expected 2 pages, got %d", report.PageCount)
	}
	if report.Pages[0].Placements[0].Asset != "a.png" {
		t.Errorf("first asset = %q, want a.png", report.Pages[0].Placements[0].Asset)
	}
	found := false
	for _, w := range report.Warnings {
		if strings.Contains(w, "photos.zip") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning about skipped archive entries, got %v", report.Warnings)
	}
}

func TestGenerate_RejectsNonImage(t *testing.T) {
	g := NewGenerator(testConfig())
	_, err := g.Generate(context.Background(), Input{
		Mode:  layout.ModeCollage,
		Files: []File{{Name: "notes.txt", ContentType: "text/plain", Data: []byte("hello")}},
	})
	if !errors.Is(err, layout.ErrConfiguration) {
		t.Fatalf("expected a configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "only image files are allowed") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestGenerate_NoFiles(t *testing.T) {
	g := NewGenerator(testConfig())
	_, err := g.Generate(context.Background(), Input{Mode: layout.ModeCollage})
	if !errors.Is(err, layout.ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
	if layout.StatusCode(err) != 400 {
		t.Errorf("status = %d, want 400", layout.StatusCode(err))
	}
}

func TestGenerate_TooManyFiles(t *testing.T) {
	img := pngBytes(t, 10, 10)
	var files []File
	for i := range 13 {
		files = append(files, File{Name: fmt.Sprintf("%d.png", i), Data: img})
	}

	g := NewGenerator(testConfig())
	_, err := g.Generate(context.Background(), Input{Mode: layout.ModeCollage, Files: files})
	if !errors.Is(err, layout.ErrConfiguration) {
		t.Fatalf("expected a configuration error, got %v", err)
	}
}

func TestGenerate_FileTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.MaxFileSize = 64
	g := NewGenerator(cfg)
	_, err := g.Generate(context.Background(), Input{
		Mode:  layout.ModeCollage,
		Files: []File{{Name: "big.png", Data: pngBytes(t, 50, 50)}},
	})
	if !errors.Is(err, layout.ErrConfiguration) {
		t.Fatalf("expected a configuration error, got %v", err)
	}
}

func TestGenerate_PixelLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.MaxPixels = 100
	_, err := NewGenerator(cfg).Report(context.Background(), Input{
		Mode:  layout.ModeCollage,
		Files: []File{{Name: "wide.png", Data: pngBytes(t, 20, 20)}},
	})
	if !errors.Is(err, layout.ErrAssetDecode) {
		t.Fatalf("expected ErrAssetDecode, got %v", err)
	}
	if layout.StatusCode(err) != 400 {
		t.Errorf("status = %d, want 400", layout.StatusCode(err))
	}
}

func TestGenerate_PlacementLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.MaxPlacements = 2
	files := []File{
		{Name: "a.png", Data: pngBytes(t, 10, 12)},
		{Name: "b.png", Data: pngBytes(t, 12, 10)},
		{Name: "c.png", Data: pngBytes(t, 14, 10)},
	}
	_, err := NewGenerator(cfg).Report(context.Background(), Input{Mode: layout.ModeOnePerPage, Files: files})
	if !errors.Is(err, layout.ErrDoesNotFit) {
		t.Fatalf("expected ErrDoesNotFit, got %v", err)
	}
}

func TestGenerate_NonFiniteOverride(t *testing.T) {
	_, err := NewGenerator(testConfig()).Report(context.Background(), Input{
		Mode:      layout.ModeCollage,
		Overrides: map[string]string{"margin": "NaN"},
		Files:     []File{{Name: "a.png", Data: pngBytes(t, 10, 10)}},
	})
	if !errors.Is(err, layout.ErrConfiguration) || errors.Is(err, layout.ErrDoesNotFit) {
		t.Fatalf("expected a plain configuration error, got %v", err)
	}
}

func TestGenerate_ProbeStrictness(t *testing.T) {
	broken := File{Name: "broken.jpg", ContentType: "image/jpeg", Data: []byte("definitely not a jpeg")}

	strict := testConfig()
	strict.Probe.Strict = true
	_, err := NewGenerator(strict).Report(context.Background(), Input{Mode: layout.ModeCollage, Files: []File{broken}})
	if !errors.Is(err, layout.ErrAssetDecode) {
		t.Fatalf("strict probe: expected ErrAssetDecode, got %v", err)
	}

	report, err := NewGenerator(testConfig()).Report(context.Background(), Input{Mode: layout.ModeCollage, Files: []File{broken}})
	if err != nil {
		t.Fatalf("lenient probe: unexpected error %v", err)
	}
	if !report.Pages[0].Placements[0].Degraded {
		t.Error("expected the placement to be marked degraded")
	}
}

func TestGenerate_RenderFailureReturnsNoPDF(t *testing.T) {
	broken := File{Name: "broken.png", ContentType: "image/png", Data: []byte("\x89PNG\r\n\x1a\ngarbage")}
	res, err := NewGenerator(testConfig()).Generate(context.Background(), Input{
		Mode:  layout.ModeCollage,
		Files: []File{broken},
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if res != nil {
		t.Error("expected no result on failure")
	}
}

func TestGenerate_FreeformReferencesUniqueNames(t *testing.T) {
	img := pngBytes(t, 20, 20)
	raw := `{"pages":[{"baseCols":2,"baseRows":1,"cells":[
		{"col":0,"row":0,"image":{"name":"photo.png"}},
		{"col":1,"row":0,"image":{"name":"photo-2.png"}}
	]}]}`

	lay, err := NewGenerator(testConfig()).Plan(context.Background(), Input{
		Mode:   layout.ModeFreeform,
		Config: []byte(raw),
		Files: []File{
			{Name: "a/photo.png", Data: img},
			{Name: "b/photo.png", Data: img},
		},
	})
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if len(lay.Placements) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(lay.Placements))
	}
	if lay.Placements[1].AssetID != "photo-2.png" {
		t.Errorf("second asset = %q, want photo-2.png", lay.Placements[1].AssetID)
	}
}

func TestUniqueNames(t *testing.T) {
	files := []File{
		{Name: "img.jpg"},
		{Name: `C:\fotos\img.jpg`},
		{Name: "x/img.jpg"},
		{Name: "img-2.jpg"},
		{Name: ""},
	}
	uniqueNames(files)

	want := []string{"img.jpg", "img-2.jpg", "img-3.jpg", "img-2-2.jpg", "image-5"}
	for i, f := range files {
		if f.Name != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, f.Name, want[i])
		}
	}
}

func TestDownloadName(t *testing.T) {
	tests := []struct {
		title string
		mode  layout.Mode
		want  string
	}{
		{"", layout.ModeCollage, "collage.pdf"},
		{"", layout.ModeRepeat, "repetidor.pdf"},
		{"", layout.ModeFreeform, "plantilla.pdf"},
		{"Cumpleaños de Ana", layout.ModeCollage, "cumpleanos-de-ana.pdf"},
		{"  album.PDF ", layout.ModeCollage, "album.pdf"},
		{"../../etc/passwd", layout.ModeCollage, "etc-passwd.pdf"},
		{"!!!", layout.ModeSymmetric, "simetrico.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := DownloadName(tt.title, tt.mode); got != tt.want {
				t.Errorf("DownloadName(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestGenerate_DuplicateWarning(t *testing.T) {
	img := pngBytes(t, 40, 30)
	in := Input{
		Mode: layout.ModeCollage,
		Files: []File{
			{Name: "one.png", Data: img},
			{Name: "two.png", Data: img},
		},
	}

	report, err := NewGenerator(testConfig()).Report(context.Background(), in)
	if err != nil {
		t.Fatalf("Report() error: %v", err)
	}
	found := false
	for _, w := range report.Warnings {
		if strings.Contains(w, "one.png and two.png") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a duplicate warning, got %v", report.Warnings)
	}

	cfg := testConfig()
	cfg.Probe.Duplicates = false
	report, err = NewGenerator(cfg).Report(context.Background(), in)
	if err != nil {
		t.Fatalf("Report() error: %v", err)
	}
	for _, w := range report.Warnings {
		if strings.Contains(w, "same photo") {
			t.Errorf("duplicate check should be disabled, got %q", w)
		}
	}
}
