package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"WEB_PORT", "WEB_HOST", "MAX_FILE_SIZE_MB", "RENDER_MAX_DPI", "RENDER_MAX_PIXELS", "LAYOUT_MAX_PLACEMENTS", "PROBE_STRICT", "RENDER_VALIDATE", "JPEG_QUALITY"} {
		t.Setenv(key, "")
	}
	cfg := Load()

	if cfg.Web.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Web.Port)
	}
	if cfg.Web.Host != "0.0.0.0" {
		t.Errorf("expected host 0.0.0.0, got %s", cfg.Web.Host)
	}
	if cfg.Limits.MaxFileSize != 100<<20 {
		t.Errorf("expected 100MB file limit, got %d", cfg.Limits.MaxFileSize)
	}
	if cfg.Limits.MaxPlacements != 5000 {
		t.Errorf("expected 5000 placements, got %d", cfg.Limits.MaxPlacements)
	}
	if cfg.Limits.MaxPixels != 64<<20 {
		t.Errorf("expected 64MP pixel limit, got %d", cfg.Limits.MaxPixels)
	}
	if cfg.Render.MaxDPI != 300 {
		t.Errorf("expected max DPI 300, got %v", cfg.Render.MaxDPI)
	}
	if cfg.Probe.Strict {
		t.Error("expected lenient probing by default")
	}
	if !cfg.Render.Verify {
		t.Error("expected PDF verification by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WEB_PORT", "9090")
	t.Setenv("MAX_FILE_SIZE_MB", "5")
	t.Setenv("RENDER_MAX_DPI", "0")
	t.Setenv("PROBE_STRICT", "true")
	t.Setenv("JPEG_QUALITY", "250")
	t.Setenv("RENDER_MAX_PIXELS", "1000000")
	t.Setenv("LAYOUT_MAX_PLACEMENTS", "200")
	cfg := Load()

	if cfg.Limits.MaxPixels != 1_000_000 || cfg.Limits.MaxPlacements != 200 {
		t.Errorf("expected limits 1000000 pixels and 200 placements, got %+v", cfg.Limits)
	}

	if cfg.Web.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Web.Port)
	}
	if cfg.Limits.MaxFileSize != 5<<20 {
		t.Errorf("expected 5MB file limit, got %d", cfg.Limits.MaxFileSize)
	}
	if cfg.Render.MaxDPI != 0 {
		t.Errorf("expected downscaling disabled, got %v", cfg.Render.MaxDPI)
	}
	if !cfg.Probe.Strict {
		t.Error("expected strict probing")
	}
	if cfg.Render.JPEGQuality != 100 {
		t.Errorf("expected JPEG quality clamped to 100, got %d", cfg.Render.JPEGQuality)
	}
}

func TestEnvInt_Invalid(t *testing.T) {
	t.Setenv("TEST_ENV_INT", "-3")
	if got := envInt("TEST_ENV_INT", 7); got != 7 {
		t.Errorf("expected default for negative value, got %d", got)
	}
	t.Setenv("TEST_ENV_INT", "abc")
	if got := envInt("TEST_ENV_INT", 7); got != 7 {
		t.Errorf("expected default for invalid value, got %d", got)
	}
}

func TestEnvList(t *testing.T) {
	t.Setenv("WEB_ALLOWED_ORIGINS", " https://a.example, ,https://b.example ")
	cfg := Load()

	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Web.AllowedOrigins) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.Web.AllowedOrigins)
	}
	for i := range want {
		if cfg.Web.AllowedOrigins[i] != want[i] {
			t.Errorf("origin %d: expected %q, got %q", i, want[i], cfg.Web.AllowedOrigins[i])
		}
	}
}

func TestModeDefaults(t *testing.T) {
	cfg := Load()

	tests := []struct {
		mode     string
		margin   float64
		spacing  float64
		maxFiles int
	}{
		{"repeat", 10, 1, 12},
		{"collage", 10, 2, 12},
		{"symmetric", 10, 5, 50},
		{"freeform", 10, 5, 100},
		{"one-per-page", 10, 0, 100},
		{"unknown", 10, 0, 100},
	}
	for _, tt := range tests {
		d := cfg.ModeDefaults(tt.mode)
		if d.MarginMM != tt.margin || d.SpacingMM != tt.spacing || d.MaxFiles != tt.maxFiles {
			t.Errorf("ModeDefaults(%q) = %+v, want margin %v spacing %v max %d", tt.mode, d, tt.margin, tt.spacing, tt.maxFiles)
		}
	}
	if d := cfg.ModeDefaults("symmetric"); d.ImagesPerRow != 2 {
		t.Errorf("symmetric images per row = %d, want 2", d.ImagesPerRow)
	}
	if d := cfg.ModeDefaults("repeat"); d.ImageWidthMM != 50 {
		t.Errorf("repeat image width = %v, want 50", d.ImageWidthMM)
	}
}
