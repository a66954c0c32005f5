package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"

	"github.com/kozaktomas/collage-pdf/internal/constants"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Web    WebConfig
	Limits LimitsConfig
	Render RenderConfig
	Probe  ProbeConfig
	Modes  ModesConfig
}

type WebConfig struct {
	Port           int
	Host           string
	AllowedOrigins []string // extra CORS origins besides localhost
}

type LimitsConfig struct {
	MaxFileSize   int64 // bytes per uploaded or extracted file
	MaxUploadSize int64 // bytes per request
	MaxPlacements int   // grid cells and placements per document
	MaxPixels     int64 // pixels per decoded image
}

type RenderConfig struct {
	Workers     int
	MaxDPI      float64 // 0 disables downscaling
	JPEGQuality int
	Verify      bool // validate every generated PDF with pdfcpu
}

type ProbeConfig struct {
	Strict     bool // fail on unreadable images instead of assuming 800x600
	Duplicates bool // warn when two uploads show the same photo
}

type ModesConfig struct {
	Modes map[string]ModeDefaults `yaml:"modes"`
}

// ModeDefaults holds the values a mode falls back to.
type ModeDefaults struct {
	MarginMM     float64 `yaml:"margin_mm" json:"margin_mm"`
	SpacingMM    float64 `yaml:"spacing_mm" json:"spacing_mm"`
	ImagesPerRow int     `yaml:"images_per_row,omitempty" json:"images_per_row,omitempty"`
	ImageWidthMM float64 `yaml:"image_width_mm,omitempty" json:"image_width_mm,omitempty"`
	MaxFiles     int     `yaml:"max_files" json:"max_files"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads a non-negative float. Zero is a valid value.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return f
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return defaultVal
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList splits a comma separated variable, dropping empty items.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func Load() *Config {
	var modes ModesConfig
	if err := yaml.Unmarshal(defaultsYAML, &modes); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	return &Config{
		Web: WebConfig{
			Port:           envInt("WEB_PORT", 8080),
			Host:           envString("WEB_HOST", "0.0.0.0"),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Limits: LimitsConfig{
			MaxFileSize:   int64(envInt("MAX_FILE_SIZE_MB", constants.DefaultMaxFileSize>>20)) << 20,
			MaxUploadSize: int64(envInt("MAX_UPLOAD_SIZE_MB", constants.MaxUploadSize>>20)) << 20,
			MaxPlacements: envInt("LAYOUT_MAX_PLACEMENTS", constants.DefaultMaxPlacements),
			MaxPixels:     int64(envInt("RENDER_MAX_PIXELS", constants.DefaultMaxPixels)),
		},
		Render: RenderConfig{
			Workers:     envInt("RENDER_WORKERS", constants.WorkerPoolSize),
			MaxDPI:      envFloat("RENDER_MAX_DPI", constants.DefaultMaxDPI),
			JPEGQuality: min(envInt("JPEG_QUALITY", constants.DefaultJPEGQuality), 100),
			Verify:      envBool("RENDER_VALIDATE", true),
		},
		Probe: ProbeConfig{
			Strict:     envBool("PROBE_STRICT", false),
			Duplicates: envBool("DETECT_DUPLICATES", true),
		},
		Modes: modes,
	}
}

// ModeDefaults returns the defaults for a mode, falling back to the global
// margin and file limit for modes missing from the embedded file.
func (c *Config) ModeDefaults(mode string) ModeDefaults {
	if d, ok := c.Modes.Modes[mode]; ok {
		if d.MaxFiles <= 0 {
			d.MaxFiles = constants.DefaultMaxFiles
		}
		return d
	}
	return ModeDefaults{MarginMM: constants.DefaultMarginMM, MaxFiles: constants.DefaultMaxFiles}
}
