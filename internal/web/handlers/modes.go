package handlers

import (
	"net/http"

	"github.com/kozaktomas/collage-pdf/internal/config"
	"github.com/kozaktomas/collage-pdf/internal/layout"
)

// ModesHandler lists the layout modes and their defaults.
type ModesHandler struct {
	config *config.Config
}

// NewModesHandler creates a new modes handler
func NewModesHandler(cfg *config.Config) *ModesHandler {
	return &ModesHandler{
		config: cfg,
	}
}

// ModeInfo describes one layout mode.
type ModeInfo struct {
	Name     string              `json:"name"`
	Aliases  []string            `json:"aliases,omitempty"`
	Endpoint string              `json:"endpoint"`
	Defaults config.ModeDefaults `json:"defaults"`
}

// ModesResponse is returned by GET /api/v1/modes.
type ModesResponse struct {
	Modes         []ModeInfo `json:"modes"`
	PageSizes     []string   `json:"page_sizes"`
	MaxFileSizeMB int64      `json:"max_file_size_mb"`
	MaxUploadMB   int64      `json:"max_upload_mb"`
	MaxDPI        float64    `json:"max_dpi"`
}

// List returns every mode with its defaults.
func (h *ModesHandler) List(w http.ResponseWriter, r *http.Request) {
	modes := make([]ModeInfo, 0, len(layout.Modes))
	for _, m := range layout.Modes {
		modes = append(modes, ModeInfo{
			Name:     m.String(),
			Aliases:  m.Aliases(),
			Endpoint: "/api/v1/generate/" + m.String(),
			Defaults: h.config.ModeDefaults(m.String()),
		})
	}

	respondJSON(w, http.StatusOK, ModesResponse{
		Modes:         modes,
		PageSizes:     []string{"letter", "legal"},
		MaxFileSizeMB: h.config.Limits.MaxFileSize >> 20,
		MaxUploadMB:   h.config.Limits.MaxUploadSize >> 20,
		MaxDPI:        h.config.Render.MaxDPI,
	})
}
