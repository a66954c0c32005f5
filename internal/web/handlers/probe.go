package handlers

import (
	"net/http"

	"github.com/kozaktomas/collage-pdf/internal/archive"
	"github.com/kozaktomas/collage-pdf/internal/config"
	"github.com/kozaktomas/collage-pdf/internal/probe"
)

// ProbeHandler reports image dimensions without generating a document.
type ProbeHandler struct {
	config *config.Config
}

// NewProbeHandler creates a new probe handler.
func NewProbeHandler(cfg *config.Config) *ProbeHandler {
	return &ProbeHandler{config: cfg}
}

// ProbeResult is one probed file.
type ProbeResult struct {
	Name string `json:"name"`
	probe.Result
	Error string `json:"error,omitempty"`
}

// Probe handles POST /api/v1/probe. Zip archives are expanded.
func (h *ProbeHandler) Probe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.Limits.MaxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files, err := readFiles(r.MultipartForm)
	if err != nil {
		respondLayoutError(w, r, err)
		return
	}
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "no files provided")
		return
	}

	limits := archive.Limits{MaxFileSize: h.config.Limits.MaxFileSize, MaxTotalSize: h.config.Limits.MaxUploadSize}
	results := make([]ProbeResult, 0, len(files))
	for _, f := range files {
		if probe.Sniff(f.Data) == "" && archive.IsZip(f.Name, f.ContentType, f.Data) {
			entries, _, err := archive.ExtractImages(f.Data, limits)
			if err != nil {
				results = append(results, ProbeResult{Name: f.Name, Error: err.Error()})
				continue
			}
			for _, e := range entries {
				results = append(results, probeOne(e.Name, "", e.Data))
			}
			continue
		}
		results = append(results, probeOne(f.Name, f.ContentType, f.Data))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"images": results,
	})
}

func probeOne(name, contentType string, data []byte) ProbeResult {
	res, err := probe.Detect(data, contentType)
	if err != nil {
		return ProbeResult{Name: name, Result: probe.Dimensions(data, contentType), Error: err.Error()}
	}
	return ProbeResult{Name: name, Result: res}
}
