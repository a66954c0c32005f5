package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/collage-pdf/internal/config"
	"github.com/kozaktomas/collage-pdf/internal/constants"
	"github.com/kozaktomas/collage-pdf/internal/document"
	"github.com/kozaktomas/collage-pdf/internal/layout"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// fileFields are the form fields that may carry uploads.
var fileFields = []string{constants.FormFieldImages, constants.FormFieldImage, constants.FormFieldFiles}

// GenerateHandler turns multipart uploads into PDF documents.
type GenerateHandler struct {
	config    *config.Config
	generator *document.Generator
}

// NewGenerateHandler creates a new generate handler.
func NewGenerateHandler(cfg *config.Config) *GenerateHandler {
	return &GenerateHandler{
		config:    cfg,
		generator: document.NewGenerator(cfg),
	}
}

// Generate handles POST /api/v1/generate/{mode}.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	mode, err := layout.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	h.serve(w, r, mode, nil)
}

// Legacy returns a handler for one of the fixed-mode endpoints. fixed
// overrides are applied on top of whatever the client sent.
func (h *GenerateHandler) Legacy(mode layout.Mode, fixed map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serve(w, r, mode, fixed)
	}
}

func (h *GenerateHandler) serve(w http.ResponseWriter, r *http.Request, mode layout.Mode, fixed map[string]string) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.Limits.MaxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d MB", h.config.Limits.MaxUploadSize>>20))
			return
		}
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	in, err := readInput(r.MultipartForm, mode)
	if err != nil {
		respondLayoutError(w, r, err)
		return
	}
	for k, v := range fixed {
		in.Overrides[k] = v
	}

	slog.Info("generating document",
		"mode", mode.String(),
		"files", len(in.Files),
		"report", r.URL.Query().Get("format") == "report")

	// Return JSON report instead of PDF if requested
	if r.URL.Query().Get("format") == "report" {
		report, err := h.generator.Report(r.Context(), in)
		if err != nil {
			respondLayoutError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, report)
		return
	}

	res, err := h.generator.Generate(r.Context(), in)
	if err != nil {
		respondLayoutError(w, r, err)
		return
	}

	if n := len(res.Report.Warnings); n > 0 {
		w.Header().Set(constants.HeaderLayoutWarnings, strconv.Itoa(n))
	}
	w.Header().Set(constants.HeaderDocumentID, res.DocumentID)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.PDF)))
	w.WriteHeader(http.StatusOK)
	w.Write(res.PDF)
}

// readInput collects uploads, the JSON configuration and plain form fields.
func readInput(form *multipart.Form, mode layout.Mode) (document.Input, error) {
	in := document.Input{
		Mode:      mode,
		Overrides: make(map[string]string),
	}

	for key, values := range form.Value {
		if len(values) > 0 {
			in.Overrides[key] = values[0]
		}
	}
	in.Title = in.Overrides[constants.FormFieldTitle]

	switch {
	case in.Overrides[constants.FormFieldConfig] != "":
		in.Config = []byte(in.Overrides[constants.FormFieldConfig])
	case in.Overrides[constants.FormFieldLayout] != "":
		in.Config = []byte(in.Overrides[constants.FormFieldLayout])
	case in.Overrides[constants.FormFieldPageSettings] != "":
		in.Config = []byte(`{"pageSettings":` + in.Overrides[constants.FormFieldPageSettings] + `}`)
	}

	files, err := readFiles(form)
	if err != nil {
		return in, err
	}
	in.Files = files
	return in, nil
}

// readFiles reads every uploaded file from the known file fields.
func readFiles(form *multipart.Form) ([]document.File, error) {
	var files []document.File
	for _, field := range fileFields {
		for _, fh := range form.File[field] {
			data, err := readFileHeader(fh)
			if err != nil {
				return nil, err
			}
			files = append(files, document.File{
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}
	return files, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %s", fh.Filename)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %s", fh.Filename)
	}
	return data, nil
}
