package web

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/collage-pdf/internal/layout"
	"github.com/kozaktomas/collage-pdf/internal/web/handlers"
	"github.com/kozaktomas/collage-pdf/internal/web/static"
)

// centered anchors the repeated block in the middle of the drawable area.
var centered = map[string]string{"anchor": "center"}

func (s *Server) setupRoutes() {
	// Create handlers
	generateHandler := handlers.NewGenerateHandler(s.config)
	modesHandler := handlers.NewModesHandler(s.config)
	probeHandler := handlers.NewProbeHandler(s.config)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/modes", modesHandler.List)
		r.Post("/probe", probeHandler.Probe)
		r.Post("/generate/{mode}", generateHandler.Generate)
	})

	// Fixed-mode endpoints used by the bundled forms
	s.router.Post("/generate-pdf", generateHandler.Legacy(layout.ModeCollage, nil))
	s.router.Post("/generate-pdf/pattern", generateHandler.Legacy(layout.ModeRepeat, centered))
	s.router.Post("/generate-auto-repetidor", generateHandler.Legacy(layout.ModeRepeat, nil))
	s.router.Post("/generate-repetidor-simetrico", generateHandler.Legacy(layout.ModeRepeat, centered))
	s.router.Post("/generate-simetrico", generateHandler.Legacy(layout.ModeSymmetric, nil))
	s.router.Post("/generate-layout", generateHandler.Legacy(layout.ModeFreeform, nil))
	s.router.Post("/generate-plantilla", generateHandler.Legacy(layout.ModeFreeform, nil))
	s.router.Post("/generate-multi-pagina", generateHandler.Legacy(layout.ModeOnePerPage, nil))

	// Serve static files for the upload forms
	s.router.Get("/*", s.serveSPA)
}

// serveSPA serves the embedded upload forms
func (s *Server) serveSPA(w http.ResponseWriter, r *http.Request) {
	fs, ok := static.Files()
	if !ok {
		http.NotFound(w, r)
		return
	}

	p := r.URL.Path
	if p == "/" {
		p = "/index.html"
	}

	f, err := fs.Open(p)
	if err == nil {
		defer f.Close()
		if stat, err := f.Stat(); err == nil && !stat.IsDir() {
			contentType := mime.TypeByExtension(path.Ext(p))
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			w.Header().Set("Content-Type", contentType)
			if strings.HasPrefix(p, "/assets/") {
				w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
			}
			w.WriteHeader(http.StatusOK)
			io.Copy(w, f)
			return
		}
	}

	// Unknown non-asset paths fall back to the index page
	if strings.HasPrefix(p, "/assets/") {
		http.NotFound(w, r)
		return
	}
	indexFile, err := fs.Open("/index.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer indexFile.Close()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, indexFile)
}
