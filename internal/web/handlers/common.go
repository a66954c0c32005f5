package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/kozaktomas/collage-pdf/internal/layout"
)

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondLayoutError maps a pipeline error to its HTTP status. Client
// mistakes echo the message; internal failures are logged and answered
// with a generic message carrying the request id.
func respondLayoutError(w http.ResponseWriter, r *http.Request, err error) {
	status := layout.StatusCode(err)
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		status = http.StatusRequestEntityTooLarge
	}
	if status >= http.StatusInternalServerError {
		reqID := middleware.GetReqID(r.Context())
		slog.Error("PDF generation failed", "path", sanitizeForLog(r.URL.Path), "request_id", reqID, "error", err)
		message := "PDF generation failed"
		if reqID != "" {
			message += " (request " + reqID + ")"
		}
		respondError(w, status, message)
		return
	}
	respondError(w, status, err.Error())
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
