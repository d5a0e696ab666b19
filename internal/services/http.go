package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dpup/prefab/logging"
	"golang.org/x/text/language"

	"github.com/dpup/migration.ersn.net/server/internal/dataset"
)

// SpeciesPath is the root of the species HTTP API
const SpeciesPath = "/api/v1/species"

const kmlContentType = "application/vnd.google-earth.kml+xml"

// HTTPHandler serves the species API over plain HTTP:
//
//	GET /api/v1/species
//	GET /api/v1/species/{id}/stats
//	GET /api/v1/species/{id}/monthly
//	GET /api/v1/species/{id}/speeds
//	GET /api/v1/species/{id}/tracks
//	GET /api/v1/species/{id}/tracks.kml
type HTTPHandler struct {
	svc *MigrationService
}

// NewHTTPHandler creates a handler backed by svc
func NewHTTPHandler(svc *MigrationService) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// ServeHTTP routes species API requests
func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, SpeciesPath), "/")
	if rest == "" {
		writeJSON(w, r, http.StatusOK, map[string]any{"species": h.svc.ListSpecies(r.Context())})
		return
	}

	speciesID, resource, ok := strings.Cut(rest, "/")
	if !ok || speciesID == "" || strings.Contains(resource, "/") {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	ctx := r.Context()
	switch resource {
	case "stats":
		stats, err := h.svc.GetStats(ctx, speciesID, preferredLanguage(r))
		h.respond(w, r, stats, err)
	case "monthly":
		summary, err := h.svc.GetMonthlySummary(ctx, speciesID)
		h.respond(w, r, map[string]any{"species_id": speciesID, "periods": summary}, err)
	case "speeds":
		speeds, err := h.svc.GetMonthlySpeeds(ctx, speciesID)
		h.respond(w, r, map[string]any{"species_id": speciesID, "months": speeds}, err)
	case "tracks":
		lines, err := h.svc.GetTrackLines(ctx, speciesID)
		h.respond(w, r, map[string]any{"species_id": speciesID, "tracks": lines}, err)
	case "tracks.kml":
		// Buffered so a failure can still produce an error status
		var buf bytes.Buffer
		if err := h.svc.ExportKML(ctx, speciesID, &buf); err != nil {
			h.respond(w, r, nil, err)
			return
		}
		w.Header().Set("Content-Type", kmlContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+speciesID+`.kml"`)
		if _, err := buf.WriteTo(w); err != nil {
			logging.Errorw(ctx, "Failed to write KML response", "species", speciesID, "error", err)
		}
	default:
		writeError(w, r, http.StatusNotFound, "not found")
	}
}

func (h *HTTPHandler) respond(w http.ResponseWriter, r *http.Request, body any, err error) {
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, err.Error())
			return
		}
		logging.Errorw(r.Context(), "Species request failed", "path", r.URL.Path, "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, r, http.StatusOK, body)
}

// preferredLanguage picks the first Accept-Language entry, English by default
func preferredLanguage(r *http.Request) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return language.English
	}
	return tags[0]
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Errorw(r.Context(), "Failed to encode JSON response", "path", r.URL.Path, "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, map[string]string{"error": message})
}
