package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-finder/internal/drive"
	"github.com/kozaktomas/face-finder/internal/index"
)

// RecordsHandler serves the indexed records and their image content.
type RecordsHandler struct {
	app *App
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(app *App) *RecordsHandler {
	return &RecordsHandler{app: app}
}

// recordInfo is the per-record payload for listing. Embeddings and
// thumbnail bytes are deliberately left out; thumbnails are served by
// their own endpoint.
type recordInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// List returns the indexed records, optionally filtered by display name.
// The filter is case- and diacritic-insensitive.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	idx, err := h.app.CurrentIndex()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cache_read_failed", err.Error())
		return
	}

	var records []index.FaceRecord
	if idx != nil {
		records = index.FilterByName(idx.Records, r.URL.Query().Get("filter"))
	}

	infos := make([]recordInfo, 0, len(records))
	for _, rec := range records {
		infos = append(infos, recordInfo{ID: rec.ID, Name: rec.Name})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"count":   len(infos),
		"records": infos,
	})
}

// lookup finds a record by the {id} URL parameter.
func (h *RecordsHandler) lookup(w http.ResponseWriter, r *http.Request) *index.FaceRecord {
	idx, err := h.app.CurrentIndex()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cache_read_failed", err.Error())
		return nil
	}
	rec := idx.RecordByID(chi.URLParam(r, "id"))
	if rec == nil {
		respondError(w, http.StatusNotFound, "record_not_found", "no indexed photo with that ID")
		return nil
	}
	return rec
}

// Thumbnail serves the cached preview JPEG for a record.
func (h *RecordsHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	rec := h.lookup(w, r)
	if rec == nil {
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(rec.Thumbnail)
}

// Download re-downloads the full-resolution original from Drive and streams
// it to the client with its original filename, for export.
func (h *RecordsHandler) Download(w http.ResponseWriter, r *http.Request) {
	rec := h.lookup(w, r)
	if rec == nil {
		return
	}

	data, err := h.app.Drive.Download(r.Context(), rec.ID)
	if err != nil {
		if drive.IsNotFoundError(err) {
			respondError(w, http.StatusNotFound, "file_gone", "the original file is no longer available")
			return
		}
		respondError(w, http.StatusBadGateway, "download_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.Name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
