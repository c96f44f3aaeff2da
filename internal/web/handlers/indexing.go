package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// IndexHandler serves index status, rebuild, and cache management endpoints.
type IndexHandler struct {
	app  *App
	jobs *JobManager
}

// NewIndexHandler creates a new index handler.
func NewIndexHandler(app *App, jobs *JobManager) *IndexHandler {
	return &IndexHandler{app: app, jobs: jobs}
}

// indexStatus is the GET /index response payload.
type indexStatus struct {
	Built   bool       `json:"built"`
	Records int        `json:"records"`
	BuiltAt *time.Time `json:"built_at,omitempty"`
}

// Get reports whether an index exists and how many records it holds.
func (h *IndexHandler) Get(w http.ResponseWriter, r *http.Request) {
	idx, err := h.app.CurrentIndex()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cache_read_failed", err.Error())
		return
	}

	status := indexStatus{}
	if idx != nil {
		status.Built = true
		status.Records = idx.Count()
		status.BuiltAt = &idx.BuiltAt
	}
	respondJSON(w, http.StatusOK, status)
}

// Rebuild clears the cache and starts an asynchronous full rescan.
func (h *IndexHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.StartRebuild(h.app)
	if err != nil {
		if errors.Is(err, ErrRebuildRunning) {
			respondError(w, http.StatusConflict, "rebuild_running", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "rebuild_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusAccepted, job.Snapshot())
}

// RebuildStatus reports the state of a rebuild job.
func (h *IndexHandler) RebuildStatus(w http.ResponseWriter, r *http.Request) {
	job := h.jobs.Get(chi.URLParam(r, "jobId"))
	if job == nil {
		respondError(w, http.StatusNotFound, "job_not_found", "unknown job ID")
		return
	}
	respondJSON(w, http.StatusOK, job.Snapshot())
}

// ClearCache deletes the persisted cache file. This is the only supported
// invalidation path; the next index access takes the rebuild path.
func (h *IndexHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Store.Clear(); err != nil {
		respondError(w, http.StatusInternalServerError, "cache_clear_failed", err.Error())
		return
	}
	h.app.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}
