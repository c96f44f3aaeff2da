package handlers

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/kozaktomas/face-finder/internal/index"
)

// maxSelfieBytes limits the uploaded selfie size.
const maxSelfieBytes = 20 << 20 // 20 MB

// SelfieHandler matches an uploaded selfie against the indexed faces.
type SelfieHandler struct {
	app *App
}

// NewSelfieHandler creates a new selfie handler.
func NewSelfieHandler(app *App) *SelfieHandler {
	return &SelfieHandler{app: app}
}

// matchInfo is one match in the selfie response. Confidence is rounded to
// one decimal place.
type matchInfo struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Confidence   float64 `json:"confidence"`
	ThumbnailURL string  `json:"thumbnail_url"`
	DownloadURL  string  `json:"download_url"`
}

// Match extracts the face embedding from an uploaded selfie and returns the
// indexed photos within the distance threshold, sorted by confidence.
//
// Failure states are part of the contract, not server errors:
//   - 409 empty_index: no index or an index with zero records
//   - 422 no_face: the extractor found no face in the selfie
func (h *SelfieHandler) Match(w http.ResponseWriter, r *http.Request) {
	idx, err := h.app.CurrentIndex()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cache_read_failed", err.Error())
		return
	}
	if idx.Count() == 0 {
		respondError(w, http.StatusConflict, "empty_index",
			"nothing to search: build the index first and make sure the folder has photos with visible faces")
		return
	}

	imageData, threshold, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	embedding, err := h.app.Extractor.Extract(r.Context(), imageData)
	if err != nil {
		respondError(w, http.StatusBadGateway, "extraction_failed", err.Error())
		return
	}
	if embedding == nil {
		respondError(w, http.StatusUnprocessableEntity, "no_face",
			"no face detected in your photo: retake it with better lighting, facing the camera directly")
		return
	}

	matches := index.Match(embedding, idx.Records, threshold)
	infos := make([]matchInfo, 0, len(matches))
	for _, m := range matches {
		infos = append(infos, matchInfo{
			ID:           m.ID,
			Name:         m.Name,
			Confidence:   math.Round(m.Confidence*10) / 10,
			ThumbnailURL: fmt.Sprintf("/api/v1/records/%s/thumbnail", m.ID),
			DownloadURL:  fmt.Sprintf("/api/v1/records/%s/download", m.ID),
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"threshold": threshold,
		"count":     len(infos),
		"matches":   infos,
	})
}

// parseRequest reads the multipart selfie upload and the optional threshold
// form field. The threshold is clamped to the supported range.
func (h *SelfieHandler) parseRequest(w http.ResponseWriter, r *http.Request) ([]byte, float64, bool) {
	if err := r.ParseMultipartForm(maxSelfieBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "expected a multipart form with a file field")
		return nil, 0, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "missing file field")
		return nil, 0, false
	}
	defer file.Close()

	imageData, err := io.ReadAll(io.LimitReader(file, maxSelfieBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "could not read uploaded file")
		return nil, 0, false
	}

	threshold := h.app.Config.Match.DefaultThreshold
	if raw := r.FormValue("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "threshold must be a number")
			return nil, 0, false
		}
		threshold = parsed
	}
	threshold = h.app.Config.ClampThreshold(threshold)

	return imageData, threshold, true
}
