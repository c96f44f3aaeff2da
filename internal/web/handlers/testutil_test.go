package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-finder/internal/config"
	"github.com/kozaktomas/face-finder/internal/index"
)

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Drive: config.DriveConfig{FolderID: "test-folder"},
		Match: config.MatchConfig{
			DefaultThreshold: 0.5,
			MinThreshold:     0.3,
			MaxThreshold:     0.7,
		},
		Index: config.IndexConfig{ThumbnailSize: 200},
	}
}

// fakeDownloader serves canned file content for download endpoints.
type fakeDownloader struct {
	data map[string][]byte
	err  error
}

func (d *fakeDownloader) Download(_ context.Context, fileID string) ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	content, ok := d.data[fileID]
	if !ok {
		return nil, fmt.Errorf("request failed with status 404: not found")
	}
	return content, nil
}

// fakeExtractor returns a fixed embedding, or nil to simulate no face.
type fakeExtractor struct {
	embedding []float32
	err       error
}

func (e *fakeExtractor) Extract(_ context.Context, _ []byte) ([]float32, error) {
	return e.embedding, e.err
}

// testApp wires an App over a temp cache and the given fakes.
func testApp(t *testing.T, idx *index.Index, drive Downloader, extractor Extractor) *App {
	t.Helper()

	store := index.NewStore(filepath.Join(t.TempDir(), "index.gob"))
	if idx != nil {
		if err := store.Save(idx); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}
	}

	app := NewApp(testConfig(), store, nil, drive, extractor)
	return app
}

// testIndex builds a small in-memory index with distinct embeddings.
func testIndex() *index.Index {
	return &index.Index{
		Records: []index.FaceRecord{
			{ID: "r1", Name: "party.jpg", Embedding: []float32{1, 0, 0}, Thumbnail: []byte{0xFF, 0xD8, 0x01}},
			{ID: "r2", Name: "Jiří.jpg", Embedding: []float32{0.9, 0.1, 0}, Thumbnail: []byte{0xFF, 0xD8, 0x02}},
			{ID: "r3", Name: "landscape.png", Embedding: []float32{0, 1, 0}, Thumbnail: []byte{0xFF, 0xD8, 0x03}},
		},
		BuiltAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// multipartSelfie builds a multipart request body with a file part and
// optional form fields.
func multipartSelfie(t *testing.T, imageData []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "selfie.jpg")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(imageData); err != nil {
		t.Fatalf("failed to write image data: %v", err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field %s: %v", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertJSONError checks if the response is a JSON error with the expected code
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedCode string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedCode {
		t.Errorf("expected error '%s', got '%s'", expectedCode, result["error"])
	}
}

var errServiceDown = errors.New("service unavailable")
