package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRecordsList(t *testing.T) {
	app := testApp(t, testIndex(), &fakeDownloader{}, &fakeExtractor{})
	handler := NewRecordsHandler(app)

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/records", nil))

	assertStatusCode(t, recorder, http.StatusOK)

	var resp struct {
		Count   int          `json:"count"`
		Records []recordInfo `json:"records"`
	}
	parseJSONResponse(t, recorder, &resp)
	if resp.Count != 3 || len(resp.Records) != 3 {
		t.Fatalf("count = %d with %d records; want 3", resp.Count, len(resp.Records))
	}
	if resp.Records[0].ID != "r1" || resp.Records[0].Name != "party.jpg" {
		t.Errorf("records[0] = %+v; want r1/party.jpg", resp.Records[0])
	}
}

func TestRecordsListFilter(t *testing.T) {
	app := testApp(t, testIndex(), &fakeDownloader{}, &fakeExtractor{})
	handler := NewRecordsHandler(app)

	tests := []struct {
		name    string
		filter  string
		wantIDs []string
	}{
		{"diacritic-insensitive", "jiri", []string{"r2"}},
		{"case-insensitive", "PARTY", []string{"r1"}},
		{"no match", "nobody", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/records?filter="+tc.filter, nil))

			assertStatusCode(t, recorder, http.StatusOK)

			var resp struct {
				Count   int          `json:"count"`
				Records []recordInfo `json:"records"`
			}
			parseJSONResponse(t, recorder, &resp)
			if resp.Count != len(tc.wantIDs) {
				t.Fatalf("count = %d; want %d", resp.Count, len(tc.wantIDs))
			}
			for i, id := range tc.wantIDs {
				if resp.Records[i].ID != id {
					t.Errorf("records[%d].ID = %s; want %s", i, resp.Records[i].ID, id)
				}
			}
		})
	}
}

func TestRecordsListEmptyCache(t *testing.T) {
	app := testApp(t, nil, &fakeDownloader{}, &fakeExtractor{})
	handler := NewRecordsHandler(app)

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/records", nil))

	assertStatusCode(t, recorder, http.StatusOK)

	var resp struct {
		Count   int          `json:"count"`
		Records []recordInfo `json:"records"`
	}
	parseJSONResponse(t, recorder, &resp)
	if resp.Count != 0 || resp.Records == nil {
		t.Errorf("empty cache should yield count 0 and an empty (non-null) records array, got %+v", resp)
	}
}

func TestRecordsThumbnail(t *testing.T) {
	app := testApp(t, testIndex(), &fakeDownloader{}, &fakeExtractor{})
	handler := NewRecordsHandler(app)

	req := requestWithChiParams(
		httptest.NewRequest(http.MethodGet, "/api/v1/records/r2/thumbnail", nil),
		map[string]string{"id": "r2"},
	)
	recorder := httptest.NewRecorder()
	handler.Thumbnail(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	if ct := recorder.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %s; want image/jpeg", ct)
	}
	if body := recorder.Body.Bytes(); len(body) != 3 || body[2] != 0x02 {
		t.Errorf("thumbnail body = %v; want the stored bytes for r2", body)
	}
}

func TestRecordsThumbnailNotFound(t *testing.T) {
	app := testApp(t, testIndex(), &fakeDownloader{}, &fakeExtractor{})
	handler := NewRecordsHandler(app)

	req := requestWithChiParams(
		httptest.NewRequest(http.MethodGet, "/api/v1/records/nope/thumbnail", nil),
		map[string]string{"id": "nope"},
	)
	recorder := httptest.NewRecorder()
	handler.Thumbnail(recorder, req)

	assertStatusCode(t, recorder, http.StatusNotFound)
	assertJSONError(t, recorder, "record_not_found")
}

func TestRecordsDownload(t *testing.T) {
	content := []byte{0x01, 0x02, 0x03, 0x04}
	app := testApp(t, testIndex(), &fakeDownloader{data: map[string][]byte{"r1": content}}, &fakeExtractor{})
	handler := NewRecordsHandler(app)

	req := requestWithChiParams(
		httptest.NewRequest(http.MethodGet, "/api/v1/records/r1/download", nil),
		map[string]string{"id": "r1"},
	)
	recorder := httptest.NewRecorder()
	handler.Download(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	if cd := recorder.Header().Get("Content-Disposition"); cd != `attachment; filename="party.jpg"` {
		t.Errorf("Content-Disposition = %s", cd)
	}
	if recorder.Body.String() != string(content) {
		t.Errorf("download body = %v; want the original content", recorder.Body.Bytes())
	}
}

func TestRecordsDownloadFileGone(t *testing.T) {
	// Indexed but deleted from the folder since the scan.
	app := testApp(t, testIndex(), &fakeDownloader{data: map[string][]byte{}}, &fakeExtractor{})
	handler := NewRecordsHandler(app)

	req := requestWithChiParams(
		httptest.NewRequest(http.MethodGet, "/api/v1/records/r1/download", nil),
		map[string]string{"id": "r1"},
	)
	recorder := httptest.NewRecorder()
	handler.Download(recorder, req)

	assertStatusCode(t, recorder, http.StatusNotFound)
	assertJSONError(t, recorder, "file_gone")
}

func TestRecordsDownloadUpstreamFailure(t *testing.T) {
	app := testApp(t, testIndex(), &fakeDownloader{err: errServiceDown}, &fakeExtractor{})
	handler := NewRecordsHandler(app)

	req := requestWithChiParams(
		httptest.NewRequest(http.MethodGet, "/api/v1/records/r1/download", nil),
		map[string]string{"id": "r1"},
	)
	recorder := httptest.NewRecorder()
	handler.Download(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadGateway)
	assertJSONError(t, recorder, "download_failed")
}
