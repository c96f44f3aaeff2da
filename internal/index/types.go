package index

import (
	"context"
	"time"
)

// FaceRecord is one indexed photo containing a detected face.
// All fields are immutable once the record is created.
type FaceRecord struct {
	ID        string    // opaque Drive file ID, unique per source file
	Name      string    // original filename
	Embedding []float32 // embedding of the most confidently detected face
	Thumbnail []byte    // small JPEG preview
}

// Index is the full record sequence built from one folder scan.
// It is persisted as a single blob and never partially updated.
type Index struct {
	Records []FaceRecord
	BuiltAt time.Time
}

// Count returns the number of indexed records.
func (idx *Index) Count() int {
	if idx == nil {
		return 0
	}
	return len(idx.Records)
}

// RecordByID returns the record with the given ID, or nil if not found.
func (idx *Index) RecordByID(id string) *FaceRecord {
	if idx == nil {
		return nil
	}
	for i := range idx.Records {
		if idx.Records[i].ID == id {
			return &idx.Records[i]
		}
	}
	return nil
}

// RemoteFile identifies one image file in the remote folder.
type RemoteFile struct {
	ID   string
	Name string
}

// Source lists and downloads image files from the remote folder.
// Listing must drain all pages before returning.
type Source interface {
	ListImages(ctx context.Context, folderID string) ([]RemoteFile, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// Extractor computes a face embedding for an image.
// A (nil, nil) return means no face was detected, which is an expected
// outcome, not an error.
type Extractor interface {
	Extract(ctx context.Context, imageData []byte) ([]float32, error)
}
