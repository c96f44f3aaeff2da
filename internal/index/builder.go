package index

import (
	"context"
	"fmt"
	"time"

	"github.com/kozaktomas/face-finder/internal/thumb"
)

// Builder scans the remote folder and accumulates face records.
// Files are processed strictly one at a time; per-file failures are
// absorbed as skips and never abort the scan.
type Builder struct {
	source    Source
	extractor Extractor
	thumbSize int
	progress  func(done, total int)
}

// NewBuilder creates a builder over the given source and extractor.
func NewBuilder(source Source, extractor Extractor, thumbSize int) *Builder {
	return &Builder{
		source:    source,
		extractor: extractor,
		thumbSize: thumbSize,
	}
}

// OnProgress registers an advisory progress callback, called after each
// processed file with (done, total). Not part of the functional contract.
func (b *Builder) OnProgress(fn func(done, total int)) {
	b.progress = fn
}

// Build performs a fresh scan of the remote folder and returns the new
// index and the number of skipped files. A file is skipped when its
// download fails, its image data cannot be decoded, or no face is
// detected. An empty folder listing yields an empty index, not an error.
func (b *Builder) Build(ctx context.Context, folderID string) (*Index, int, error) {
	files, err := b.source.ListImages(ctx, folderID)
	if err != nil {
		return nil, 0, fmt.Errorf("could not list folder: %w", err)
	}

	idx := &Index{
		Records: make([]FaceRecord, 0, len(files)),
		BuiltAt: time.Now(),
	}
	skipped := 0
	for i, file := range files {
		rec, ok := b.buildRecord(ctx, file)
		if ok {
			idx.Records = append(idx.Records, rec)
		} else {
			skipped++
		}
		if b.progress != nil {
			b.progress(i+1, len(files))
		}
	}

	return idx, skipped, nil
}

// buildRecord downloads one file and turns it into a face record.
// Returns ok=false when the file should be skipped.
func (b *Builder) buildRecord(ctx context.Context, file RemoteFile) (FaceRecord, bool) {
	data, err := b.source.Download(ctx, file.ID)
	if err != nil {
		return FaceRecord{}, false
	}

	embedding, err := b.extractor.Extract(ctx, data)
	if err != nil || embedding == nil {
		return FaceRecord{}, false
	}

	thumbnail, err := thumb.Make(data, b.thumbSize)
	if err != nil {
		return FaceRecord{}, false
	}

	return FaceRecord{
		ID:        file.ID,
		Name:      file.Name,
		Embedding: embedding,
		Thumbnail: thumbnail,
	}, true
}

// BuildOrLoad returns the persisted index when the cache file exists,
// without validating it against the remote folder. Otherwise it runs a
// fresh scan and persists the result. fromCache reports which path was
// taken; skipped is only meaningful for a fresh scan.
func (b *Builder) BuildOrLoad(ctx context.Context, store *Store, folderID string) (idx *Index, skipped int, fromCache bool, err error) {
	cached, err := store.Load()
	if err != nil {
		return nil, 0, false, err
	}
	if cached != nil {
		return cached, 0, true, nil
	}

	idx, skipped, err = b.Build(ctx, folderID)
	if err != nil {
		return nil, 0, false, err
	}
	if err := store.Save(idx); err != nil {
		return nil, 0, false, fmt.Errorf("could not persist index: %w", err)
	}
	return idx, skipped, false, nil
}
