package handlers

import (
	"context"
	"sync"

	"github.com/kozaktomas/face-finder/internal/config"
	"github.com/kozaktomas/face-finder/internal/index"
)

// Downloader re-downloads original files from the remote folder.
type Downloader interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// Extractor computes a face embedding for an uploaded image.
// (nil, nil) means no face was detected.
type Extractor interface {
	Extract(ctx context.Context, imageData []byte) ([]float32, error)
}

// App bundles the shared state the handlers operate on: the cache store,
// the index builder, and the in-memory copy of the index for this session.
// The index is read-only once loaded; only a rebuild or cache clear
// replaces it.
type App struct {
	Config    *config.Config
	Store     *index.Store
	Builder   *index.Builder
	Drive     Downloader
	Extractor Extractor
	FolderID  string

	mu  sync.RWMutex
	idx *index.Index
}

// NewApp creates the handler state shared across requests.
func NewApp(cfg *config.Config, store *index.Store, builder *index.Builder, drive Downloader, extractor Extractor) *App {
	return &App{
		Config:    cfg,
		Store:     store,
		Builder:   builder,
		Drive:     drive,
		Extractor: extractor,
		FolderID:  cfg.Drive.FolderID,
	}
}

// CurrentIndex returns the in-memory index, loading it from the cache file
// on first access. Returns (nil, nil) when no cache exists yet.
func (a *App) CurrentIndex() (*index.Index, error) {
	a.mu.RLock()
	idx := a.idx
	a.mu.RUnlock()
	if idx != nil {
		return idx, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.idx != nil {
		return a.idx, nil
	}

	loaded, err := a.Store.Load()
	if err != nil {
		return nil, err
	}
	a.idx = loaded
	return a.idx, nil
}

// SetIndex replaces the in-memory index after a rebuild.
func (a *App) SetIndex(idx *index.Index) {
	a.mu.Lock()
	a.idx = idx
	a.mu.Unlock()
}

// Invalidate drops the in-memory index after a cache clear.
func (a *App) Invalidate() {
	a.mu.Lock()
	a.idx = nil
	a.mu.Unlock()
}
