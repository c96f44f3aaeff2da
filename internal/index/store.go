package index

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists the index as a single gob blob at a fixed path.
// The blob carries no version field; a format change requires deleting
// the file and rebuilding.
type Store struct {
	path string
}

// NewStore creates a store for the given cache file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the cache file path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the cache file is present on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the persisted index. Returns (nil, nil) when the cache file
// does not exist. The cache content is trusted verbatim, there is no
// validation against the remote folder.
func (s *Store) Load() (*Index, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open cache file: %w", err)
	}
	defer f.Close()

	var idx Index
	if err := gob.NewDecoder(f).Decode(&idx); err != nil {
		return nil, fmt.Errorf("could not decode cache file: %w", err)
	}
	return &idx, nil
}

// Save writes the index to a temp file in the cache directory and renames
// it into place, so a concurrent reader never sees a partial write.
func (s *Store) Save(idx *Index) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("could not create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("could not create temp cache file: %w", err)
	}

	if err := gob.NewEncoder(tmp).Encode(idx); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("could not encode cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not close temp cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not replace cache file: %w", err)
	}
	return nil
}

// Clear deletes the cache file. A missing file is not an error, the next
// build simply takes the rebuild path either way.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete cache file: %w", err)
	}
	return nil
}
