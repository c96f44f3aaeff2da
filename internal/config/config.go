package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Drive DriveConfig
	Face  FaceConfig
	Cache CacheConfig
	Match MatchConfig
	Index IndexConfig
}

type DriveConfig struct {
	FolderID        string // the one shared folder all listing is scoped to
	CredentialsFile string // path to the service account JSON key
}

type FaceConfig struct {
	URL string // face embedding server, defaults to http://localhost:8000
	Dim int    // expected embedding dimension, defaults to 512
}

type CacheConfig struct {
	Path string // index cache file, defaults to face_index.gob
}

type MatchConfig struct {
	DefaultThreshold float64 `yaml:"default_threshold"`
	MinThreshold     float64 `yaml:"min_threshold"`
	MaxThreshold     float64 `yaml:"max_threshold"`
}

type IndexConfig struct {
	ThumbnailSize  int      `yaml:"thumbnail_size"`
	ImageMIMETypes []string `yaml:"image_mime_types"`
}

// defaults mirrors the embedded defaults.yaml layout.
type defaults struct {
	Match MatchConfig `yaml:"match"`
	Index IndexConfig `yaml:"index"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return defaultVal
}

// envString reads an environment variable with a fallback default.
func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func Load() *Config {
	var def defaults
	if err := yaml.Unmarshal(defaultsYAML, &def); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	return &Config{
		Drive: DriveConfig{
			FolderID:        os.Getenv("DRIVE_FOLDER_ID"),
			CredentialsFile: envString("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		},
		Face: FaceConfig{
			URL: os.Getenv("FACE_API_URL"),
			Dim: envInt("FACE_API_DIM", 512),
		},
		Cache: CacheConfig{
			Path: envString("CACHE_PATH", "face_index.gob"),
		},
		Match: MatchConfig{
			DefaultThreshold: envFloat("MATCH_THRESHOLD", def.Match.DefaultThreshold),
			MinThreshold:     def.Match.MinThreshold,
			MaxThreshold:     def.Match.MaxThreshold,
		},
		Index: def.Index,
	}
}

// ClampThreshold bounds a caller-supplied threshold to the supported range.
func (c *Config) ClampThreshold(t float64) float64 {
	if t < c.Match.MinThreshold {
		return c.Match.MinThreshold
	}
	if t > c.Match.MaxThreshold {
		return c.Match.MaxThreshold
	}
	return t
}
