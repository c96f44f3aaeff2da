package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kozaktomas/face-finder/internal/config"
	"github.com/kozaktomas/face-finder/internal/drive"
	"github.com/kozaktomas/face-finder/internal/face"
	"github.com/kozaktomas/face-finder/internal/index"
)

// connectDrive builds the Drive client and verifies both the credentials
// and access to the configured folder. Any failure here is fatal: the
// commands halt instead of proceeding with a broken connection.
func connectDrive(ctx context.Context, cfg *config.Config) (*drive.Client, error) {
	if cfg.Drive.FolderID == "" {
		return nil, errors.New("DRIVE_FOLDER_ID environment variable is required")
	}
	if _, err := os.Stat(cfg.Drive.CredentialsFile); err != nil {
		return nil, fmt.Errorf("credentials file %q not found: place a service account key there or set GOOGLE_CREDENTIALS_FILE", cfg.Drive.CredentialsFile)
	}

	dc, err := drive.NewClient(cfg.Drive.CredentialsFile, cfg.Index.ImageMIMETypes)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Google Drive: %w", err)
	}

	if _, err := dc.FolderInfo(ctx, cfg.Drive.FolderID); err != nil {
		return nil, fmt.Errorf("cannot access folder %s: share it with the service account and check DRIVE_FOLDER_ID: %w", cfg.Drive.FolderID, err)
	}
	return dc, nil
}

// newBuilder wires the index builder over the Drive and face clients.
func newBuilder(cfg *config.Config, dc *drive.Client) *index.Builder {
	return index.NewBuilder(dc, face.NewClient(cfg.Face.URL), cfg.Index.ThumbnailSize)
}

// outputJSON prints a value as indented JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatDuration formats a duration as a human-readable string
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
