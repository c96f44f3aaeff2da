package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/kozaktomas/face-finder/internal/config"
	"github.com/kozaktomas/face-finder/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or load the face index for the Drive folder",
	Long: `Build the face index over the configured Drive folder, or load it from
the cache file when one exists.

The cache is trusted verbatim: folder changes are NOT detected. Use
--rebuild (or "face-finder cache clear") to force a fresh scan.

Files that fail to download or contain no detectable face are skipped
silently and reported only as a skip count.

Examples:
  # Build the index (or load the cache)
  face-finder index

  # Force a fresh scan
  face-finder index --rebuild

  # JSON output for scripting
  face-finder index --json`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().Bool("rebuild", false, "Delete the cache and rescan the folder")
	indexCmd.Flags().Bool("json", false, "Output as JSON instead of progress bar")
}

// IndexResult represents the result of an index build or load
type IndexResult struct {
	Records       int    `json:"records"`
	Skipped       int    `json:"skipped"`
	FromCache     bool   `json:"from_cache"`
	CachePath     string `json:"cache_path"`
	DurationMs    int64  `json:"duration_ms"`
	DurationHuman string `json:"duration_human,omitempty"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	rebuild := mustGetBool(cmd, "rebuild")
	jsonOutput := mustGetBool(cmd, "json")

	ctx := context.Background()
	cfg := config.Load()
	startTime := time.Now()

	store := index.NewStore(cfg.Cache.Path)

	if store.Exists() && !rebuild {
		// Cache hit needs no Drive connection at all.
		idx, err := store.Load()
		if err != nil {
			return err
		}
		return reportIndex(idx, 0, true, cfg, startTime, jsonOutput)
	}

	if !jsonOutput {
		fmt.Println("Connecting to Google Drive...")
	}
	dc, err := connectDrive(ctx, cfg)
	if err != nil {
		return err
	}

	if rebuild {
		if err := store.Clear(); err != nil {
			return err
		}
	}

	builder := newBuilder(cfg, dc)

	var bar *progressbar.ProgressBar
	if !jsonOutput {
		builder.OnProgress(func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription("Scanning folder"),
					progressbar.OptionShowCount(),
					progressbar.OptionShowIts(),
					progressbar.OptionSetItsString("photos"),
					progressbar.OptionShowElapsedTimeOnFinish(),
					progressbar.OptionSetPredictTime(true),
					progressbar.OptionFullWidth(),
				)
			}
			bar.Add(1)
		})
	}

	idx, skipped, fromCache, err := builder.BuildOrLoad(ctx, store, cfg.Drive.FolderID)
	if err != nil {
		return err
	}
	if bar != nil {
		fmt.Println()
	}

	return reportIndex(idx, skipped, fromCache, cfg, startTime, jsonOutput)
}

// reportIndex prints the index summary in the requested format.
func reportIndex(idx *index.Index, skipped int, fromCache bool, cfg *config.Config, startTime time.Time, jsonOutput bool) error {
	duration := time.Since(startTime)
	result := IndexResult{
		Records:    idx.Count(),
		Skipped:    skipped,
		FromCache:  fromCache,
		CachePath:  cfg.Cache.Path,
		DurationMs: duration.Milliseconds(),
	}

	if jsonOutput {
		return outputJSON(result)
	}

	result.DurationHuman = formatDuration(duration)
	if fromCache {
		fmt.Printf("Loaded %d indexed faces from cache (%s)\n", result.Records, result.CachePath)
	} else {
		fmt.Println("\nIndex built!")
		fmt.Printf("  Faces indexed: %d\n", result.Records)
		if result.Skipped > 0 {
			fmt.Printf("  Skipped:       %d (download failed or no face)\n", result.Skipped)
		}
		fmt.Printf("  Cache:         %s\n", result.CachePath)
		fmt.Printf("  Duration:      %s\n", result.DurationHuman)
	}

	if idx.Count() == 0 {
		fmt.Println("\nNo faces found in the Drive folder. Check DRIVE_FOLDER_ID and make sure the folder has photos with visible faces.")
	}
	return nil
}
