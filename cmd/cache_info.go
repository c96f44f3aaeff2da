package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/kozaktomas/face-finder/internal/config"
	"github.com/kozaktomas/face-finder/internal/index"
)

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show face index cache details",
	RunE:  runCacheInfo,
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)

	cacheInfoCmd.Flags().Bool("json", false, "Output as JSON")
}

// CacheInfo represents the cache info output
type CacheInfo struct {
	Exists    bool       `json:"exists"`
	Path      string     `json:"path"`
	SizeBytes int64      `json:"size_bytes,omitempty"`
	Records   int        `json:"records,omitempty"`
	BuiltAt   *time.Time `json:"built_at,omitempty"`
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")

	cfg := config.Load()
	store := index.NewStore(cfg.Cache.Path)

	info := CacheInfo{Path: store.Path()}

	idx, err := store.Load()
	if err != nil {
		return err
	}
	if idx != nil {
		info.Exists = true
		info.Records = idx.Count()
		info.BuiltAt = &idx.BuiltAt
		if stat, err := os.Stat(store.Path()); err == nil {
			info.SizeBytes = stat.Size()
		}
	}

	if jsonOutput {
		return outputJSON(info)
	}

	if !info.Exists {
		fmt.Printf("No cache at %s. Run 'face-finder index' to build one.\n", info.Path)
		return nil
	}

	fmt.Printf("Cache:   %s (%.1f KiB)\n", info.Path, float64(info.SizeBytes)/1024)
	fmt.Printf("Records: %d\n", info.Records)
	fmt.Printf("Built:   %s (%s ago)\n", info.BuiltAt.Format("2006-01-02 15:04:05"), formatDuration(time.Since(*info.BuiltAt)))
	return nil
}
