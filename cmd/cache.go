package cmd

import (
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the face index cache",
	Long: `Manage the on-disk face index cache.

The cache is never invalidated automatically: folder changes only show
up after "face-finder cache clear" followed by a fresh "face-finder index".`,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}
