package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "face-finder",
	Short: "Find your photos in a shared Drive folder using face matching",
	Long: `Face Finder scans a shared Google Drive folder, builds a face-embedding
index over its photos, and matches a selfie against that index so you can
pull out every photo you appear in.

The index is cached on disk after the first scan. Clear the cache with
"face-finder cache clear" to force a rescan after the folder changes.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
