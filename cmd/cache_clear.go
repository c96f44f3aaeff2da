package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/kozaktomas/face-finder/internal/config"
	"github.com/kozaktomas/face-finder/internal/index"
)

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the face index cache",
	Long: `Delete the cached face index so the next "face-finder index" rescans
the Drive folder from scratch.

Example:
  face-finder cache clear --yes`,
	RunE: runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)

	cacheClearCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
}

func confirmAction(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	skipConfirm := mustGetBool(cmd, "yes")

	cfg := config.Load()
	store := index.NewStore(cfg.Cache.Path)

	if !store.Exists() {
		fmt.Printf("No cache at %s, nothing to clear.\n", store.Path())
		return nil
	}

	if !skipConfirm && !confirmAction(fmt.Sprintf("Delete the index cache at %s? [y/N]: ", store.Path())) {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	fmt.Printf("Cache cleared. Run 'face-finder index' to rescan the folder.\n")
	return nil
}
