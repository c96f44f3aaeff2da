package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/kozaktomas/face-finder/internal/config"
	"github.com/kozaktomas/face-finder/internal/index"
)

var indexListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the indexed photos",
	Long: `List the photos in the cached face index.

The filter matches display names case- and diacritic-insensitively,
so --filter jiri also matches "Jiří".

Examples:
  face-finder index list
  face-finder index list --filter beach
  face-finder index list --json`,
	RunE: runIndexList,
}

func init() {
	indexCmd.AddCommand(indexListCmd)

	indexListCmd.Flags().String("filter", "", "Filter by display name")
	indexListCmd.Flags().Bool("json", false, "Output as JSON")
}

// IndexListEntry is one record in the list output.
type IndexListEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func runIndexList(cmd *cobra.Command, args []string) error {
	filter := mustGetString(cmd, "filter")
	jsonOutput := mustGetBool(cmd, "json")

	cfg := config.Load()
	store := index.NewStore(cfg.Cache.Path)

	idx, err := store.Load()
	if err != nil {
		return err
	}
	if idx == nil {
		return errors.New("no index cache found: run 'face-finder index' first")
	}

	records := index.FilterByName(idx.Records, filter)

	if jsonOutput {
		entries := make([]IndexListEntry, 0, len(records))
		for _, rec := range records {
			entries = append(entries, IndexListEntry{ID: rec.ID, Name: rec.Name})
		}
		return outputJSON(entries)
	}

	if len(records) == 0 {
		fmt.Println("No indexed photos match.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tID")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\n", rec.Name, rec.ID)
	}
	w.Flush()
	fmt.Printf("\n%d photo(s), indexed at %s\n", len(records), idx.BuiltAt.Format("2006-01-02 15:04"))
	return nil
}
