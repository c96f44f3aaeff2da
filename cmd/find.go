package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/kozaktomas/face-finder/internal/config"
	"github.com/kozaktomas/face-finder/internal/drive"
	"github.com/kozaktomas/face-finder/internal/face"
	"github.com/kozaktomas/face-finder/internal/index"
)

var findCmd = &cobra.Command{
	Use:   "find <selfie>",
	Short: "Find photos of the person in a selfie",
	Long: `Match a selfie against the cached face index and list the photos the
same person appears in.

The threshold is the maximum cosine distance between face embeddings
(0.30-0.70, lower = stricter). 0.50 is a good default.

Examples:
  # Match a selfie at the default threshold
  face-finder find selfie.jpg

  # Stricter matching
  face-finder find selfie.jpg --threshold 0.4

  # Export the matched originals
  face-finder find selfie.jpg --save-matches ./my-photos

  # JSON output
  face-finder find selfie.jpg --json`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)

	findCmd.Flags().Float64("threshold", 0.5, "Maximum cosine distance for face matching (lower = stricter)")
	findCmd.Flags().Int("limit", 0, "Limit number of results (0 = no limit)")
	findCmd.Flags().Bool("json", false, "Output as JSON")
	findCmd.Flags().String("save-matches", "", "Download matched originals to this directory")
}

// FindMatch is one matched photo in the find output.
type FindMatch struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Distance   float64 `json:"distance"`
	Confidence float64 `json:"confidence"`
	Saved      bool    `json:"saved,omitempty"`
	SaveError  string  `json:"save_error,omitempty"`
}

// FindOutput represents the JSON output structure
type FindOutput struct {
	NoFace    bool        `json:"no_face"`
	Threshold float64     `json:"threshold"`
	Count     int         `json:"count"`
	Matches   []FindMatch `json:"matches"`
}

func runFind(cmd *cobra.Command, args []string) error {
	selfiePath := args[0]
	threshold := mustGetFloat64(cmd, "threshold")
	limit := mustGetInt(cmd, "limit")
	jsonOutput := mustGetBool(cmd, "json")
	saveDir := mustGetString(cmd, "save-matches")

	ctx := context.Background()
	cfg := config.Load()
	threshold = cfg.ClampThreshold(threshold)

	idx, err := index.NewStore(cfg.Cache.Path).Load()
	if err != nil {
		return err
	}
	if idx.Count() == 0 {
		return errors.New("nothing to search: the index is empty, run 'face-finder index' first")
	}

	imageData, err := os.ReadFile(selfiePath)
	if err != nil {
		return fmt.Errorf("could not read selfie: %w", err)
	}

	embedding, err := face.NewClient(cfg.Face.URL).Extract(ctx, imageData)
	if err != nil {
		return fmt.Errorf("could not extract face embedding: %w", err)
	}
	if embedding == nil {
		if jsonOutput {
			return outputJSON(FindOutput{NoFace: true, Threshold: threshold, Matches: []FindMatch{}})
		}
		fmt.Println("No face detected in your photo. Retake it with better lighting, facing the camera directly.")
		return nil
	}

	results := index.Match(embedding, idx.Records, threshold)
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}

	matches := make([]FindMatch, 0, len(results))
	for _, m := range results {
		matches = append(matches, FindMatch{
			ID:         m.ID,
			Name:       m.Name,
			Distance:   m.Distance,
			Confidence: m.Confidence,
		})
	}

	if saveDir != "" && len(matches) > 0 {
		if err := saveMatches(ctx, cfg, matches, saveDir, jsonOutput); err != nil {
			return err
		}
	}

	if jsonOutput {
		return outputJSON(FindOutput{Threshold: threshold, Count: len(matches), Matches: matches})
	}

	if len(matches) == 0 {
		fmt.Println("No matching photos found. Try raising --threshold to loosen the matching.")
		return nil
	}

	fmt.Printf("Found %d matching photo(s):\n\n", len(matches))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CONFIDENCE\tNAME\tID")
	for _, m := range matches {
		fmt.Fprintf(w, "%.1f%%\t%s\t%s\n", m.Confidence, m.Name, m.ID)
	}
	w.Flush()
	return nil
}

// saveMatches re-downloads the matched originals from Drive into saveDir,
// recording per-file outcomes on the match entries. A single failed
// download does not abort the export.
func saveMatches(ctx context.Context, cfg *config.Config, matches []FindMatch, saveDir string, jsonOutput bool) error {
	dc, err := connectDrive(ctx, cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(saveDir, 0750); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}

	saved := 0
	for i := range matches {
		if err := saveOriginal(ctx, dc, &matches[i], saveDir); err != nil {
			matches[i].SaveError = err.Error()
			continue
		}
		matches[i].Saved = true
		saved++
	}

	if !jsonOutput {
		fmt.Printf("Saved %d/%d original(s) to %s\n\n", saved, len(matches), saveDir)
	}
	return nil
}

// saveOriginal downloads one original and writes it under its display name.
func saveOriginal(ctx context.Context, dc *drive.Client, match *FindMatch, saveDir string) error {
	data, err := dc.Download(ctx, match.ID)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	outPath := filepath.Join(saveDir, filepath.Base(match.Name))
	if err := os.WriteFile(outPath, data, 0600); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}
