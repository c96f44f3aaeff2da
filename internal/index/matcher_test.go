package index

import (
	"testing"
)

func matchRecords() []FaceRecord {
	return []FaceRecord{
		{ID: "a", Name: "alice.jpg", Embedding: []float32{1, 0, 0}},
		{ID: "b", Name: "bob.jpg", Embedding: []float32{0.9, 0.1, 0}},
		{ID: "c", Name: "carol.jpg", Embedding: []float32{0, 1, 0}},
		{ID: "d", Name: "dave.jpg", Embedding: []float32{-1, 0, 0}},
	}
}

func TestMatchThresholdFiltering(t *testing.T) {
	query := []float32{1, 0, 0}

	tests := []struct {
		name      string
		threshold float64
		wantIDs   []string
	}{
		{"strict keeps exact and near", 0.3, []string{"a", "b"}},
		{"very strict keeps exact only", 0.001, []string{"a"}},
		{"loose keeps orthogonal too", 1.0, []string{"a", "b", "c"}},
		{"maximal keeps everything", 2.0, []string{"a", "b", "c", "d"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			results := Match(query, matchRecords(), tc.threshold)
			if len(results) != len(tc.wantIDs) {
				t.Fatalf("Match returned %d results; want %d", len(results), len(tc.wantIDs))
			}
			for i, want := range tc.wantIDs {
				if results[i].ID != want {
					t.Errorf("results[%d].ID = %q; want %q", i, results[i].ID, want)
				}
			}
		})
	}
}

func TestMatchThresholdMonotonic(t *testing.T) {
	// A looser threshold must return a superset of a stricter one.
	query := []float32{0.8, 0.2, 0.1}
	records := matchRecords()

	strict := Match(query, records, 0.3)
	loose := Match(query, records, 0.7)

	if len(strict) > len(loose) {
		t.Fatalf("stricter threshold returned more results: %d > %d", len(strict), len(loose))
	}
	looseIDs := make(map[string]bool, len(loose))
	for _, m := range loose {
		looseIDs[m.ID] = true
	}
	for _, m := range strict {
		if !looseIDs[m.ID] {
			t.Errorf("record %q matched at 0.3 but not at 0.7", m.ID)
		}
	}
}

func TestMatchSortedByConfidence(t *testing.T) {
	query := []float32{1, 0, 0}
	results := Match(query, matchRecords(), 2.0)

	for i := 1; i < len(results); i++ {
		if results[i].Confidence > results[i-1].Confidence {
			t.Errorf("results not sorted: [%d]=%f > [%d]=%f",
				i, results[i].Confidence, i-1, results[i-1].Confidence)
		}
	}
}

func TestMatchTieKeepsRecordOrder(t *testing.T) {
	// Identical embeddings produce identical confidence; original order wins.
	records := []FaceRecord{
		{ID: "first", Embedding: []float32{1, 0, 0}},
		{ID: "second", Embedding: []float32{1, 0, 0}},
		{ID: "third", Embedding: []float32{1, 0, 0}},
	}

	results := Match([]float32{1, 0, 0}, records, 0.5)
	want := []string{"first", "second", "third"}
	for i, id := range want {
		if results[i].ID != id {
			t.Errorf("results[%d].ID = %q; want %q", i, results[i].ID, id)
		}
	}
}

func TestMatchEmptyRecords(t *testing.T) {
	results := Match([]float32{1, 0, 0}, nil, 0.5)
	if results == nil {
		t.Fatal("Match should return an empty slice, not nil")
	}
	if len(results) != 0 {
		t.Errorf("Match on empty records returned %d results; want 0", len(results))
	}
}

func TestMatchConfidenceRange(t *testing.T) {
	query := []float32{1, 0, 0}
	results := Match(query, matchRecords(), 2.0)

	for _, m := range results {
		if m.Confidence < 0 || m.Confidence > 100 {
			t.Errorf("confidence for %q = %f; out of [0, 100]", m.ID, m.Confidence)
		}
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		expected float64
	}{
		{"identical", 0.0, 100},
		{"half", 0.5, 50},
		{"orthogonal", 1.0, 0},
		{"opposite clamps to zero", 2.0, 0},
		{"negative clamps to hundred", -0.1, 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := confidence(tc.distance)
			if got != tc.expected {
				t.Errorf("confidence(%f) = %f; want %f", tc.distance, got, tc.expected)
			}
		})
	}
}
