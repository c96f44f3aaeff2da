package index

import "sort"

// MatchResult is a FaceRecord scored against a query embedding.
// Derived per query, never persisted.
type MatchResult struct {
	FaceRecord
	Distance   float64 // cosine distance to the query embedding
	Confidence float64 // (1 - distance) * 100, clamped to [0, 100]
}

// Match scores every record against the query embedding and returns the
// records whose cosine distance is at or below the threshold, sorted by
// descending confidence. Ties keep the original record order. An empty
// record sequence yields an empty result, not an error.
func Match(query []float32, records []FaceRecord, threshold float64) []MatchResult {
	matches := make([]MatchResult, 0)
	for _, rec := range records {
		dist := CosineDistance(query, rec.Embedding)
		if dist > threshold {
			continue
		}
		matches = append(matches, MatchResult{
			FaceRecord: rec,
			Distance:   dist,
			Confidence: confidence(dist),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	return matches
}

// confidence converts a cosine distance to a [0, 100] match percentage.
func confidence(distance float64) float64 {
	c := (1 - distance) * 100
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
