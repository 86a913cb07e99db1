package internal

import (
	"cmp"
	"slices"
)

type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// RankPredictions orders predictions by descending score. Equal scores keep
// the order the backend returned them in.
func RankPredictions(predictions []Prediction) []string {
	sorted := slices.Clone(predictions)
	slices.SortStableFunc(sorted, func(a, b Prediction) int {
		return cmp.Compare(b.Score, a.Score)
	})

	labels := make([]string, 0, len(sorted))
	for _, p := range sorted {
		labels = append(labels, p.Label)
	}
	return labels
}
