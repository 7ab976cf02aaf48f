// Package report ranks score results and renders them as a static HTML page
// and a console table.
package report

import (
	"sort"
	"strconv"

	"github.com/okian/medaldraft/internal/domain/model"
)

// Rank orders results by descending points. Ties keep roster order and share
// a rank; the rank after a tie skips ahead (1, 2, 2, 4).
func Rank(results []model.ScoreResult) []model.Standing {
	sorted := append([]model.ScoreResult(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		return sorted[i].Order < sorted[j].Order
	})

	standings := make([]model.Standing, len(sorted))
	for i, r := range sorted {
		rank := i + 1
		if i > 0 && r.Points == sorted[i-1].Points {
			rank = standings[i-1].Rank
		}
		standings[i] = model.Standing{Rank: rank, Result: r}
	}
	return standings
}

// FormatPoints renders points without trailing zeros: 8, 3.25, 0.5.
func FormatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
