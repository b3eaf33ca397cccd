// Package dashboard aggregates stored submissions into the administrator's view.
package dashboard

import (
	"math"
	"sort"
	"strconv"

	"github.com/aretw0/quizflow/pkg/domain"
)

// Share is one category line of the dashboard.
type Share struct {
	Title   string  `json:"title"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	Label   string  `json:"label"`
}

// Summary is a point-in-time view of all submissions.
type Summary struct {
	Total      int                 `json:"total"`
	Categories []Share             `json:"categories"`
	Recent     []domain.Submission `json:"recent"`
}

// Summarize builds a Summary from a newest-first submission list and per-category counts.
// Percentages are rounded to one decimal place.
func Summarize(submissions []domain.Submission, counts map[string]int) Summary {
	total := len(submissions)

	shares := make([]Share, 0, len(counts))
	for title, count := range counts {
		if count <= 0 {
			continue
		}
		share := Share{Title: title, Count: count, Label: "0"}
		if total > 0 {
			share.Percent = math.Round(float64(count)/float64(total)*1000) / 10
			share.Label = strconv.FormatFloat(share.Percent, 'f', 1, 64)
		}
		shares = append(shares, share)
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Title < shares[j].Title
	})

	recent := make([]domain.Submission, len(submissions))
	copy(recent, submissions)

	return Summary{
		Total:      total,
		Categories: shares,
		Recent:     recent,
	}
}
