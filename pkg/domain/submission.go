package domain

import "time"

// Submission is one persisted completed run.
// Records are append-only and are removed only by a bulk reset.
type Submission struct {
	ID          string    `json:"id"`
	Nickname    string    `json:"nickname"`
	ResultTitle string    `json:"result_title"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Tally counts occurrences of each result title.
// Titles that never occur are absent from the map.
func Tally(titles []string) map[string]int {
	counts := make(map[string]int)
	for _, t := range titles {
		counts[t]++
	}
	return counts
}
