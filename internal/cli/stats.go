package cli

import (
	"fmt"
	"strings"

	"github.com/aretw0/quizflow/internal/dashboard"
)

// StatsMarkdown renders a dashboard summary as a Markdown document: a
// per-category table followed by the most recent submissions.
func StatsMarkdown(s dashboard.Summary, recent int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Submissions: %d\n\n", s.Total)

	if len(s.Categories) == 0 {
		sb.WriteString("_No submissions yet._\n")
		return sb.String()
	}

	sb.WriteString("| Result | Count | % |\n")
	sb.WriteString("|---|---:|---:|\n")
	for _, c := range s.Categories {
		fmt.Fprintf(&sb, "| %s | %d | %s |\n", escapeCell(c.Title), c.Count, c.Label)
	}

	if recent <= 0 || len(s.Recent) == 0 {
		return sb.String()
	}

	sb.WriteString("\n## Recent\n\n")
	sb.WriteString("| Submitted (UTC) | Nickname | Result |\n")
	sb.WriteString("|---|---|---|\n")
	for i, sub := range s.Recent {
		if i == recent {
			break
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n",
			sub.SubmittedAt.UTC().Format("2006-01-02 15:04:05"),
			escapeCell(sub.Nickname),
			escapeCell(sub.ResultTitle),
		)
	}
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
