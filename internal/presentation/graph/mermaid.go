// Package graph renders the decision graph for humans.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/quizflow/pkg/domain"
)

// Overlay marks a participant's path on the rendered graph.
type Overlay struct {
	Visited []string // question ids, in order
	Current string   // question id or result title
}

// OverlayFromState builds an overlay from a run's state.
func OverlayFromState(s *domain.State) *Overlay {
	o := &Overlay{Visited: s.History}
	switch s.Stage {
	case domain.StageInProgress:
		o.Current = s.QuestionID
	case domain.StageCompleted:
		o.Current = s.ResultTitle
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of g:
// - Start question: ((Circle))
// - Question: [/Parallelogram/]
// - Result: ([Stadium])
// Edges are labelled with the option text.
func GenerateMermaid(g *domain.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	// Result titles are free text; give them stable ASCII ids.
	resultIDs := make(map[string]string)
	for i, r := range g.Results() {
		resultIDs[r.Title] = fmt.Sprintf("result_%d", i)
	}

	for _, q := range g.Questions() {
		safeID := sanitizeMermaidID(q.ID)
		opener, closer := "[/", "/]"
		if q.ID == g.Start() {
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(q.Text), closer)

		for _, opt := range q.Options {
			var to string
			kind, target, err := opt.Destination()
			if err != nil {
				continue
			}
			if kind == domain.DestinationQuestion {
				to = sanitizeMermaidID(target)
			} else {
				to = resultIDs[target]
			}
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, escapeLabel(opt.Text), to)
		}
	}

	for _, r := range g.Results() {
		fmt.Fprintf(&sb, "    %s([\"%s\"])\n", resultIDs[r.Title], escapeLabel(r.Title))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high contrast regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Visited {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] && id != overlay.Current {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.Current != "" {
			current := sanitizeMermaidID(overlay.Current)
			if id, ok := resultIDs[overlay.Current]; ok {
				current = id
			}
			fmt.Fprintf(&sb, "    class %s current;\n", current)
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
