package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/quizflow/internal/presentation/graph"
	"github.com/aretw0/quizflow/pkg/domain"
	"github.com/aretw0/quizflow/pkg/dsl"
)

func sample() *domain.Graph {
	b := dsl.New("start").Category("Calm \"sea\"", "").Category("Storm", "")
	b.Question("start", "Pick a path").Next("s1", "left", "left.side").Result("s2", "stay", "Calm \"sea\"")
	b.Question("left.side", "Now?").Result("l1", "go", "Storm")
	return b.MustBuild()
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Shapes and edges",
			contains: []string{
				"graph TD\n",
				`start(("Pick a path"))`,
				`left_side[/"Now?"/]`,
				`start -- "left" --> left_side`,
				`start -- "stay" --> result_0`,
				`left_side -- "go" --> result_1`,
				`result_0(["Calm #quot;sea#quot;"])`,
				`result_1(["Storm"])`,
			},
			excludes: []string{"classDef"},
		},
		{
			name:    "Overlay in progress",
			overlay: graph.OverlayFromState(&domain.State{Stage: domain.StageInProgress, QuestionID: "left.side", History: []string{"start", "left.side"}}),
			contains: []string{
				"class start visited;",
				"class left_side current;",
			},
			excludes: []string{"class left_side visited;"},
		},
		{
			name:    "Overlay completed",
			overlay: graph.OverlayFromState(&domain.State{Stage: domain.StageCompleted, ResultTitle: "Storm", History: []string{"start", "left.side"}}),
			contains: []string{
				"class start visited;",
				"class left_side visited;",
				"class result_1 current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(sample(), tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() missing %q\nGot:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() should not contain %q\nGot:\n%s", unwanted, got)
				}
			}
		})
	}
}
