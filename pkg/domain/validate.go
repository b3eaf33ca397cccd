package domain

import (
	"fmt"
	"strings"
)

// validate collects every integrity problem of the graph.
// It must run before depths are computed since the BFS assumes resolved edges.
func (g *Graph) validate() []string {
	var problems []string

	if len(g.questions) == 0 {
		return []string{"graph has no questions"}
	}
	if _, ok := g.questionIdx[g.start]; !ok {
		problems = append(problems, fmt.Sprintf("start question %q not found", g.start))
	}

	seenQuestions := make(map[string]bool, len(g.questions))
	for _, q := range g.questions {
		if q.ID == "" {
			problems = append(problems, "question with empty id")
		}
		if seenQuestions[q.ID] {
			problems = append(problems, fmt.Sprintf("duplicate question id %q", q.ID))
		}
		seenQuestions[q.ID] = true
	}

	seenResults := make(map[string]bool, len(g.results))
	for _, r := range g.results {
		if r.Title == "" {
			problems = append(problems, "result with empty title")
		}
		if seenResults[r.Title] {
			problems = append(problems, fmt.Sprintf("duplicate result title %q", r.Title))
		}
		seenResults[r.Title] = true
	}

	for _, q := range g.questions {
		if len(q.Options) == 0 {
			problems = append(problems, fmt.Sprintf("question %q has no options", q.ID))
		}
		seenOptions := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if seenOptions[o.ID] {
				problems = append(problems, fmt.Sprintf("question %q: duplicate option id %q", q.ID, o.ID))
			}
			seenOptions[o.ID] = true

			if problem := o.problem(); problem != "" {
				problems = append(problems, fmt.Sprintf("question %q: %s", q.ID, problem))
				continue
			}
			if o.Next != "" {
				if _, ok := g.questionIdx[o.Next]; !ok {
					problems = append(problems, fmt.Sprintf("question %q: option %q references missing question %q", q.ID, o.ID, o.Next))
				}
			} else if _, ok := g.resultIdx[o.Result]; !ok {
				problems = append(problems, fmt.Sprintf("question %q: option %q references missing result %q", q.ID, o.ID, o.Result))
			}
		}
	}

	if len(problems) > 0 {
		// Structural checks below need resolved edges.
		return problems
	}

	if cycle := g.findCycle(); cycle != nil {
		problems = append(problems, fmt.Sprintf("cycle detected: %s", strings.Join(cycle, " -> ")))
	}

	reachable := g.reachable()
	for _, q := range g.questions {
		if !reachable[q.ID] {
			problems = append(problems, fmt.Sprintf("question %q is unreachable from %q", q.ID, g.start))
		}
	}

	return problems
}

// findCycle returns the node path of the first cycle found by DFS, or nil.
func (g *Graph) findCycle() []string {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(g.questions))
	var stack []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = grey
		stack = append(stack, id)
		for _, o := range g.questions[g.questionIdx[id]].Options {
			if o.Next == "" {
				continue
			}
			switch color[o.Next] {
			case grey:
				for i, s := range stack {
					if s == o.Next {
						cycle = append(append([]string(nil), stack[i:]...), o.Next)
						break
					}
				}
				return true
			case white:
				if visit(o.Next) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, q := range g.questions {
		if color[q.ID] == white && visit(q.ID) {
			return cycle
		}
	}
	return nil
}

func (g *Graph) reachable() map[string]bool {
	seen := map[string]bool{}
	queue := []string{g.start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		for _, o := range g.questions[g.questionIdx[id]].Options {
			if o.Next != "" && !seen[o.Next] {
				queue = append(queue, o.Next)
			}
		}
	}
	return seen
}
