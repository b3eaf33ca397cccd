package domain

import "fmt"

// DestinationKind tells where an Option leads.
type DestinationKind int

const (
	// DestinationQuestion moves the participant to another question.
	DestinationQuestion DestinationKind = iota + 1
	// DestinationResult ends the run with a result category.
	DestinationResult
)

func (k DestinationKind) String() string {
	switch k {
	case DestinationQuestion:
		return "question"
	case DestinationResult:
		return "result"
	default:
		return "unknown"
	}
}

// Option is one answer of a Question.
// Exactly one of Next or Result must be set.
type Option struct {
	ID     string `json:"id" yaml:"id"`
	Text   string `json:"text" yaml:"text"`
	Next   string `json:"next_question_id,omitempty" yaml:"next,omitempty"`
	Result string `json:"result_title,omitempty" yaml:"result,omitempty"`
}

// Destination returns the kind of node this option leads to and its key.
func (o Option) Destination() (DestinationKind, string, error) {
	if problem := o.problem(); problem != "" {
		return 0, "", &ConfigurationError{Problems: []string{problem}}
	}
	if o.Next != "" {
		return DestinationQuestion, o.Next, nil
	}
	return DestinationResult, o.Result, nil
}

func (o Option) problem() string {
	switch {
	case o.Next != "" && o.Result != "":
		return fmt.Sprintf("option %q has both a next question and a result", o.ID)
	case o.Next == "" && o.Result == "":
		return fmt.Sprintf("option %q has no destination", o.ID)
	}
	return ""
}

// Question is a non-terminal node of the graph.
type Question struct {
	ID      string   `json:"id" yaml:"id"`
	Text    string   `json:"text" yaml:"text"`
	Options []Option `json:"options" yaml:"options"`
}

// Option looks up one of the question's options by id.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Result is a terminal classification of a run.
type Result struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
}

// Graph is the validated, immutable decision graph.
// Safe for concurrent use.
type Graph struct {
	start     string
	questions []Question
	results   []Result

	questionIdx map[string]int
	resultIdx   map[string]int
	depth       map[string]int
	maxDepth    int
}

// NewGraph validates the given nodes and returns an immutable Graph.
// Any integrity problem is reported as a *ConfigurationError.
func NewGraph(start string, questions []Question, results []Result) (*Graph, error) {
	g := &Graph{
		start:       start,
		questions:   cloneQuestions(questions),
		results:     append([]Result(nil), results...),
		questionIdx: make(map[string]int, len(questions)),
		resultIdx:   make(map[string]int, len(results)),
	}
	for i, q := range g.questions {
		if _, dup := g.questionIdx[q.ID]; !dup {
			g.questionIdx[q.ID] = i
		}
	}
	for i, r := range g.results {
		if _, dup := g.resultIdx[r.Title]; !dup {
			g.resultIdx[r.Title] = i
		}
	}

	if problems := g.validate(); len(problems) > 0 {
		return nil, &ConfigurationError{Problems: problems}
	}

	g.depth, g.maxDepth = g.computeDepths()
	return g, nil
}

// Start returns the id of the first question.
func (g *Graph) Start() string { return g.start }

// Question looks up a question by id.
func (g *Graph) Question(id string) (Question, bool) {
	i, ok := g.questionIdx[id]
	if !ok {
		return Question{}, false
	}
	return cloneQuestions(g.questions[i : i+1])[0], true
}

// Result looks up a result category by title.
func (g *Graph) Result(title string) (Result, bool) {
	i, ok := g.resultIdx[title]
	if !ok {
		return Result{}, false
	}
	return g.results[i], true
}

// Questions returns all questions in authoring order.
func (g *Graph) Questions() []Question { return cloneQuestions(g.questions) }

// Results returns all result categories in authoring order.
func (g *Graph) Results() []Result { return append([]Result(nil), g.results...) }

// Depth returns the number of hops on the shortest path from the start question.
func (g *Graph) Depth(questionID string) (int, bool) {
	d, ok := g.depth[questionID]
	return d, ok
}

// MaxDepth returns the largest question depth in the graph.
func (g *Graph) MaxDepth() int { return g.maxDepth }

// computeDepths runs a BFS over question-to-question edges.
func (g *Graph) computeDepths() (map[string]int, int) {
	depth := map[string]int{g.start: 0}
	queue := []string{g.start}
	maxDepth := 0

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		q := g.questions[g.questionIdx[id]]
		for _, o := range q.Options {
			if o.Next == "" {
				continue
			}
			if _, seen := depth[o.Next]; seen {
				continue
			}
			depth[o.Next] = depth[id] + 1
			if depth[o.Next] > maxDepth {
				maxDepth = depth[o.Next]
			}
			queue = append(queue, o.Next)
		}
	}
	return depth, maxDepth
}

func cloneQuestions(in []Question) []Question {
	out := make([]Question, len(in))
	for i, q := range in {
		out[i] = q
		out[i].Options = append([]Option(nil), q.Options...)
	}
	return out
}
