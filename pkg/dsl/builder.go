package dsl

import (
	"github.com/aretw0/quizflow/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	start     string
	order     []string
	questions map[string]*QuestionBuilder
	results   []domain.Result
}

// New creates a new graph builder starting at the given question id.
func New(start string) *Builder {
	return &Builder{
		start:     start,
		questions: make(map[string]*QuestionBuilder),
	}
}

// Question creates a new question in the graph.
// If the question already exists, it returns the existing builder.
func (b *Builder) Question(id, text string) *QuestionBuilder {
	if qb, ok := b.questions[id]; ok {
		return qb
	}
	qb := &QuestionBuilder{
		question: domain.Question{ID: id, Text: text},
		builder:  b,
	}
	b.questions[id] = qb
	b.order = append(b.order, id)
	return qb
}

// Category adds a result category.
func (b *Builder) Category(title, description string) *Builder {
	b.results = append(b.results, domain.Result{Title: title, Description: description})
	return b
}

// Build validates and compiles the graph.
func (b *Builder) Build() (*domain.Graph, error) {
	questions := make([]domain.Question, 0, len(b.order))
	for _, id := range b.order {
		questions = append(questions, b.questions[id].question)
	}
	return domain.NewGraph(b.start, questions, b.results)
}

// MustBuild is like Build but panics on invalid graphs. Intended for tests.
func (b *Builder) MustBuild() *domain.Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
