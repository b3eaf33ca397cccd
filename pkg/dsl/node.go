package dsl

import "github.com/aretw0/quizflow/pkg/domain"

// QuestionBuilder provides a fluent API for configuring a question.
type QuestionBuilder struct {
	question domain.Question
	builder  *Builder
}

// Next adds an option leading to another question.
func (q *QuestionBuilder) Next(optionID, text, questionID string) *QuestionBuilder {
	q.question.Options = append(q.question.Options, domain.Option{
		ID:   optionID,
		Text: text,
		Next: questionID,
	})
	return q
}

// Result adds an option ending the run with the given result title.
func (q *QuestionBuilder) Result(optionID, text, resultTitle string) *QuestionBuilder {
	q.question.Options = append(q.question.Options, domain.Option{
		ID:     optionID,
		Text:   text,
		Result: resultTitle,
	})
	return q
}

// Option appends a raw option. No destination checks happen until Build.
func (q *QuestionBuilder) Option(o domain.Option) *QuestionBuilder {
	q.question.Options = append(q.question.Options, o)
	return q
}

// Build returns the underlying domain.Question.
func (q *QuestionBuilder) Build() domain.Question {
	return q.question
}
