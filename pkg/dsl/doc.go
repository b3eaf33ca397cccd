/*
Package dsl provides a fluent Go builder for quizflow decision graphs.

It lets programs and tests declare a quiz in code instead of a YAML catalog file.
The resulting graph goes through the same validation as catalog files.

Example usage:

	b := dsl.New("q0")

	b.Question("q0", "Do you like tea?").
		Next("yes", "Yes", "q1").
		Result("no", "No", "Coffee Person")

	b.Question("q1", "Green or black?").
		Result("green", "Green", "Green Tea Person").
		Result("black", "Black", "Black Tea Person")

	b.Category("Coffee Person", "Prefers coffee.")
	b.Category("Green Tea Person", "Prefers green tea.")
	b.Category("Black Tea Person", "Prefers black tea.")

	graph, err := b.Build()
*/
package dsl
