/*
Package quizflow runs a branching personality quiz: a participant enters a
nickname, answers questions whose options lead either to another question or
to a result category, and the completed run is recorded in a result store that
an administrator reviews on a live dashboard.

The quiz is a validated decision graph (see pkg/domain and pkg/catalog). The
Engine in this package is stateless by value: every transition takes the
current domain.State and returns the next one, so hosts (the HTTP adapter, the
terminal Runner) decide where the state lives.

# Usage

	eng, err := quizflow.New(quizflow.WithStore(store))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	state, err := eng.Begin(ctx, domain.NewState(), "Alice")
	if err != nil {
		log.Fatal(err)
	}

	out, err := eng.Select(ctx, state, "q1_opt1")
	if err != nil {
		log.Fatal(err)
	}
	if out.Result != nil {
		fmt.Println(out.Result.Title, out.Persisted)
	}

A completed run is written to the store as part of Select. Write failures do
not fail the transition: the participant still sees the result, and
Outcome.Persisted reports whether the record was kept.
*/
package quizflow
