/*
Package domain contains the core domain models of the quizflow engine.

It defines the static decision graph (questions, options and result categories),
the flow state that advances a single participant through that graph, and the
persisted submission records. The package is pure: it performs no I/O and has no
dependencies beyond the standard library.

# Key Entities

  - Graph: the validated, immutable decision graph. Built only via NewGraph.
  - Question / Option / Result: graph nodes. Every Option leads to exactly one
    destination, either the next Question or a terminal Result.
  - State: the runtime snapshot of one participant (stage, nickname, position).
  - Submission: one completed run as stored by a SubmissionStore.
*/
package domain
