/*
Package ports defines the driven ports (interfaces) of the quizflow engine.

These interfaces decouple the flow and dashboard logic from the result store, so the
same application runs against an in-memory store, a SQLite file or a shared Redis.

# Key Interfaces

  - SubmissionStore: append-only storage of completed runs with aggregate reads.
  - ChangeNotifier: payload-free change signals consumers react to by re-reading.
*/
package ports
