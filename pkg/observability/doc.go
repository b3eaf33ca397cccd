/*
Package observability exposes quizflow's Prometheus metrics.

Flow transitions are recorded through domain.FlowHooks, so the engine stays
unaware of metrics; store outcomes and dashboard refreshes are reported by
their callers.
*/
package observability
