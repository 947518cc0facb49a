// Package prometheus renders tokengate engine metrics in the Prometheus text
// exposition format.
//
// Counters are named tokengate_*_total; the single histogram is
// tokengate_validate_latency_seconds. The histogram is omitted when latency
// histograms are disabled on the engine.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount Handler.
//   - Mutate engine state.
package prometheus
