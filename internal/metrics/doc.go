// Package metrics provides lock-free counters and a latency histogram for
// login and token-check outcomes.
//
// Counters are stored in cache-line-padded uint64 slots and incremented with
// [sync/atomic.AddUint64]. The histogram uses 8 fixed buckets (≤5ms … +Inf).
// Neither allocates on the write path.
//
// Export (Prometheus text, OpenTelemetry) lives in metrics/export and reads
// Snapshot values through the root package aliases.
//
// # What this package must NOT do
//
//   - Perform I/O or network calls.
//   - Import tokengate or any sibling package.
//   - Expose global metric registries.
package metrics
