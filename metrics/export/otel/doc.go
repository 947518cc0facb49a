// Package otel exposes tokengate engine metrics as OpenTelemetry observable
// instruments.
//
// Login outcomes share the tokengate.logins counter under an "outcome"
// attribute; token checks share tokengate.token.checks under "result".
// ValidateToken latency is a cumulative gauge per "le" bound plus a count.
// One callback reads Engine.MetricsSnapshot per collection cycle.
//
// The caller owns the MeterProvider; the exporter never mutates engine state.
package otel
