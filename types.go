package tokengate

import (
	"context"
	"io"

	internalaudit "github.com/MrEthical07/tokengate/internal/audit"
	internalmetrics "github.com/MrEthical07/tokengate/internal/metrics"
)

// CredentialRecord is what a CredentialStore returns for a username.
type CredentialRecord struct {
	Username     string
	PasswordHash string
	Active       bool
}

// CredentialStore looks up stored credentials by exact username.
//
// FindActive returns ErrCredentialNotFound when no active record exists.
// Any other error is treated as the store being unavailable.
type CredentialStore interface {
	FindActive(ctx context.Context, username string) (CredentialRecord, error)
}

// PasswordVerifier hashes passwords and checks plaintext against a stored
// hash. Matches must compare in constant time with respect to the plaintext.
type PasswordVerifier interface {
	Hash(plaintext string) (string, error)
	Matches(plaintext, hash string) bool
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditKind names what an AuditEvent records.
type AuditKind = internalaudit.Kind

const (
	AuditLoginSuccess     = internalaudit.KindLoginSuccess
	AuditLoginFailure     = internalaudit.KindLoginFailure
	AuditLoginRateLimited = internalaudit.KindLoginRateLimited
	AuditTokenRejected    = internalaudit.KindTokenRejected
)

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes one JSON object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// MetricID identifies a counter or histogram in the in-process metrics.
type MetricID = internalmetrics.MetricID

const (
	MetricLoginSuccess           = internalmetrics.MetricLoginSuccess
	MetricLoginFailure           = internalmetrics.MetricLoginFailure
	MetricLoginRateLimited       = internalmetrics.MetricLoginRateLimited
	MetricLoginStoreUnavailable  = internalmetrics.MetricLoginStoreUnavailable
	MetricTokenIssued            = internalmetrics.MetricTokenIssued
	MetricTokenAccepted          = internalmetrics.MetricTokenAccepted
	MetricTokenMissing           = internalmetrics.MetricTokenMissing
	MetricTokenMalformed         = internalmetrics.MetricTokenMalformed
	MetricTokenInvalidSignature  = internalmetrics.MetricTokenInvalidSignature
	MetricTokenExpired           = internalmetrics.MetricTokenExpired
	MetricIdentityAlreadyPresent = internalmetrics.MetricIdentityAlreadyPresent
	// MetricValidateLatency is the only histogram.
	MetricValidateLatency = internalmetrics.MetricValidateLatency
)

// MetricsSnapshot is a point-in-time copy of all counters and histograms.
type MetricsSnapshot = internalmetrics.Snapshot

// MetricsConfig enables in-process metrics.
type MetricsConfig = internalmetrics.Config
