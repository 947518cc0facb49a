package internaldefs

import (
	"github.com/MrEthical07/tokengate"
)

// CounterDef maps an engine counter to its exported name.
type CounterDef struct {
	ID   tokengate.MetricID
	Name string
	Help string
}

// HistogramDef maps an engine histogram to its exported name.
type HistogramDef struct {
	ID   tokengate.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: tokengate.MetricLoginSuccess, Name: "tokengate_login_success_total", Help: "Successful login attempts."},
	{ID: tokengate.MetricLoginFailure, Name: "tokengate_login_failure_total", Help: "Failed login attempts."},
	{ID: tokengate.MetricLoginRateLimited, Name: "tokengate_login_rate_limited_total", Help: "Login attempts rejected by the throttle."},
	{ID: tokengate.MetricLoginStoreUnavailable, Name: "tokengate_login_store_unavailable_total", Help: "Login attempts that failed on the credential store."},
	{ID: tokengate.MetricTokenIssued, Name: "tokengate_token_issued_total", Help: "Access tokens issued."},
	{ID: tokengate.MetricTokenAccepted, Name: "tokengate_token_accepted_total", Help: "Tokens that passed validation."},
	{ID: tokengate.MetricTokenMissing, Name: "tokengate_token_missing_total", Help: "Requests without a bearer token."},
	{ID: tokengate.MetricTokenMalformed, Name: "tokengate_token_malformed_total", Help: "Structurally invalid tokens."},
	{ID: tokengate.MetricTokenInvalidSignature, Name: "tokengate_token_invalid_signature_total", Help: "Tokens with a bad signature, algorithm or issuer."},
	{ID: tokengate.MetricTokenExpired, Name: "tokengate_token_expired_total", Help: "Tokens rejected as expired."},
	{ID: tokengate.MetricIdentityAlreadyPresent, Name: "tokengate_identity_already_present_total", Help: "Interceptor runs that found an identity already attached."},
}

var HistogramDefs = []HistogramDef{
	{ID: tokengate.MetricValidateLatency, Name: "tokengate_validate_latency_seconds", Help: "ValidateToken latency histogram."},
}

// AuditDroppedName is the counter for audit events lost to backpressure.
const AuditDroppedName = "tokengate_audit_dropped_total"

// HistogramBounds are the upper bounds, in seconds, of the engine's fixed
// latency buckets.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// NormalizeBuckets copies raw into a fixed array, zero-filling short input.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
