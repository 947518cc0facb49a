package otel

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/tokengate"
	"github.com/MrEthical07/tokengate/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument names.
const (
	LoginsName        = "tokengate.logins"
	TokensIssuedName  = "tokengate.tokens.issued"
	TokenChecksName   = "tokengate.token.checks"
	LatencyBucketName = "tokengate.validate.latency.bucket"
	LatencyCountName  = "tokengate.validate.latency.count"
	AuditDroppedName  = "tokengate.audit.dropped"
)

// Constructor errors.
var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

// MetricsSource is what the exporter reads. *tokengate.Engine implements it.
type MetricsSource interface {
	MetricsSnapshot() tokengate.MetricsSnapshot
	AuditDropped() uint64
}

// series is one engine counter observed under a fixed attribute.
type series struct {
	id   tokengate.MetricID
	attr metric.ObserveOption
}

func labelled(key, value string, id tokengate.MetricID) series {
	return series{id: id, attr: metric.WithAttributeSet(attribute.NewSet(attribute.String(key, value)))}
}

var loginSeries = []series{
	labelled("outcome", "success", tokengate.MetricLoginSuccess),
	labelled("outcome", "failure", tokengate.MetricLoginFailure),
	labelled("outcome", "rate_limited", tokengate.MetricLoginRateLimited),
	labelled("outcome", "store_unavailable", tokengate.MetricLoginStoreUnavailable),
}

var tokenCheckSeries = []series{
	labelled("result", "accepted", tokengate.MetricTokenAccepted),
	labelled("result", "missing", tokengate.MetricTokenMissing),
	labelled("result", "malformed", tokengate.MetricTokenMalformed),
	labelled("result", "invalid_signature", tokengate.MetricTokenInvalidSignature),
	labelled("result", "expired", tokengate.MetricTokenExpired),
	labelled("result", "identity_present", tokengate.MetricIdentityAlreadyPresent),
}

// OTelExporter publishes engine metrics as observable instruments. Each
// collection reads one snapshot.
type OTelExporter struct {
	source       MetricsSource
	registration metric.Registration

	logins        metric.Int64ObservableCounter
	issued        metric.Int64ObservableCounter
	checks        metric.Int64ObservableCounter
	latencyBucket metric.Int64ObservableGauge
	latencyCount  metric.Int64ObservableGauge
	auditDropped  metric.Int64ObservableCounter

	bucketAttrs []metric.ObserveOption
}

// NewOTelExporter registers instruments on meter that read engine.
func NewOTelExporter(meter metric.Meter, engine *tokengate.Engine) (*OTelExporter, error) {
	return NewOTelExporterFromSource(meter, engine)
}

// NewOTelExporterFromSource registers instruments that read source.
func NewOTelExporterFromSource(meter metric.Meter, source MetricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &OTelExporter{source: source}
	for _, le := range internaldefs.HistogramBounds {
		e.bucketAttrs = append(e.bucketAttrs, metric.WithAttributeSet(attribute.NewSet(attribute.String("le", le))))
	}

	var err error
	if e.logins, err = meter.Int64ObservableCounter(LoginsName,
		metric.WithDescription("Login attempts by outcome.")); err != nil {
		return nil, fmt.Errorf("create %s: %w", LoginsName, err)
	}
	if e.issued, err = meter.Int64ObservableCounter(TokensIssuedName,
		metric.WithDescription("Access tokens issued.")); err != nil {
		return nil, fmt.Errorf("create %s: %w", TokensIssuedName, err)
	}
	if e.checks, err = meter.Int64ObservableCounter(TokenChecksName,
		metric.WithDescription("Bearer token checks by result.")); err != nil {
		return nil, fmt.Errorf("create %s: %w", TokenChecksName, err)
	}
	if e.latencyBucket, err = meter.Int64ObservableGauge(LatencyBucketName,
		metric.WithDescription("Cumulative ValidateToken latency bucket counts."),
		metric.WithUnit("{call}")); err != nil {
		return nil, fmt.Errorf("create %s: %w", LatencyBucketName, err)
	}
	if e.latencyCount, err = meter.Int64ObservableGauge(LatencyCountName,
		metric.WithDescription("ValidateToken calls observed by the latency histogram."),
		metric.WithUnit("{call}")); err != nil {
		return nil, fmt.Errorf("create %s: %w", LatencyCountName, err)
	}
	if e.auditDropped, err = meter.Int64ObservableCounter(AuditDroppedName,
		metric.WithDescription("Audit events dropped under dispatcher backpressure.")); err != nil {
		return nil, fmt.Errorf("create %s: %w", AuditDroppedName, err)
	}

	e.registration, err = meter.RegisterCallback(e.observe,
		e.logins, e.issued, e.checks, e.latencyBucket, e.latencyCount, e.auditDropped)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	return e, nil
}

func (e *OTelExporter) observe(_ context.Context, o metric.Observer) error {
	snap := e.source.MetricsSnapshot()

	for _, s := range loginSeries {
		o.ObserveInt64(e.logins, int64(snap.Counters[s.id]), s.attr)
	}
	for _, s := range tokenCheckSeries {
		o.ObserveInt64(e.checks, int64(snap.Counters[s.id]), s.attr)
	}
	o.ObserveInt64(e.issued, int64(snap.Counters[tokengate.MetricTokenIssued]))

	if raw, ok := snap.Histograms[tokengate.MetricValidateLatency]; ok {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		for i, attr := range e.bucketAttrs {
			o.ObserveInt64(e.latencyBucket, int64(cumulative[i]), attr)
		}
		o.ObserveInt64(e.latencyCount, int64(cumulative[len(cumulative)-1]))
	}

	o.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))
	return nil
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
