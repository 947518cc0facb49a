package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MrEthical07/tokengate"
	"github.com/MrEthical07/tokengate/store"
	"golang.org/x/crypto/bcrypt"
)

type fakeSource struct {
	snapshot tokengate.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() tokengate.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                       { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: tokengate.MetricsSnapshot{
			Counters:   map[tokengate.MetricID]uint64{},
			Histograms: map[tokengate.MetricID][]uint64{},
		},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderIncludesCounterAndHistogram(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: tokengate.MetricsSnapshot{
			Counters: map[tokengate.MetricID]uint64{
				tokengate.MetricLoginSuccess: 7,
				tokengate.MetricTokenExpired: 3,
			},
			Histograms: map[tokengate.MetricID][]uint64{
				tokengate.MetricValidateLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	for _, want := range []string{
		"tokengate_login_success_total 7",
		"tokengate_token_expired_total 3",
		"tokengate_token_missing_total 0",
		"tokengate_validate_latency_seconds_bucket{le=\"0.005\"} 1",
		"tokengate_validate_latency_seconds_bucket{le=\"+Inf\"} 36",
		"tokengate_validate_latency_seconds_count 36",
		"tokengate_audit_dropped_total 2",
		"# TYPE tokengate_validate_latency_seconds histogram",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestRenderOmitsHistogramWhenDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: tokengate.MetricsSnapshot{
			Counters:   map[tokengate.MetricID]uint64{tokengate.MetricLoginSuccess: 1},
			Histograms: map[tokengate.MetricID][]uint64{},
		},
	})

	if out := exp.Render(); strings.Contains(out, "validate_latency") {
		t.Fatalf("expected no histogram, got:\n%s", out)
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: tokengate.MetricsSnapshot{
			Counters:   map[tokengate.MetricID]uint64{tokengate.MetricLoginSuccess: 1},
			Histograms: map[tokengate.MetricID][]uint64{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestExporterReadsEngine(t *testing.T) {
	cfg := tokengate.DefaultConfig()
	cfg.JWT.Secret = []byte("exporter-secret-exporter-secret-exp!")
	cfg.Password.BcryptCost = bcrypt.MinCost
	cfg.Metrics.Enabled = true

	engine, err := tokengate.New().WithConfig(cfg).WithCredentialStore(store.NewMemoryStore()).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer engine.Close()

	token, err := engine.IssueToken("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := engine.ValidateToken(context.Background(), token); err != nil {
		t.Fatalf("validate: %v", err)
	}

	out := NewPrometheusExporter(engine).Render()
	if !strings.Contains(out, "tokengate_token_issued_total 1") || !strings.Contains(out, "tokengate_token_accepted_total 1") {
		t.Fatalf("unexpected exporter output:\n%s", out)
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: tokengate.MetricsSnapshot{
			Counters: map[tokengate.MetricID]uint64{
				tokengate.MetricLoginSuccess:  1000,
				tokengate.MetricLoginFailure:  40,
				tokengate.MetricTokenAccepted: 90000,
				tokengate.MetricTokenExpired:  120,
			},
			Histograms: map[tokengate.MetricID][]uint64{
				tokengate.MetricValidateLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
