package tokengate

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestBuildConfigImmutabilityAgainstExternalMutation(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.Secret = []byte("mutable-secret-mutable-secret-mutable")

	engine := newTestEngine(t, cfg, newTestStore(), nil)
	token, err := engine.IssueToken("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cfg.JWT.Secret[0] = 'X'

	if _, err := engine.ValidateToken(context.Background(), token); err != nil {
		t.Fatalf("engine secret mutated from external config after build: %v", err)
	}
}

func TestBuilderRejectsMissingStore(t *testing.T) {
	_, err := New().WithConfig(testConfig()).Build()
	if err == nil || !strings.Contains(err.Error(), "credential store required") {
		t.Fatalf("expected missing store error, got %v", err)
	}
}

func TestBuilderRejectsShortSecret(t *testing.T) {
	_, err := New().
		WithConfig(testConfig()).
		WithSecret([]byte("short")).
		WithCredentialStore(newTestStore()).
		Build()
	if err == nil {
		t.Fatal("expected short secret to fail build")
	}
}

func TestBuilderThrottleRequiresRedis(t *testing.T) {
	cfg := testConfig()
	cfg.Security.EnableLoginThrottle = true

	_, err := New().WithConfig(cfg).WithCredentialStore(newTestStore()).Build()
	if err == nil || !strings.Contains(err.Error(), "login throttle requires redis client") {
		t.Fatalf("expected redis requirement error, got %v", err)
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithConfig(testConfig()).WithCredentialStore(newTestStore())
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second build to fail")
	}
}

func TestBuilderArgon2Verifier(t *testing.T) {
	cfg := testConfig()
	cfg.Password.Algorithm = PasswordArgon2id
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1

	engine := newTestEngine(t, cfg, newTestStore(), nil)
	hash, err := engine.HashPassword("correcthorse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("expected argon2id hash, got %q", hash)
	}
}

func TestSecurityReportReflectsPosture(t *testing.T) {
	_, rdb := newTestRedis(t)

	cfg := testConfig()
	cfg.Security.ProductionMode = true
	cfg.Security.EnableLoginThrottle = true
	cfg.Security.EnableIPThrottle = true
	cfg.Password.BcryptCost = 10
	cfg.JWT.Issuer = "tokengate"
	cfg.Audit.Enabled = true

	engine, err := New().WithConfig(cfg).WithCredentialStore(newTestStore()).WithRedis(rdb).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer engine.Close()

	report := engine.SecurityReport()
	if !report.ProductionMode {
		t.Fatal("expected ProductionMode=true in report")
	}
	if report.SigningAlgorithm != "HS256" {
		t.Fatalf("expected HS256 in report, got %s", report.SigningAlgorithm)
	}
	if report.SecretBytes != len(testSecret) {
		t.Fatalf("expected secret length %d, got %d", len(testSecret), report.SecretBytes)
	}
	if !report.IssuerPinned || report.AccessTTL != 30*time.Minute {
		t.Fatalf("unexpected jwt posture: %+v", report)
	}
	if !report.RateLimitingActive || !report.IPThrottleActive {
		t.Fatal("expected throttles active in report")
	}
	if report.Password.Algorithm != PasswordBcrypt || report.Password.BcryptCost != 10 || report.Password.Memory != 0 {
		t.Fatalf("unexpected password report: %+v", report.Password)
	}
	if !report.AuditEnabled || !report.FailOpenInterceptor {
		t.Fatalf("unexpected flags: %+v", report)
	}
}
