package tokengate

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLint_DefaultConfigWarnsAboutThrottle(t *testing.T) {
	cfg := testConfig()
	codes := cfg.Lint().Codes()

	if !containsCode(codes, "login_throttle_disabled") {
		t.Error("expected login_throttle_disabled for default config")
	}
	if !containsCode(codes, "interceptor_fail_open") {
		t.Error("expected interceptor_fail_open to always be reported")
	}
}

func TestLint_HardenedConfigMinimalWarnings(t *testing.T) {
	cfg := testConfig()
	cfg.Security.EnableLoginThrottle = true
	cfg.Password.BcryptCost = 12
	cfg.JWT.Issuer = "tokengate"
	cfg.Audit.Enabled = true

	ws := cfg.Lint()
	if err := ws.AsError(LintWarn); err != nil {
		t.Fatalf("expected no WARN or HIGH findings, got %v", err)
	}
}

func TestAccessTokenLifetimeIsFixed(t *testing.T) {
	store := newTestStore()
	store.put(t, "alice", "correct-password", true)
	clock := newTestClock()

	engine := newTestEngine(t, testConfig(), store, clock)
	if engine.TokenTTL() != 30*time.Minute {
		t.Fatalf("expected 30m ttl, got %v", engine.TokenTTL())
	}
	if got := engine.SecurityReport().AccessTTL; got != 30*time.Minute {
		t.Fatalf("expected report ttl 30m, got %v", got)
	}

	token, err := engine.Authenticate(context.Background(), "alice", "correct-password")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	clock.Advance(29 * time.Minute)
	if _, err := engine.ValidateToken(context.Background(), token); err != nil {
		t.Fatalf("expected token valid at +29m, got %v", err)
	}
	clock.Advance(2 * time.Minute)
	if _, err := engine.ValidateToken(context.Background(), token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired at +31m, got %v", err)
	}
}

func TestLint_Argon2MemoryLow(t *testing.T) {
	cfg := testConfig()
	cfg.Password.Algorithm = PasswordArgon2id
	cfg.Password.Memory = 16 * 1024
	if !containsCode(cfg.Lint().Codes(), "argon2_memory_low") {
		t.Error("expected argon2_memory_low warning")
	}
}

func TestLint_SeverityAndAsError(t *testing.T) {
	cfg := testConfig()
	cfg.Password.BcryptCost = 4

	ws := cfg.Lint()
	high := ws.BySeverity(LintHigh)
	if len(high) != 1 || high[0].Code != "bcrypt_cost_low" {
		t.Fatalf("expected bcrypt_cost_low as the only HIGH finding, got %+v", high)
	}
	if high[0].Severity.String() != "HIGH" {
		t.Fatalf("unexpected severity label %q", high[0].Severity.String())
	}
	if err := ws.AsError(LintHigh); err == nil {
		t.Fatal("expected AsError(LintHigh) to fail")
	}

	cfg.Password.BcryptCost = 10
	if err := cfg.Lint().AsError(LintHigh); err != nil {
		t.Fatalf("expected no HIGH findings, got %v", err)
	}
}

// helpers

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
