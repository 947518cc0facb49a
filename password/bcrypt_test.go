package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHashAndMatch(t *testing.T) {
	hasher, err := NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}

	hash, err := hasher.Hash("correcthorse")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("unexpected bcrypt prefix: %s", hash)
	}

	if !hasher.Matches("correcthorse", hash) {
		t.Fatal("expected Matches to accept the original password")
	}
	if hasher.Matches("correcthorsf", hash) {
		t.Fatal("expected Matches to reject a different password")
	}
}

func TestBcryptMatchesForeignVariants(t *testing.T) {
	hasher, err := NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}

	hash, err := hasher.Hash("123456")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	// $2b$ and $2y$ hashes share the $2a$ algorithm.
	for _, prefix := range []string{"$2b$", "$2y$"} {
		variant := prefix + strings.TrimPrefix(hash, "$2a$")
		if !hasher.Matches("123456", variant) {
			t.Fatalf("expected %s variant to match", prefix)
		}
	}
}

func TestBcryptRejectsMalformedHash(t *testing.T) {
	hasher, err := NewBcrypt(0)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	if hasher.Cost() != bcrypt.DefaultCost {
		t.Fatalf("expected default cost %d, got %d", bcrypt.DefaultCost, hasher.Cost())
	}

	for _, hash := range []string{"", "plain", "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA", "$2a$10$short"} {
		if hasher.Matches("anything", hash) {
			t.Fatalf("expected malformed hash %q to be rejected", hash)
		}
	}
}

func TestBcryptHashInputLimits(t *testing.T) {
	hasher, err := NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}

	if _, err := hasher.Hash(""); err == nil {
		t.Fatal("expected empty password to be rejected")
	}
	if _, err := hasher.Hash(strings.Repeat("x", MaxBcryptPasswordBytes+1)); err == nil {
		t.Fatal("expected over-long password to be rejected")
	}
	if _, err := hasher.Hash(strings.Repeat("x", MaxBcryptPasswordBytes)); err != nil {
		t.Fatalf("expected max-length password to be accepted: %v", err)
	}
}

func TestBcryptCostBounds(t *testing.T) {
	if _, err := NewBcrypt(bcrypt.MaxCost + 1); err == nil {
		t.Fatal("expected cost above max to be rejected")
	}
	if _, err := NewBcrypt(-1); err == nil {
		t.Fatal("expected negative cost to be rejected")
	}
}

func TestBcryptNeedsUpgrade(t *testing.T) {
	weak, err := NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	strong, err := NewBcrypt(bcrypt.MinCost + 1)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}

	hash, err := weak.Hash("upgrade-me")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	needs, err := strong.NeedsUpgrade(hash)
	if err != nil || !needs {
		t.Fatalf("expected upgrade to be needed: needs=%v err=%v", needs, err)
	}
	needs, err = weak.NeedsUpgrade(hash)
	if err != nil || needs {
		t.Fatalf("expected no upgrade for same cost: needs=%v err=%v", needs, err)
	}
}

func TestBcryptMatchesRefusesInputsHashWouldRefuse(t *testing.T) {
	hasher, err := NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}

	limit := strings.Repeat("k", MaxBcryptPasswordBytes)
	hash, err := hasher.Hash(limit)
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !hasher.Matches(limit, hash) {
		t.Fatal("expected a 72 byte password to match its own hash")
	}

	// bcrypt alone would accept this: the first 72 bytes are identical.
	if hasher.Matches(limit+"extra", hash) {
		t.Fatal("expected a password longer than 72 bytes to never match")
	}
	if hasher.Matches("", hash) {
		t.Fatal("expected an empty password to never match")
	}
}
