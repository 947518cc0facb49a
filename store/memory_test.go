package store

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/tokengate"
)

func TestMemoryStoreFindActive(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, tokengate.CredentialRecord{Username: "alice", PasswordHash: "h1", Active: true}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, tokengate.CredentialRecord{Username: "bob", PasswordHash: "h2", Active: false}); err != nil {
		t.Fatalf("put: %v", err)
	}

	rec, err := s.FindActive(ctx, "alice")
	if err != nil {
		t.Fatalf("find alice: %v", err)
	}
	if rec.PasswordHash != "h1" || !rec.Active {
		t.Fatalf("unexpected record %+v", rec)
	}

	if _, err := s.FindActive(ctx, "bob"); !errors.Is(err, tokengate.ErrCredentialNotFound) {
		t.Fatalf("expected inactive user to be not found, got %v", err)
	}
	if _, err := s.FindActive(ctx, "carol"); !errors.Is(err, tokengate.ErrCredentialNotFound) {
		t.Fatalf("expected unknown user to be not found, got %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", s.Len())
	}
}

func TestMemoryStoreDeleteAndEmptyName(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, tokengate.CredentialRecord{}); err == nil {
		t.Fatal("expected empty username to be rejected")
	}

	_ = s.Put(ctx, tokengate.CredentialRecord{Username: "alice", PasswordHash: "h", Active: true})
	_ = s.Delete(ctx, "alice")
	if _, err := s.FindActive(ctx, "alice"); !errors.Is(err, tokengate.ErrCredentialNotFound) {
		t.Fatalf("expected deleted user to be gone, got %v", err)
	}
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.FindActive(ctx, "alice"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
