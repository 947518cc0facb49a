package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MrEthical07/tokengate"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRow struct {
	rec tokengate.CredentialRecord
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.rec.Username
	*dest[1].(*string) = r.rec.PasswordHash
	*dest[2].(*bool) = r.rec.Active
	return nil
}

type fakeQuerier struct {
	rows    map[string]tokengate.CredentialRecord
	err     error
	lastSQL string
	execs   int
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.lastSQL = sql
	if q.err != nil {
		return fakeRow{err: q.err}
	}
	rec, ok := q.rows[args[0].(string)]
	if !ok || !rec.Active {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{rec: rec}
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.lastSQL = sql
	q.execs++
	if q.err != nil {
		return pgconn.CommandTag{}, q.err
	}
	if len(args) == 3 {
		q.rows[args[0].(string)] = tokengate.CredentialRecord{
			Username:     args[0].(string),
			PasswordHash: args[1].(string),
			Active:       args[2].(bool),
		}
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestPostgresStoreFindActive(t *testing.T) {
	q := &fakeQuerier{rows: map[string]tokengate.CredentialRecord{}}
	s := NewPostgresStore(q)
	ctx := context.Background()

	if err := s.Put(ctx, tokengate.CredentialRecord{Username: "alice", PasswordHash: "h", Active: true}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if !strings.Contains(q.lastSQL, "ON CONFLICT") {
		t.Fatalf("expected upsert, got %q", q.lastSQL)
	}

	rec, err := s.FindActive(ctx, "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rec.Username != "alice" || rec.PasswordHash != "h" || !rec.Active {
		t.Fatalf("unexpected record %+v", rec)
	}
	if !strings.Contains(q.lastSQL, "active=true") {
		t.Fatalf("expected query to filter inactive users, got %q", q.lastSQL)
	}
}

func TestPostgresStoreNoRowsIsNotFound(t *testing.T) {
	q := &fakeQuerier{rows: map[string]tokengate.CredentialRecord{
		"bob": {Username: "bob", PasswordHash: "h", Active: false},
	}}
	s := NewPostgresStore(q)

	for _, name := range []string{"bob", "nobody"} {
		if _, err := s.FindActive(context.Background(), name); !errors.Is(err, tokengate.ErrCredentialNotFound) {
			t.Fatalf("%s: expected ErrCredentialNotFound, got %v", name, err)
		}
	}
}

func TestPostgresStoreBackendError(t *testing.T) {
	q := &fakeQuerier{rows: map[string]tokengate.CredentialRecord{}, err: errors.New("connection refused")}
	s := NewPostgresStore(q)

	if _, err := s.FindActive(context.Background(), "alice"); !errors.Is(err, tokengate.ErrCredentialStoreUnavailable) {
		t.Fatalf("expected ErrCredentialStoreUnavailable, got %v", err)
	}
	if err := s.EnsureSchema(context.Background()); !errors.Is(err, tokengate.ErrCredentialStoreUnavailable) {
		t.Fatalf("expected ErrCredentialStoreUnavailable from EnsureSchema, got %v", err)
	}
	if err := s.Put(context.Background(), tokengate.CredentialRecord{}); err == nil {
		t.Fatal("expected empty username to be rejected")
	}
}

func TestConnectRejectsEmptyDSN(t *testing.T) {
	if _, err := Connect(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}
