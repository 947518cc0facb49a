package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/tokengate"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the table PostgresStore reads.
const Schema = `CREATE TABLE IF NOT EXISTS credentials (
	username      TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL,
	active        BOOLEAN NOT NULL DEFAULT TRUE
)`

// Querier is the subset of *pgxpool.Pool the store needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore reads credentials from the credentials table.
type PostgresStore struct {
	db Querier
}

// NewPostgresStore returns a store over db, usually a *pgxpool.Pool.
func NewPostgresStore(db Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

// Connect opens a pgx pool with small-service defaults and pings it.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, errors.New("empty database dsn")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// EnsureSchema runs Schema.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("%w: %v", tokengate.ErrCredentialStoreUnavailable, err)
	}
	return nil
}

// Put upserts rec.
func (s *PostgresStore) Put(ctx context.Context, rec tokengate.CredentialRecord) error {
	if rec.Username == "" {
		return errEmptyUsername
	}

	const q = `INSERT INTO credentials (username, password_hash, active) VALUES ($1,$2,$3)
ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash, active = EXCLUDED.active`
	if _, err := s.db.Exec(ctx, q, rec.Username, rec.PasswordHash, rec.Active); err != nil {
		return fmt.Errorf("%w: %v", tokengate.ErrCredentialStoreUnavailable, err)
	}
	return nil
}

// FindActive selects the active row for username. No row maps to
// ErrCredentialNotFound; any other error to ErrCredentialStoreUnavailable.
func (s *PostgresStore) FindActive(ctx context.Context, username string) (tokengate.CredentialRecord, error) {
	const q = `SELECT username, password_hash, active FROM credentials WHERE username=$1 AND active=true`

	var rec tokengate.CredentialRecord
	err := s.db.QueryRow(ctx, q, username).Scan(&rec.Username, &rec.PasswordHash, &rec.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tokengate.CredentialRecord{}, tokengate.ErrCredentialNotFound
		}
		return tokengate.CredentialRecord{}, fmt.Errorf("%w: %v", tokengate.ErrCredentialStoreUnavailable, err)
	}
	return rec, nil
}
