// Package store provides tokengate.CredentialStore implementations.
//
//   - [MemoryStore]: process-local map, seeded at startup.
//   - [RedisStore]: one Redis hash per user.
//   - [PostgresStore]: a credentials table read through pgx.
//
// Every store returns tokengate.ErrCredentialNotFound for unknown or inactive
// users and a wrapped backend error for anything else, so the engine can tell
// a failed login apart from an unavailable backend.
package store
