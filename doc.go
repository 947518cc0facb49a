// Package tokengate provides stateless credential authentication with
// short-lived HS256 access tokens and a fail-open bearer-token interceptor.
//
// A client exchanges a username and password for a signed token through
// [Engine.Authenticate]. Each later request carries the token in an
// "Authorization: Bearer <token>" header; the middleware package checks it
// with [Engine.ValidateToken] and attaches an [Identity] to the request
// context. Tokens are never stored or revoked.
//
// Engine methods are safe to call from multiple goroutines after
// [Builder.Build].
//
// # Architecture boundaries
//
// tokengate is the public surface. It exposes [Engine], [Builder], [Config],
// the [CredentialStore] and [PasswordVerifier] contracts and value types.
// Throttling, audit dispatch, metrics storage and posture reporting live under
// internal/.
//
// # What this package must NOT do
//
//   - Persist tokens, sessions or identities.
//   - Log passwords, password hashes, tokens or the signing secret.
//   - Import any sub-package that re-imports tokengate (no import cycles).
//
// # Performance contract
//
// ValidateToken is the hot path. It performs no I/O and takes no locks.
// Authenticate performs one credential-store lookup, one hash comparison and,
// when the throttle is enabled, a few Redis round-trips.
package tokengate
