// Package jwt issues and verifies compact HS256 access tokens carrying a
// subject, an issued-at time and an expiry.
//
// # Boundaries
//
// [Manager.Verify] checks structure and signature only. Expiry is a caller
// decision: the engine reports [Claims.ExpiredAt] as a separate failure kind.
//
// The shared secret is copied at construction and never mutated, so one
// [Manager] serves all goroutines without locking.
package jwt
