// Package rate provides the Redis-backed failed-login throttle.
//
// # Window semantics
//
// Fixed-window counters: INCR + EXPIRE on the first hit of a window. Key prefixes:
//   - tgl:  failed logins per username
//   - tgli: failed logins per client IP
//
// # What this package must NOT do
//
//   - Decide what a failed login is. The engine calls Increment and Reset.
//   - Be imported outside the tokengate module.
package rate
