// Package middleware adapts tokengate.Engine token validation to net/http.
//
// # Interceptor
//
// [Authenticate] runs once per request. It reads the Authorization header,
// validates a "Bearer " token with Engine.ValidateToken, and attaches a
// tokengate.Identity to the request context when the token is valid and
// unexpired. It never writes a response: a missing, malformed, forged or
// expired token leaves the request unauthenticated and passes it on.
//
// # Guards
//
// [RequireIdentity] is the authorization stage. Routes that need an
// authenticated caller must be wrapped with it; otherwise the fail-open
// interceptor lets anonymous requests through.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Make authorization decisions beyond "an identity is present".
package middleware
