package tokengate

import (
	"context"
	"time"
)

type identityContextKey struct{}
type clientIPContextKey struct{}

// Identity is the authenticated principal attached to a request context.
// It is never persisted; it lives as long as the request does.
type Identity struct {
	Subject string
	// Authorities is always empty; access control beyond "authenticated"
	// is out of scope.
	Authorities []string
	RemoteAddr  string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext returns the identity attached by the interceptor, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}

	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}

// WithClientIP attaches the caller's IP address to ctx. Authenticate uses it
// for the per-IP throttle and audit events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}
