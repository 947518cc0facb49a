package middleware

import (
	"net/http"
	"strings"

	"github.com/MrEthical07/tokengate"
)

const bearerPrefix = "Bearer "

// Authenticate returns the request interceptor. Token failures of any kind
// fall through to next without an identity.
func Authenticate(engine *tokengate.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, attachIdentity(engine, r))
		})
	}
}

func attachIdentity(engine *tokengate.Engine, r *http.Request) *http.Request {
	if engine == nil {
		return r
	}

	ctx := r.Context()
	if _, ok := tokengate.IdentityFromContext(ctx); ok {
		engine.RecordMetric(tokengate.MetricIdentityAlreadyPresent)
		return r
	}

	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		engine.RecordMetric(tokengate.MetricTokenMissing)
		return r
	}

	claims, err := engine.ValidateToken(ctx, token)
	if err != nil {
		return r
	}

	// A cancelled request is not worth authenticating.
	if ctx.Err() != nil {
		return r
	}

	id := tokengate.Identity{
		Subject:     claims.Subject,
		Authorities: []string{},
		RemoteAddr:  r.RemoteAddr,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}

	return r.WithContext(tokengate.WithIdentity(ctx, id))
}

// RequireIdentity rejects requests that reached it without an identity.
func RequireIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := tokengate.IdentityFromContext(r.Context()); !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(value string) (string, bool) {
	if !strings.HasPrefix(value, bearerPrefix) {
		return "", false
	}

	token := value[len(bearerPrefix):]
	if token == "" {
		return "", false
	}

	return token, true
}
