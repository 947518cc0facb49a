package tokengate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	internalaudit "github.com/MrEthical07/tokengate/internal/audit"
	internalmetrics "github.com/MrEthical07/tokengate/internal/metrics"
	"github.com/MrEthical07/tokengate/internal/rate"
	"github.com/MrEthical07/tokengate/jwt"
)

// Engine authenticates credentials and issues and checks access tokens.
//
// An Engine is created by Builder.Build and is safe for concurrent use. It
// holds no per-user state: every token check is a pure function of the token,
// the secret and the clock.
type Engine struct {
	config    Config
	codec     *jwt.Manager
	store     CredentialStore
	verifier  PasswordVerifier
	dummyHash string
	limiter   *rate.Limiter
	audit     *internalaudit.Dispatcher
	metrics   *internalmetrics.Metrics
	now       func() time.Time
}

// Close flushes and stops the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns how many audit events were dropped under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns the current counters and latency buckets.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// RecordMetric increments counter id. The HTTP interceptor uses it for
// outcomes the engine never sees, such as a request without a token.
func (e *Engine) RecordMetric(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time {
	if e == nil || e.now == nil {
		return time.Now()
	}
	return e.now()
}

// TokenTTL returns the validity window of issued tokens.
func (e *Engine) TokenTTL() time.Duration {
	if e == nil || e.codec == nil {
		return 0
	}
	return e.codec.TTL()
}

// Authenticate checks username and password against the credential store
// and returns a fresh signed token on success.
//
// Unknown users, inactive users and wrong passwords all return
// ErrAuthenticationFailed. When the user is absent a comparison against a
// fixed dummy hash still runs, so timing stays close to the wrong-password
// case. Store failures other than ErrCredentialNotFound return
// ErrCredentialStoreUnavailable. Nothing is retried.
func (e *Engine) Authenticate(ctx context.Context, username, password string) (string, error) {
	if e == nil || e.codec == nil || e.store == nil || e.verifier == nil {
		return "", ErrEngineNotReady
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ip := clientIPFromContext(ctx)

	if e.limiter != nil {
		if err := e.limiter.CheckLogin(ctx, username, ip); err != nil {
			if !errors.Is(err, rate.ErrRateLimited) {
				log.Print("tokengate: login throttle unavailable, rejecting attempt")
			}
			e.RecordMetric(MetricLoginRateLimited)
			e.emitAudit(ctx, internalaudit.KindLoginRateLimited, username, "", ErrLoginRateLimited)
			return "", ErrLoginRateLimited
		}
	}

	record, err := e.store.FindActive(ctx, username)
	if err != nil && !errors.Is(err, ErrCredentialNotFound) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		e.RecordMetric(MetricLoginStoreUnavailable)
		e.emitAudit(ctx, internalaudit.KindLoginFailure, username, "store_unavailable", ErrCredentialStoreUnavailable)
		return "", fmt.Errorf("%w: %v", ErrCredentialStoreUnavailable, err)
	}

	if err != nil || !record.Active {
		_ = e.verifier.Matches(password, e.dummyHash)
		e.loginFailed(ctx, username, ip, "unknown_or_inactive")
		return "", ErrAuthenticationFailed
	}

	if !e.verifier.Matches(password, record.PasswordHash) {
		e.loginFailed(ctx, username, ip, "password_mismatch")
		return "", ErrAuthenticationFailed
	}

	token, err := e.codec.Issue(record.Username)
	if err != nil {
		return "", err
	}

	if e.limiter != nil {
		if err := e.limiter.ResetLogin(ctx, username); err != nil {
			log.Print("tokengate: login throttle reset failed")
		}
	}

	e.RecordMetric(MetricLoginSuccess)
	e.RecordMetric(MetricTokenIssued)
	var reason string
	if e.audit != nil {
		if stale, err := e.NeedsRehash(record.PasswordHash); err == nil && stale {
			reason = "rehash_needed"
		}
	}
	e.emitAudit(ctx, internalaudit.KindLoginSuccess, record.Username, reason, nil)

	return token, nil
}

func (e *Engine) loginFailed(ctx context.Context, username, ip, reason string) {
	if e.limiter != nil {
		if err := e.limiter.IncrementLogin(ctx, username, ip); err != nil {
			log.Print("tokengate: login throttle increment failed")
		}
	}
	e.RecordMetric(MetricLoginFailure)
	e.emitAudit(ctx, internalaudit.KindLoginFailure, username, reason, ErrAuthenticationFailed)
}

// IssueToken signs a token for subject without checking credentials.
func (e *Engine) IssueToken(subject string) (string, error) {
	if e == nil || e.codec == nil {
		return "", ErrEngineNotReady
	}
	token, err := e.codec.Issue(subject)
	if err != nil {
		return "", err
	}
	e.RecordMetric(MetricTokenIssued)
	return token, nil
}

// VerifyToken checks structure and signature only. An expired token with a
// good signature verifies successfully.
func (e *Engine) VerifyToken(token string) (*jwt.Claims, error) {
	if e == nil || e.codec == nil {
		return nil, ErrEngineNotReady
	}
	return e.codec.Verify(token)
}

// ValidateToken verifies token and then rejects it with ErrTokenExpired when
// its expiry is not after the engine clock's now. ctx bounds the audit emit
// for rejected signatures and supplies the client IP.
func (e *Engine) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	if e == nil || e.codec == nil {
		return nil, ErrEngineNotReady
	}
	if e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() {
			e.metrics.Observe(MetricValidateLatency, time.Since(start))
		}()
	}

	claims, err := e.codec.Verify(token)
	if err != nil {
		switch {
		case errors.Is(err, ErrMalformedToken):
			e.RecordMetric(MetricTokenMalformed)
		default:
			e.RecordMetric(MetricTokenInvalidSignature)
			e.emitAudit(ctx, internalaudit.KindTokenRejected, "", "", err)
		}
		return nil, err
	}

	if claims.ExpiredAt(e.Now()) {
		e.RecordMetric(MetricTokenExpired)
		return nil, ErrTokenExpired
	}

	e.RecordMetric(MetricTokenAccepted)
	return claims, nil
}

// NeedsRehash reports whether a stored hash was produced with weaker
// settings than Config.Password. Verifiers without an upgrade check never
// ask for a rehash.
func (e *Engine) NeedsRehash(hash string) (bool, error) {
	if e == nil || e.verifier == nil {
		return false, ErrEngineNotReady
	}
	u, ok := e.verifier.(interface {
		NeedsUpgrade(encodedHash string) (bool, error)
	})
	if !ok {
		return false, nil
	}
	return u.NeedsUpgrade(hash)
}

// HashPassword hashes plaintext with the engine's verifier, for enrolling
// credentials into a store.
func (e *Engine) HashPassword(plaintext string) (string, error) {
	if e == nil || e.verifier == nil {
		return "", ErrEngineNotReady
	}
	return e.verifier.Hash(plaintext)
}
