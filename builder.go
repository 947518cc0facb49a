package tokengate

import (
	"errors"
	"time"

	internalaudit "github.com/MrEthical07/tokengate/internal/audit"
	internalmetrics "github.com/MrEthical07/tokengate/internal/metrics"
	"github.com/MrEthical07/tokengate/internal/rate"
	"github.com/MrEthical07/tokengate/jwt"
	"github.com/MrEthical07/tokengate/password"
	"github.com/redis/go-redis/v9"
)

// dummyPassword is hashed once at build time; unknown users are compared
// against the result.
const dummyPassword = "tokengate-dummy-password"

// Builder assembles an Engine. A Builder is single-use.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	store     CredentialStore
	verifier  PasswordVerifier
	auditSink AuditSink
	now       func() time.Time

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole config. cfg is copied.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSecret sets the HS256 signing secret. secret is copied.
func (b *Builder) WithSecret(secret []byte) *Builder {
	b.config.JWT.Secret = cloneBytes(secret)
	return b
}

// WithCredentialStore sets where Authenticate looks up users. Required.
func (b *Builder) WithCredentialStore(store CredentialStore) *Builder {
	b.store = store
	return b
}

// WithPasswordVerifier overrides the verifier selected by Config.Password.
func (b *Builder) WithPasswordVerifier(v PasswordVerifier) *Builder {
	b.verifier = v
	return b
}

// WithRedis supplies the client used by the login throttle.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink sets the destination of audit events. Audit must also be
// enabled in Config.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithClock replaces time.Now for issuance and expiry checks.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the ValidateToken latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the config and returns a ready Engine. It fails fast on a
// missing or short secret, a missing store, or a throttle without Redis.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.store == nil {
		return nil, errors.New("credential store required")
	}

	if cfg.Security.EnableLoginThrottle && b.redis == nil {
		return nil, errors.New("login throttle requires redis client")
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	verifier := b.verifier
	if verifier == nil {
		v, err := newVerifier(cfg.Password)
		if err != nil {
			return nil, err
		}
		verifier = v
	}

	dummyHash, err := verifier.Hash(dummyPassword)
	if err != nil {
		return nil, err
	}

	codec, err := jwt.NewManager(jwt.Config{
		Secret: cloneBytes(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		Now:    now,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:    cloneConfig(cfg),
		codec:     codec,
		store:     b.store,
		verifier:  verifier,
		dummyHash: dummyHash,
		audit:     internalaudit.NewDispatcher(cfg.Audit, b.auditSink),
		metrics:   internalmetrics.New(cfg.Metrics),
		now:       now,
	}

	if cfg.Security.EnableLoginThrottle {
		engine.limiter = rate.New(b.redis, rate.Config{
			EnableIPThrottle: cfg.Security.EnableIPThrottle,
			MaxLoginAttempts: cfg.Security.MaxLoginAttempts,
			LoginCooldown:    cfg.Security.LoginCooldownDuration,
		})
	}

	b.built = true

	return engine, nil
}

func newVerifier(cfg PasswordConfig) (PasswordVerifier, error) {
	switch cfg.Algorithm {
	case PasswordArgon2id:
		return password.NewArgon2(password.Config{
			Memory:           cfg.Memory,
			Time:             cfg.Time,
			Parallelism:      cfg.Parallelism,
			SaltLength:       cfg.SaltLength,
			KeyLength:        cfg.KeyLength,
			MaxPasswordBytes: cfg.MaxPasswordBytes,
		})
	default:
		return password.NewBcrypt(cfg.BcryptCost)
	}
}
