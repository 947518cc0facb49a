package tokengate

import (
	"errors"
	"strings"
	"time"

	internalaudit "github.com/MrEthical07/tokengate/internal/audit"
	"github.com/MrEthical07/tokengate/jwt"
	"github.com/MrEthical07/tokengate/password"
	"golang.org/x/crypto/bcrypt"
)

// Password hashing algorithms accepted by PasswordConfig.Algorithm.
const (
	PasswordBcrypt   = "bcrypt"
	PasswordArgon2id = "argon2id"
)

// Config holds every engine setting. Build clones it, so later mutation by
// the caller has no effect on a built Engine.
type Config struct {
	JWT      JWTConfig
	Password PasswordConfig
	Security SecurityConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig configures the HS256 token codec. Tokens always live
// jwt.DefaultAccessTTL.
type JWTConfig struct {
	// Secret is the shared HMAC key. At least 32 bytes.
	Secret []byte
	// Issuer is written to and required on every token when set.
	Issuer string
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig selects and tunes the default PasswordVerifier. It is
// ignored when the builder is given an explicit verifier.
type PasswordConfig struct {
	Algorithm  string
	BcryptCost int

	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
	// MaxPasswordBytes caps argon2id plaintext. bcrypt is always capped at
	// password.MaxBcryptPasswordBytes.
	MaxPasswordBytes int
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig = internalaudit.Config

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig configures the failed-login throttle. The throttle needs a
// Redis client; without one Build fails when it is enabled.
type SecurityConfig struct {
	ProductionMode        bool
	EnableLoginThrottle   bool
	EnableIPThrottle      bool
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns a config with every field populated except the
// signing secret, which must always come from the caller.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{},
		Password: PasswordConfig{
			Algorithm:        PasswordBcrypt,
			BcryptCost:       bcrypt.DefaultCost,
			Memory:           65536,
			Time:             3,
			Parallelism:      2,
			SaltLength:       16,
			KeyLength:        32,
			MaxPasswordBytes: password.DefaultMaxPasswordBytes,
		},
		Security: SecurityConfig{
			ProductionMode:        false,
			EnableLoginThrottle:   false,
			EnableIPThrottle:      false,
			MaxLoginAttempts:      5,
			LoginCooldownDuration: 15 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	// JWT
	if len(c.JWT.Secret) == 0 {
		return errors.New("JWT Secret is required")
	}
	if len(c.JWT.Secret) < jwt.MinSecretLength {
		return errors.New("JWT Secret must be at least 32 bytes")
	}
	if c.JWT.Issuer != "" && strings.TrimSpace(c.JWT.Issuer) == "" {
		return errors.New("JWT Issuer must not be blank")
	}

	// Password
	switch c.Password.Algorithm {
	case PasswordBcrypt:
		if c.Password.BcryptCost < bcrypt.MinCost || c.Password.BcryptCost > bcrypt.MaxCost {
			return errors.New("Password BcryptCost must be between 4 and 31")
		}
	case PasswordArgon2id:
		if c.Password.Memory < 8*1024 {
			return errors.New("Password Memory must be >= 8192 KB")
		}
		if c.Password.Time < 1 {
			return errors.New("Password Time must be >= 1")
		}
		if c.Password.Parallelism < 1 {
			return errors.New("Password Parallelism must be >= 1")
		}
		if c.Password.SaltLength < 16 {
			return errors.New("Password SaltLength must be >= 16")
		}
		if c.Password.KeyLength < 16 {
			return errors.New("Password KeyLength must be >= 16")
		}
		if c.Password.MaxPasswordBytes < 0 {
			return errors.New("Password MaxPasswordBytes must be >= 0")
		}
	default:
		return errors.New("Password Algorithm must be 'bcrypt' or 'argon2id'")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	// Security
	if c.Security.EnableIPThrottle && !c.Security.EnableLoginThrottle {
		return errors.New("EnableIPThrottle requires EnableLoginThrottle")
	}
	if c.Security.EnableLoginThrottle {
		if c.Security.MaxLoginAttempts <= 0 {
			return errors.New("MaxLoginAttempts must be > 0")
		}
		if c.Security.LoginCooldownDuration <= 0 {
			return errors.New("LoginCooldownDuration must be > 0")
		}
	}

	if c.Security.ProductionMode {
		if !c.Security.EnableLoginThrottle {
			return errors.New("ProductionMode requires EnableLoginThrottle")
		}
		if c.Password.Algorithm == PasswordBcrypt && c.Password.BcryptCost < bcrypt.DefaultCost {
			return errors.New("ProductionMode requires Password BcryptCost >= 10")
		}
		if c.Password.Algorithm == PasswordArgon2id && c.Password.Memory < 64*1024 {
			return errors.New("ProductionMode requires Password Memory >= 65536 KB")
		}
	}

	return nil
}
