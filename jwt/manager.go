package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// DefaultAccessTTL is the fixed validity window of an access token.
	DefaultAccessTTL = 30 * time.Minute

	// MinSecretLength is the HS256 key-size minimum in bytes.
	MinSecretLength = 32

	// Algorithm is the only signing algorithm issued or accepted.
	Algorithm = "HS256"
)

var (
	// ErrMalformedToken is returned when a token cannot be parsed into its
	// header, claims and signature segments.
	ErrMalformedToken = errors.New("malformed token")
	// ErrInvalidSignature is returned when a structurally valid token does not
	// carry a signature produced by the configured secret.
	ErrInvalidSignature = errors.New("invalid token signature")
)

// Config defines the token codec settings. The validity window is not
// configurable; every token lives DefaultAccessTTL.
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	Secret []byte
	Issuer string
	Now    func() time.Time
}

// Manager issues and verifies HMAC-signed access tokens.
//
// A Manager holds no mutable state after NewManager returns and is safe for concurrent use.
type Manager struct {
	secret []byte
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

// Claims is the signed payload of an access token.
type Claims struct {
	jwt.RegisteredClaims
}

// ExpiredAt reports whether the claims are no longer valid at now. A token
// whose expiry equals now is expired.
func (c *Claims) ExpiredAt(now time.Time) bool {
	if c == nil || c.ExpiresAt == nil {
		return true
	}
	return !c.ExpiresAt.Time.After(now)
}

// NewManager validates cfg and returns a ready Manager.
//
// NewManager fails when the secret is shorter than MinSecretLength so that a
// weak key is rejected at startup instead of at the first request.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("hs256 secret must be at least %d bytes, got %d", MinSecretLength, len(cfg.Secret))
	}
	if cfg.Issuer != "" && strings.TrimSpace(cfg.Issuer) == "" {
		return nil, errors.New("issuer must not be blank")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &Manager{
		secret: secret,
		issuer: cfg.Issuer,
		now:    cfg.Now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{Algorithm}),
			jwt.WithStrictDecoding(),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// TTL returns the validity window applied to issued tokens. It is always
// DefaultAccessTTL.
func (m *Manager) TTL() time.Duration {
	return DefaultAccessTTL
}

// Issue signs a new token for subject, valid from now until now+TTL.
func (m *Manager) Issue(subject string) (string, error) {
	if subject == "" {
		return "", errors.New("token subject must not be empty")
	}

	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(DefaultAccessTTL)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks the structure and signature of token and returns its claims.
//
// Verify does not check expiry; callers decide what an expired token means.
func (m *Manager) Verify(token string) (*Claims, error) {
	parsed, err := m.parser.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != Algorithm {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidSignature
	}
	if claims.Subject == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing required claims", ErrMalformedToken)
	}
	if m.issuer != "" && claims.Issuer != m.issuer {
		return nil, fmt.Errorf("%w: unexpected issuer", ErrInvalidSignature)
	}

	return claims, nil
}
