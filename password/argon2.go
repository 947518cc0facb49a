package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB   uint32 = 8 * 1024
	minSaltLength uint32 = 16
	minKeyLength  uint32 = 16

	// DefaultMaxPasswordBytes is the plaintext limit used when
	// Config.MaxPasswordBytes is zero.
	DefaultMaxPasswordBytes = 1024
)

var errMalformedHash = errors.New("malformed argon2id hash")

// Config holds Argon2id cost parameters.
type Config struct {
	Memory           uint32 // KB
	Time             uint32
	Parallelism      uint8
	SaltLength       uint32
	KeyLength        uint32
	MaxPasswordBytes int
}

// DefaultArgon2Config returns the parameters used when argon2id is selected
// without explicit tuning.
func DefaultArgon2Config() Config {
	return Config{
		Memory:           64 * 1024,
		Time:             3,
		Parallelism:      2,
		SaltLength:       16,
		KeyLength:        32,
		MaxPasswordBytes: DefaultMaxPasswordBytes,
	}
}

// Argon2 is the argon2id PasswordVerifier. Hashes are PHC strings with
// unpadded base64 salt and key:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
//
// Matches reads the cost parameters from the stored hash, so hashes written
// under older settings keep verifying.
type Argon2 struct {
	cfg Config
}

// NewArgon2 validates cfg and returns a hasher.
func NewArgon2(cfg Config) (*Argon2, error) {
	if cfg.MaxPasswordBytes == 0 {
		cfg.MaxPasswordBytes = DefaultMaxPasswordBytes
	}

	switch {
	case cfg.Memory < minMemoryKB:
		return nil, fmt.Errorf("argon2 memory must be at least %d KB", minMemoryKB)
	case cfg.Time < 1:
		return nil, errors.New("argon2 time must be at least 1")
	case cfg.Parallelism < 1:
		return nil, errors.New("argon2 parallelism must be at least 1")
	case cfg.SaltLength < minSaltLength:
		return nil, fmt.Errorf("argon2 salt must be at least %d bytes", minSaltLength)
	case cfg.KeyLength < minKeyLength:
		return nil, fmt.Errorf("argon2 key must be at least %d bytes", minKeyLength)
	case cfg.MaxPasswordBytes < 0:
		return nil, errors.New("argon2 max password bytes must not be negative")
	}

	return &Argon2{cfg: cfg}, nil
}

// Hash derives a fresh salted hash of password. Bytes are hashed as given,
// without Unicode normalization.
func (a *Argon2) Hash(password string) (string, error) {
	if err := checkPlaintext(password, a.cfg.MaxPasswordBytes); err != nil {
		return "", err
	}

	h := argon2Hash{
		memory:  a.cfg.Memory,
		time:    a.cfg.Time,
		threads: a.cfg.Parallelism,
		salt:    make([]byte, a.cfg.SaltLength),
	}
	if _, err := rand.Read(h.salt); err != nil {
		return "", err
	}
	h.key = argon2.IDKey([]byte(password), h.salt, h.time, h.memory, h.threads, a.cfg.KeyLength)

	return h.String(), nil
}

// Matches reports whether password derives the key in encodedHash. Empty or
// over-long passwords and undecodable hashes never match.
func (a *Argon2) Matches(password, encodedHash string) bool {
	if checkPlaintext(password, a.cfg.MaxPasswordBytes) != nil {
		return false
	}
	h, err := decodeArgon2(encodedHash)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(h.derive(password), h.key) == 1
}

// NeedsUpgrade reports whether encodedHash is cheaper than the current
// settings in any parameter, or uses a different key length.
func (a *Argon2) NeedsUpgrade(encodedHash string) (bool, error) {
	h, err := decodeArgon2(encodedHash)
	if err != nil {
		return false, err
	}
	return h.memory < a.cfg.Memory ||
		h.time < a.cfg.Time ||
		h.threads < a.cfg.Parallelism ||
		uint32(len(h.salt)) < a.cfg.SaltLength ||
		uint32(len(h.key)) != a.cfg.KeyLength, nil
}

// argon2Hash is a decoded PHC string.
type argon2Hash struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

var phcEncoding = base64.RawStdEncoding

func (h argon2Hash) params() string {
	return fmt.Sprintf("m=%d,t=%d,p=%d", h.memory, h.time, h.threads)
}

func (h argon2Hash) String() string {
	return fmt.Sprintf("$argon2id$v=%d$%s$%s$%s",
		argon2.Version, h.params(), phcEncoding.EncodeToString(h.salt), phcEncoding.EncodeToString(h.key))
}

func (h argon2Hash) derive(password string) []byte {
	return argon2.IDKey([]byte(password), h.salt, h.time, h.memory, h.threads, uint32(len(h.key)))
}

func decodeArgon2(encoded string) (argon2Hash, error) {
	var h argon2Hash

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return h, errMalformedHash
	}
	if fields[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return h, fmt.Errorf("%w: unsupported version %q", errMalformedHash, fields[2])
	}

	// Re-encoding must reproduce the field exactly; this rejects trailing
	// garbage, reordering and leading zeros.
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &h.memory, &h.time, &h.threads); err != nil || h.params() != fields[3] {
		return h, fmt.Errorf("%w: parameters %q", errMalformedHash, fields[3])
	}
	if h.memory < minMemoryKB || h.time < 1 || h.threads < 1 {
		return h, fmt.Errorf("%w: parameters below minimum", errMalformedHash)
	}

	var err error
	if h.salt, err = phcEncoding.DecodeString(fields[4]); err != nil || uint32(len(h.salt)) < minSaltLength {
		return h, fmt.Errorf("%w: salt", errMalformedHash)
	}
	if h.key, err = phcEncoding.DecodeString(fields[5]); err != nil || uint32(len(h.key)) < minKeyLength {
		return h, fmt.Errorf("%w: key", errMalformedHash)
	}

	return h, nil
}
