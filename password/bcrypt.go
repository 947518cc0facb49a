package password

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MaxBcryptPasswordBytes is the longest input bcrypt accepts. Longer inputs
// are rejected by Hash and never match.
const MaxBcryptPasswordBytes = 72

// Bcrypt hashes and verifies passwords with bcrypt. It reads the "$2a$",
// "$2b$" and "$2y$" hash variants.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt hasher. A zero cost selects bcrypt.DefaultCost.
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Bcrypt{cost: cost}, nil
}

// Cost returns the work factor applied to new hashes.
func (b *Bcrypt) Cost() int {
	return b.cost
}

// Hash derives a new salted bcrypt hash for password.
func (b *Bcrypt) Hash(password string) (string, error) {
	if err := checkPlaintext(password, MaxBcryptPasswordBytes); err != nil {
		return "", err
	}

	out, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Matches reports whether password produces encodedHash. bcrypt itself
// ignores bytes past the 72nd, so longer passwords are refused here.
func (b *Bcrypt) Matches(password, encodedHash string) bool {
	if checkPlaintext(password, MaxBcryptPasswordBytes) != nil {
		return false
	}
	if !strings.HasPrefix(encodedHash, "$2") {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}

// NeedsUpgrade reports whether encodedHash was produced with a lower cost
// than the hasher's current setting.
func (b *Bcrypt) NeedsUpgrade(encodedHash string) (bool, error) {
	cost, err := bcrypt.Cost([]byte(encodedHash))
	if err != nil {
		return false, err
	}
	return cost < b.cost, nil
}
