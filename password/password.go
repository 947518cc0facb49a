package password

import (
	"errors"
	"fmt"
)

var (
	errEmptyPassword   = errors.New("password must not be empty")
	errPasswordTooLong = errors.New("password exceeds maximum length")
)

// checkPlaintext applies the byte limits shared by Hash and Matches, so a
// password that could never be enrolled never matches either.
func checkPlaintext(password string, max int) error {
	if password == "" {
		return errEmptyPassword
	}
	if len(password) > max {
		return fmt.Errorf("%w: %d > %d bytes", errPasswordTooLong, len(password), max)
	}
	return nil
}
