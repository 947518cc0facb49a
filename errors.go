package tokengate

import (
	"errors"

	"github.com/MrEthical07/tokengate/jwt"
)

var (
	// ErrAuthenticationFailed is returned for unknown users, inactive users and
	// wrong passwords alike.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrMalformedToken is returned when a token is not three well-formed segments.
	ErrMalformedToken = jwt.ErrMalformedToken
	// ErrInvalidSignature is returned when a token's signature does not match
	// the configured secret or algorithm.
	ErrInvalidSignature = jwt.ErrInvalidSignature
	// ErrTokenExpired is returned by ValidateToken when the expiry is not after now.
	ErrTokenExpired = errors.New("token expired")
	// ErrCredentialNotFound is the CredentialStore contract for "no active
	// record under this username".
	ErrCredentialNotFound = errors.New("credential not found")
	// ErrCredentialStoreUnavailable wraps any other credential store failure.
	ErrCredentialStoreUnavailable = errors.New("credential store unavailable")
	// ErrLoginRateLimited is returned when the failed-login throttle is exhausted.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrEngineNotReady is returned by operations on a nil or closed Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
