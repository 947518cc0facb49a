package tokengate

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// LintSeverity ranks a LintWarning.
type LintSeverity int

const (
	LintInfo LintSeverity = iota
	LintWarn
	LintHigh
)

func (s LintSeverity) String() string {
	switch s {
	case LintInfo:
		return "INFO"
	case LintWarn:
		return "WARN"
	case LintHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// LintWarning is one advisory finding about a valid but questionable config.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintResult is the ordered list of findings from Lint.
type LintResult []LintWarning

// Codes returns the warning codes in order.
func (r LintResult) Codes() []string {
	out := make([]string, 0, len(r))
	for _, w := range r {
		out = append(out, w.Code)
	}
	return out
}

// BySeverity returns the warnings at or above min.
func (r LintResult) BySeverity(min LintSeverity) LintResult {
	var out LintResult
	for _, w := range r {
		if w.Severity >= min {
			out = append(out, w)
		}
	}
	return out
}

// AsError folds warnings at or above min into one error, or returns nil.
func (r LintResult) AsError(min LintSeverity) error {
	hits := r.BySeverity(min)
	if len(hits) == 0 {
		return nil
	}
	parts := make([]string, 0, len(hits))
	for _, w := range hits {
		parts = append(parts, fmt.Sprintf("[%s] %s: %s", w.Severity, w.Code, w.Message))
	}
	return fmt.Errorf("config lint: %s", strings.Join(parts, "; "))
}

// Lint reports settings that pass Validate but weaken the deployment.
func (c *Config) Lint() LintResult {
	var ws LintResult

	// The request interceptor never rejects; routes must opt in to RequireIdentity.
	ws = append(ws, LintWarning{
		Code:     "interceptor_fail_open",
		Severity: LintInfo,
		Message:  "token failures pass through without identity; protect routes with RequireIdentity",
	})

	if !c.Security.EnableLoginThrottle {
		ws = append(ws, LintWarning{
			Code:     "login_throttle_disabled",
			Severity: LintWarn,
			Message:  "failed logins are not throttled",
		})
	}
	if c.JWT.Issuer == "" {
		ws = append(ws, LintWarning{
			Code:     "issuer_unset",
			Severity: LintInfo,
			Message:  "tokens carry no issuer; any holder of the secret can mint accepted tokens",
		})
	}
	if c.Password.Algorithm == PasswordBcrypt && c.Password.BcryptCost < bcrypt.DefaultCost {
		ws = append(ws, LintWarning{
			Code:     "bcrypt_cost_low",
			Severity: LintHigh,
			Message:  fmt.Sprintf("bcrypt cost %d is below %d", c.Password.BcryptCost, bcrypt.DefaultCost),
		})
	}
	if c.Password.Algorithm == PasswordArgon2id && c.Password.Memory < 64*1024 {
		ws = append(ws, LintWarning{
			Code:     "argon2_memory_low",
			Severity: LintWarn,
			Message:  fmt.Sprintf("argon2 memory %d KB is below 65536 KB", c.Password.Memory),
		})
	}
	if !c.Audit.Enabled {
		ws = append(ws, LintWarning{
			Code:     "audit_disabled",
			Severity: LintInfo,
			Message:  "login attempts are not audited",
		})
	}

	return ws
}
