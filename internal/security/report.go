package security

import "time"

// PasswordReport describes the configured password hasher.
type PasswordReport struct {
	Algorithm   string
	BcryptCost  int
	Memory      uint32
	Time        uint32
	Parallelism uint8
}

// Report is a read-only summary of an engine's security posture.
type Report struct {
	ProductionMode     bool
	SigningAlgorithm   string
	SecretBytes        int
	IssuerPinned       bool
	AccessTTL          time.Duration
	Password           PasswordReport
	RateLimitingActive bool
	IPThrottleActive   bool
	AuditEnabled       bool
	// FailOpenInterceptor is always true: token failures never reject a
	// request on their own.
	FailOpenInterceptor bool
}

// ReportInput carries the raw settings a Report is derived from.
type ReportInput struct {
	ProductionMode        bool
	SigningAlgorithm      string
	SecretBytes           int
	Issuer                string
	AccessTTL             time.Duration
	Password              PasswordReport
	EnableLoginThrottle   bool
	EnableIPThrottle      bool
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
	AuditEnabled          bool
}

func BuildReport(input ReportInput) Report {
	rateLimiting := input.EnableLoginThrottle &&
		input.MaxLoginAttempts > 0 &&
		input.LoginCooldownDuration > 0

	password := input.Password
	if password.Algorithm != "argon2id" {
		password.Memory, password.Time, password.Parallelism = 0, 0, 0
	} else {
		password.BcryptCost = 0
	}

	return Report{
		ProductionMode:      input.ProductionMode,
		SigningAlgorithm:    input.SigningAlgorithm,
		SecretBytes:         input.SecretBytes,
		IssuerPinned:        input.Issuer != "",
		AccessTTL:           input.AccessTTL,
		Password:            password,
		RateLimitingActive:  rateLimiting,
		IPThrottleActive:    rateLimiting && input.EnableIPThrottle,
		AuditEnabled:        input.AuditEnabled,
		FailOpenInterceptor: true,
	}
}
