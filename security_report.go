package tokengate

import (
	"github.com/MrEthical07/tokengate/internal/security"
	"github.com/MrEthical07/tokengate/jwt"
)

// SecurityReport summarises the posture of a built Engine.
type SecurityReport = security.Report

// PasswordConfigReport describes the configured password hasher.
type PasswordConfigReport = security.PasswordReport

// SecurityReport returns a snapshot of the engine's security-relevant
// settings. It never includes the secret itself.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	return security.BuildReport(security.ReportInput{
		ProductionMode:   e.config.Security.ProductionMode,
		SigningAlgorithm: jwt.Algorithm,
		SecretBytes:      len(e.config.JWT.Secret),
		Issuer:           e.config.JWT.Issuer,
		AccessTTL:        jwt.DefaultAccessTTL,
		Password: PasswordConfigReport{
			Algorithm:   e.config.Password.Algorithm,
			BcryptCost:  e.config.Password.BcryptCost,
			Memory:      e.config.Password.Memory,
			Time:        e.config.Password.Time,
			Parallelism: e.config.Password.Parallelism,
		},
		EnableLoginThrottle:   e.config.Security.EnableLoginThrottle,
		EnableIPThrottle:      e.config.Security.EnableIPThrottle,
		MaxLoginAttempts:      e.config.Security.MaxLoginAttempts,
		LoginCooldownDuration: e.config.Security.LoginCooldownDuration,
		AuditEnabled:          e.config.Audit.Enabled,
	})
}
