package tokengate

import (
	"context"
	"errors"

	internalaudit "github.com/MrEthical07/tokengate/internal/audit"
)

// AuditErrorCode is the stable error label written to AuditEvent.Code.
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrRateLimited        AuditErrorCode = "rate_limited"
	auditErrInvalidToken       AuditErrorCode = "invalid_token"
	auditErrMalformedToken     AuditErrorCode = "malformed_token"
	auditErrTokenExpired       AuditErrorCode = "token_expired"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

// emitAudit records one outcome. A nil err marks the event successful.
func (e *Engine) emitAudit(ctx context.Context, kind internalaudit.Kind, username, reason string, err error) {
	if e == nil || e.audit == nil {
		return
	}

	e.audit.Emit(ctx, AuditEvent{
		At:       e.Now().UTC(),
		Kind:     kind,
		Username: username,
		ClientIP: clientIPFromContext(ctx),
		Success:  err == nil,
		Code:     string(auditErrorCode(err)),
		Reason:   reason,
	})
}

func auditErrorCode(err error) AuditErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthenticationFailed):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrLoginRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrInvalidSignature):
		return auditErrInvalidToken
	case errors.Is(err, ErrMalformedToken):
		return auditErrMalformedToken
	case errors.Is(err, ErrTokenExpired):
		return auditErrTokenExpired
	case errors.Is(err, ErrCredentialStoreUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
