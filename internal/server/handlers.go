package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/MrEthical07/tokengate"
)

const maxLoginBodyBytes = 1 << 16

// AuthRequest is the login request body.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleAuthenticate exchanges credentials for a token. The token is written
// as the raw response body. A wrong username or password also answers 200,
// with an empty body.
func handleAuthenticate(engine *tokengate.Engine, limiter *ipLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if limiter != nil && !limiter.allow(ip) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}

		var req AuthRequest
		dec := json.NewDecoder(io.LimitReader(r.Body, maxLoginBodyBytes))
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		ctx := tokengate.WithClientIP(r.Context(), ip)
		token, err := engine.Authenticate(ctx, req.Username, req.Password)
		switch {
		case err == nil:
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, token)
		case errors.Is(err, tokengate.ErrAuthenticationFailed):
			w.WriteHeader(http.StatusOK)
		case errors.Is(err, tokengate.ErrLoginRateLimited):
			http.Error(w, "too many requests", http.StatusTooManyRequests)
		case errors.Is(err, tokengate.ErrCredentialStoreUnavailable):
			log.Printf("tokengate: login: %v", err)
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			// Client went away; nothing useful to send.
		default:
			log.Printf("tokengate: login: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

// HandleHi is the public greeting endpoint under /user.
func HandleHi(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "hello user")
}

type meResponse struct {
	Subject    string    `json:"subject"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// HandleMe reports the caller's identity. It must sit behind RequireIdentity.
func HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := tokengate.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(meResponse{
		Subject:    id.Subject,
		RemoteAddr: id.RemoteAddr,
		IssuedAt:   id.IssuedAt,
		ExpiresAt:  id.ExpiresAt,
	})
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, `{"status":"ok"}`)
}
