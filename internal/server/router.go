// Package server wires the tokengate engine into an HTTP router.
package server

import (
	"net/http"
	"time"

	"github.com/MrEthical07/tokengate"
	tgmiddleware "github.com/MrEthical07/tokengate/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// RouterOptions controls the construction of the router. Engine is required.
type RouterOptions struct {
	Engine *tokengate.Engine

	// Per-IP token bucket on the login route; zero disables it
	LoginRate  rate.Limit
	LoginBurst int

	// Served at /metrics when set
	MetricsHandler http.Handler
	HealthHandler  http.HandlerFunc

	// Extra routes mounted behind RequireIdentity
	ProtectedRoutes func(chi.Router)
}

// NewRouter builds the router.
//
// The bearer-token interceptor runs on every request and never rejects.
// /user/*, /healthz and /metrics are public; every other path, including
// unknown ones, needs an identity.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(tgmiddleware.Authenticate(opts.Engine))

	var limiter *ipLimiter
	if opts.LoginRate > 0 && opts.LoginBurst > 0 {
		limiter = newIPLimiter(opts.LoginRate, opts.LoginBurst, 10*time.Minute)
	}

	r.Route("/user", func(r chi.Router) {
		r.Post("/authenticate", handleAuthenticate(opts.Engine, limiter))
		r.Post("/hi", HandleHi)
	})

	healthHandler := opts.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	r.Get("/healthz", healthHandler)

	if opts.MetricsHandler != nil {
		r.Handle("/metrics", opts.MetricsHandler)
	}

	requireIdentity := tgmiddleware.RequireIdentity()

	r.Group(func(r chi.Router) {
		r.Use(requireIdentity)
		r.Get("/api/me", HandleMe)
		if opts.ProtectedRoutes != nil {
			opts.ProtectedRoutes(r)
		}
	})

	r.NotFound(requireIdentity(http.NotFoundHandler()).ServeHTTP)

	return r
}
