package http

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// Role values as carried in validated tokens. The gateway is the single
// enforcement point; backend services trust the headers it forwards.
const (
	roleUser     = "USER"
	roleOperator = "OPERATOR"
	roleAuditor  = "AUDITOR"
	roleAdmin    = "ADMIN"
)

// Backends holds the upstream base URLs the gateway fronts.
type Backends struct {
	AuthBaseURL  *url.URL
	EventBaseURL *url.URL
}

// NewRouter wires the public API surface: anonymous auth routes, and
// authenticated+role-gated proxies to the auth and event services.
func NewRouter(validator TokenValidator, backends Backends) http.Handler {
	authProxy := newServiceProxy(backends.AuthBaseURL)
	eventProxy := newServiceProxy(backends.EventBaseURL)

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusOK, "ok")
	})

	// Anonymous auth surface.
	r.Post("/auth/register", authProxy.ServeHTTP)
	r.Post("/auth/login", authProxy.ServeHTTP)
	r.Get("/.well-known/jwks.json", authProxy.ServeHTTP)

	// Authenticated surface.
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(validator))

		r.Get("/users/me", authProxy.ServeHTTP)
		r.Post("/users/me/invitations", authProxy.ServeHTTP)
		r.With(requireRoles(roleOperator, roleAdmin)).
			Post("/users/{user_id}/points", authProxy.ServeHTTP)
		r.With(requireRoles(roleOperator, roleAdmin, roleAuditor)).
			Get("/users/{user_id}/activity", authProxy.ServeHTTP)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventProxy.ServeHTTP)
			r.Get("/{event_id}", eventProxy.ServeHTTP)
			r.Get("/{event_id}/rewards", eventProxy.ServeHTTP)
			r.Post("/{event_id}/reward-requests", eventProxy.ServeHTTP)

			r.With(requireRoles(roleOperator, roleAdmin)).Post("/", eventProxy.ServeHTTP)
			r.With(requireRoles(roleOperator, roleAdmin)).Put("/{event_id}/active", eventProxy.ServeHTTP)
			r.With(requireRoles(roleOperator, roleAdmin)).Post("/{event_id}/rewards", eventProxy.ServeHTTP)
			r.With(requireRoles(roleOperator, roleAdmin)).Put("/{event_id}/requests/{request_id}/status", eventProxy.ServeHTTP)
			r.With(requireRoles(roleAdmin, roleAuditor)).Get("/{event_id}/requests", eventProxy.ServeHTTP)
		})

		r.Route("/reward-requests", func(r chi.Router) {
			// Callers always see their own requests; listing others is audit-only.
			r.Get("/me", rewritePath(eventProxy, func(req *http.Request) string {
				identity, _ := identityFromContext(req.Context())
				return "/reward-requests/user/" + identity.UserID.String()
			}).ServeHTTP)

			r.With(requireRoles(roleAdmin, roleAuditor)).Get("/", eventProxy.ServeHTTP)
			r.With(requireRoles(roleAdmin, roleAuditor)).Get("/user/{user_id}", eventProxy.ServeHTTP)
		})
	})

	return r
}
