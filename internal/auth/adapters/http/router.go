package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pulseops/eventpulse/internal/auth/application"
)

// Handler is the HTTP adapter entrypoint for auth and activity use-cases.
type Handler struct {
	service *application.Service
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// NewRouter registers auth service HTTP routes and the middleware stack.
// Role enforcement for operator-only endpoints happens at the gateway; this
// service trusts the identity headers forwarded to it.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)
	r.Get("/.well-known/jwks.json", handler.jwks)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.register)
		r.Post("/login", handler.login)
		r.Get("/validate", handler.validateToken)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/me", handler.profile)
		r.Post("/me/invitations", handler.inviteFriend)
		r.Post("/{user_id}/points", handler.addPoints)
		r.Get("/{user_id}/activity", handler.userActivity)
	})

	return r
}
