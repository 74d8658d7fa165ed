package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pulseops/eventpulse/internal/event/application"
)

// Handler is the HTTP adapter entrypoint for event/reward use-cases.
// Keeping only the application dependency here preserves clean adapter boundaries.
type Handler struct {
	service *application.Service
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// NewRouter registers event service HTTP routes and the middleware stack.
// Role enforcement happens at the gateway; this service trusts the identity
// headers forwarded to it.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/events", func(r chi.Router) {
		r.Post("/", handler.createEvent)
		r.Get("/", handler.listEvents)
		r.Get("/{event_id}", handler.getEvent)
		r.Put("/{event_id}/active", handler.setEventActive)
		r.Post("/{event_id}/rewards", handler.createReward)
		r.Get("/{event_id}/rewards", handler.listRewards)
		r.Post("/{event_id}/reward-requests", handler.createRewardRequest)
		r.Get("/{event_id}/requests", handler.listRequestsByEvent)
		r.Put("/{event_id}/requests/{request_id}/status", handler.updateRequestStatus)
	})

	r.Route("/reward-requests", func(r chi.Router) {
		r.Get("/", handler.listRequestsByStatus)
		r.Get("/user/{user_id}", handler.listRequestsByUser)
	})

	return r
}
