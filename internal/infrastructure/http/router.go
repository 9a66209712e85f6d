package http

import (
	"net/http"
	"time"

	"waves-events/pkg/middleware"

	"github.com/go-chi/chi/v5"

	jwtutil "waves-events/pkg/jwt"
)

// RouterConfig carries the controllers and middleware dependencies of
// the HTTP surface
type RouterConfig struct {
	Events     *EventController
	Payments   *PaymentController
	Feedback   *FeedbackController
	JWTManager *jwtutil.JWTManager
	RateLimit  *middleware.RateLimiter
	Timeout    time.Duration
}

// NewRouter builds the chi router. Event reads are public; event
// mutations are admin only; registrations and feedback writes require
// an authenticated user.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RecoveryMiddleware)
	if cfg.RateLimit != nil {
		r.Use(cfg.RateLimit.Middleware)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	r.Use(middleware.TimeoutMiddleware(timeout))

	auth := middleware.JWTAuthMiddleware(cfg.JWTManager)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"waves-events"}`))
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", cfg.Events.ListEvents)
		r.Post("/batch", cfg.Events.GetEventBatch)
		r.Get("/genre/{genre}", cfg.Events.ListEventsByGenre)
		r.Get("/artist/{artistId}", cfg.Events.ListEventsByArtist)
		r.Get("/collaborator/{artistId}", cfg.Events.ListEventsByCollaborator)
		r.Get("/location", cfg.Events.ListEventsByLocation)
		r.Get("/dates", cfg.Events.ListEventsByDateRange)
		r.Get("/{eventId}", cfg.Events.GetEvent)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Use(middleware.RequireAdmin)
			r.Post("/", cfg.Events.CreateEvent)
			r.Put("/{eventId}", cfg.Events.UpdateEvent)
			r.Put("/{eventId}/collaborators", cfg.Events.UpdateCollaborators)
			r.Put("/{eventId}/discounts", cfg.Events.UpdateDiscounts)
			r.Delete("/{eventId}", cfg.Events.DeleteEvent)
		})
	})

	r.Route("/registrations", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireUser)
		r.Get("/", cfg.Payments.ListMine)
		r.Get("/cancelled", cfg.Payments.ListMineCancelled)
		r.Post("/{eventId}", cfg.Payments.Register)
		r.Get("/{eventId}", cfg.Payments.GetMineForEvent)
		r.Delete("/{eventId}", cfg.Payments.Cancel)
		r.With(middleware.RequireAdmin).Get("/event/{eventId}", cfg.Payments.ListForEvent)
	})

	r.Route("/feedback", func(r chi.Router) {
		r.Get("/entry/{feedbackId}", cfg.Feedback.GetFeedbackByID)
		r.Get("/{eventId}", cfg.Feedback.ListFeedback)
		r.Get("/{eventId}/average", cfg.Feedback.GetAverageRating)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Use(middleware.RequireUser)
			r.Get("/{eventId}/me", cfg.Feedback.GetMyFeedback)
			r.Post("/{eventId}", cfg.Feedback.AddFeedback)
			r.Put("/{eventId}", cfg.Feedback.UpdateFeedback)
			r.Delete("/{eventId}", cfg.Feedback.DeleteFeedback)
		})
	})

	return r
}
