package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"communityevents/internal/delivery/http/controllers"
	"communityevents/internal/delivery/http/middleware"
	"communityevents/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
	taxonomyController *controllers.TaxonomyController,
	webhookController *controllers.WebhookController,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)

	// Events
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("POST /events", requireAuth(eventController.CreateEvent))
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("PUT /events/{eventID}", requireAuth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(eventController.DeleteEvent))
	mux.HandleFunc("GET /my/events", requireAuth(eventController.ListMyEvents))

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/participants", registrationController.Join)
	mux.HandleFunc("DELETE /events/{eventID}/participants", registrationController.Leave)
	mux.HandleFunc("GET /events/{eventID}/participants", requireAuth(registrationController.ListParticipants))
	mux.HandleFunc("GET /events/{eventID}/registration", registrationController.GetRegistration)

	// Taxonomy
	mux.HandleFunc("GET /categories", taxonomyController.ListCategories)
	mux.HandleFunc("GET /tags", taxonomyController.ListTags)

	// Identity provider sync
	mux.HandleFunc("POST /webhooks/identity", webhookController.HandleIdentityEvent)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
