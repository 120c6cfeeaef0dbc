package http

import (
	"log/slog"
	"net/http"

	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Events             *controllers.EventController
	Registrations      *controllers.RegistrationController
	OuterRegistrations *controllers.OuterRegistrationController
	Auth               *controllers.AuthController
	Health             *controllers.HealthController
}

// NewRouter initializes the HTTP router with all application routes.
// Routes under /admin require a valid admin Bearer token.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	admin := middleware.RequireAdmin(verifier, logger)

	// Public
	mux.HandleFunc("GET /events", c.Events.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", c.Events.GetEvent)
	mux.HandleFunc("POST /events/{eventID}/registrations", c.Registrations.Register)
	mux.HandleFunc("POST /events/{eventID}/outer-registrations", c.OuterRegistrations.Register)

	// Auth
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Admin events
	mux.HandleFunc("POST /admin/events", admin(c.Events.CreateEvent))
	mux.HandleFunc("GET /admin/events", admin(c.Events.ListAdminEvents))
	mux.HandleFunc("GET /admin/events/{eventID}", admin(c.Events.GetAdminEvent))
	mux.HandleFunc("PATCH /admin/events/{eventID}", admin(c.Events.UpdateEvent))
	mux.HandleFunc("DELETE /admin/events/{eventID}", admin(c.Events.DeleteEvent))

	// Admin registrations
	mux.HandleFunc("GET /admin/events/{eventID}/registrations", admin(c.Registrations.ListRegistrations))
	mux.HandleFunc("PATCH /admin/registrations/{registrationID}", admin(c.Registrations.UpdateRegistrationStatus))
	mux.HandleFunc("DELETE /admin/registrations/{registrationID}", admin(c.Registrations.DeleteRegistration))
	mux.HandleFunc("GET /admin/events/{eventID}/outer-registrations", admin(c.OuterRegistrations.ListOuterRegistrations))
	mux.HandleFunc("PATCH /admin/outer-registrations/{registrationID}", admin(c.OuterRegistrations.UpdateOuterRegistrationStatus))
	mux.HandleFunc("DELETE /admin/outer-registrations/{registrationID}", admin(c.OuterRegistrations.DeleteOuterRegistration))

	mux.HandleFunc("GET /health", c.Health.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with panic recovery, request logging, request
// ids and CORS.
func NewHandler(mux http.Handler, allowedOrigins []string, logger *slog.Logger) http.Handler {
	logged := middleware.LoggingMiddleware(logger, middleware.Recover(logger, mux))
	return middleware.CORS(allowedOrigins, middleware.RequestID(logged))
}
