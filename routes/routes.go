package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/fuelcore/pump-master-backend/app"
	"github.com/fuelcore/pump-master-backend/handlers"
	"github.com/fuelcore/pump-master-backend/httpx"
	"github.com/fuelcore/pump-master-backend/middleware"
)

// SetupRoutes configures all application routes and middleware.
//
// The authentication chain runs globally, in order: Scope installs the
// per-request tenant slot, Authenticate resolves the bearer token into
// an identity (recording a failure reason instead of rejecting), and
// Enforce applies the access policy. Handlers behind the policy can rely
// on an identity and tenant being present.
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Authentication chain
	r.Use(middleware.Scope)
	r.Use(deps.AuthMiddleware.Authenticate)
	r.Use(deps.Enforcer.Enforce)

	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Logger)
	r.Get("/healthz", healthHandler.HandleHealth)
	r.Get("/readyz", healthHandler.HandleReadiness)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", handlers.LoginHandler(deps))
			r.Post("/refresh", handlers.RefreshHandler(deps))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", handlers.GetCurrentUserHandler(deps))
		})

		r.Route("/pump-masters", func(r chi.Router) {
			r.Get("/me", handlers.GetCurrentPumpMasterHandler(deps))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = httpx.WriteNotFound(w, r, "endpoint not found")
	})

	return r
}
