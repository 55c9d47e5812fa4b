package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/traintrackhq/traintrack-api/internal/api"
	apiMiddleware "github.com/traintrackhq/traintrack-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	accountHandler := api.NewAccountHandler(app.accountService, app.tokenService)
	adminHandler := api.NewAdminHandler(app.accountService)
	workoutHandler := api.NewWorkoutHandler(app.workoutService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokenService)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", accountHandler.Register)
		r.Post("/login", accountHandler.Login)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/account/password", accountHandler.ChangePassword)
			r.Post("/account/email", accountHandler.ChangeEmail)

			r.Post("/workouts", workoutHandler.Save)
			r.Get("/workouts", workoutHandler.List)
			r.Get("/workouts/{id}", workoutHandler.Get)
		})

		// Admin endpoints; privilege is re-checked against the store on
		// every request.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(authMiddleware.RequireAdmin(app.accountService))

			r.Get("/admin/users", adminHandler.ListUsers)
			r.Get("/admin/users/{id}", adminHandler.GetUser)
			r.Delete("/admin/users/{id}", adminHandler.DeleteUser)
			r.Put("/admin/users/{id}/password", adminHandler.ChangePassword)
			r.Put("/admin/users/{id}/email", adminHandler.ChangeEmail)
			r.Put("/admin/users/{id}/privilege", adminHandler.ChangePrivilege)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
