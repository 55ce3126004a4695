package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/taskify-app/taskify-api/internal/api"
	apiMiddleware "github.com/taskify-app/taskify-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if origins := app.config.Server.TrustedOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(apiMiddleware.TraceMiddleware)
	if app.config.Server.ExposeErrorDetails {
		r.Use(apiMiddleware.ExposeErrorDetails)
	}

	authHandler := api.NewAuthHandler(app.userService, app.sessions, app.resets, app.logger)
	userHandler := api.NewUserHandler(app.userService)
	listHandler := api.NewListHandler(app.lists, app.logger)
	taskHandler := api.NewTaskHandler(app.tasks, app.logger)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	limitAuth := apiMiddleware.RateLimit(app.authLimiter)

	// Public endpoints
	r.Group(func(r chi.Router) {
		r.Use(limitAuth)

		r.Post("/users/register", authHandler.Register)
		r.Post("/users/login", authHandler.Login)
		r.Post("/users/refreshToken", authHandler.RefreshToken)

		r.Post("/auth/refreshToken", authHandler.RefreshToken)
		r.Post("/auth/forgotPassword", authHandler.ForgotPassword)
		r.Put("/auth/resetPassword", authHandler.ResetPassword)
	})

	// Protected endpoints
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Get("/", userHandler.GetUser)
			r.Put("/name", userHandler.Rename)
			r.Put("/password", userHandler.ChangePassword)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/lists", func(r chi.Router) {
			r.Get("/", listHandler.GetLists)
			r.Post("/", listHandler.CreateList)
			r.Get("/{listId}", listHandler.GetList)
			r.Put("/{listId}", listHandler.UpdateList)
			r.Delete("/{listId}", listHandler.DeleteList)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/planned/{userId}", taskHandler.PlannedTasks)
			r.Get("/important/{userId}", taskHandler.ImportantTasks)
			r.Get("/{listId}", taskHandler.GetTasks)
			r.Post("/{listId}", taskHandler.CreateTask)
			r.Get("/{listId}/{taskId}", taskHandler.GetTask)
			r.Put("/{listId}/{taskId}", taskHandler.UpdateTask)
			r.Delete("/{listId}/{taskId}", taskHandler.DeleteTask)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
