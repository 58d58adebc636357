package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/uetodo/uetodo-api/internal/api"
	apiMiddleware "github.com/uetodo/uetodo-api/internal/api/middleware"
	"github.com/uetodo/uetodo-api/internal/service/auth"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := api.NewAuthHandler(app.authService, app.userService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	dashboardHandler := api.NewDashboardHandler(app.dashboardService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if app.limiter != nil {
				r.Use(apiMiddleware.RateLimit(app.limiter))
			}
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.Post("/create-user", authHandler.CreateUser)
			r.Post("/refresh-token", authHandler.RefreshToken)
			r.Post("/send-verification-code", authHandler.SendVerificationCode)
			r.Post("/verify-email", authHandler.VerifyEmail)
			r.Post("/reset-password", authHandler.ResetPassword)
			r.Post("/verify-reset-code", authHandler.VerifyResetCode)
			r.With(authMiddleware.Authenticate).Post("/logout", authHandler.Logout)
		})

		r.Route("/user", func(r chi.Router) {
			// Only the token from verify-reset-code may set a new password
			// without the old one.
			r.With(authMiddleware.RequireTokenType(auth.TokenTypePasswordReset)).
				Post("/update-new-password", userHandler.UpdateNewPassword)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Get("/", userHandler.ListUsers)
				r.Get("/me", userHandler.Me)
				r.Get("/{id}", userHandler.GetUser)
				r.Put("/{id}", userHandler.UpdateUser)
				r.Delete("/{id}", userHandler.DeleteUser)
				r.Put("/{id}/password", userHandler.ChangePassword)
				r.Post("/{id}/avatar", userHandler.UploadAvatar)
			})
		})

		r.Route("/task", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/", taskHandler.ListTasks)
			r.Post("/", taskHandler.CreateTask)
			r.Get("/user/{id}", taskHandler.ListUserTasks)
			r.Get("/dashboard/{id}", dashboardHandler.Summary)
			r.Get("/dashboard/barchart/{id}", dashboardHandler.BarChart)
			r.Get("/dashboard/linechart/{id}", dashboardHandler.LineChart)
			r.Get("/dashboard/overview/{id}", dashboardHandler.Overview)
			r.Get("/{id}", taskHandler.GetTask)
			r.Put("/{id}", taskHandler.UpdateTask)
			r.Delete("/{id}", taskHandler.DeleteTask)
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
