package api

import (
	"github.com/Zach-Mp4/warbler/internal/api/handlers"
	"github.com/Zach-Mp4/warbler/internal/auth"
	"github.com/Zach-Mp4/warbler/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	tokens *auth.TokenManager,
	userService services.UserServiceProvider,
	followService services.FollowServiceProvider,
	messageService services.MessageServiceProvider,
	allowedOrigin string,
	secureCookies bool,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := handlers.NewAuthHandler(userService, tokens, secureCookies)
	userHandler := handlers.NewUserHandler(userService, followService, secureCookies)
	messageHandler := handlers.NewMessageHandler(messageService)

	requireUser := tokens.RequireUser()

	r.Post("/signup", authHandler.Signup)
	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)

	r.Route("/users", func(r chi.Router) {
		// Anonymous visitors are redirected to /login from these routes.
		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/", userHandler.List)
			r.Get("/{id}/following", userHandler.GetFollowing)
			r.Get("/{id}/followers", userHandler.GetFollowers)
			r.Post("/follow/{id}", userHandler.Follow)
			r.Post("/stop-following/{id}", userHandler.StopFollowing)
			r.Get("/profile", userHandler.GetProfile)
			r.Post("/profile", userHandler.UpdateProfile)
			r.Post("/delete", userHandler.Delete)
		})

		// Public profile pages
		r.Get("/{id}", userHandler.Get)
		r.Get("/{id}/messages", messageHandler.ListForUser)
	})

	r.Route("/messages", func(r chi.Router) {
		r.Get("/{id}", messageHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Post("/", messageHandler.Create)
			r.Delete("/{id}", messageHandler.Delete)
		})
	})

	return r
}
