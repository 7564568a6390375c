package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/khub/internal/httpserver/handlers"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/session", handlers.SessionStatus(d))
		r.Post("/login", handlers.Login(d))
		r.Post("/register", handlers.Register(d))
		r.Post("/logout", handlers.Logout(d))
		r.Post("/refresh", handlers.Refresh(d))
	})
}
