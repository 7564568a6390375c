package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/khub/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/khub/internal/httpserver/mw"
)

func init() { Register(registerViews) }

// registerViews mounts saved views. Listing works signed out; applying
// needs a loaded list.
func registerViews(r chi.Router, d deps.Deps) {
	r.Route("/views", func(r chi.Router) {
		r.Get("/", handlers.SavedViews(d))
		r.Post("/", handlers.CreateSavedView(d))
		r.Delete("/{id}", handlers.DeleteSavedView(d))
		r.With(mw.RequireSession(d.Session)).Post("/{id}/apply", handlers.ApplySavedView(d))
	})
}
