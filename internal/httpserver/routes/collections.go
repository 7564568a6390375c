package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/khub/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/khub/internal/httpserver/mw"
)

func init() { Register(registerCollections) }

func registerCollections(r chi.Router, d deps.Deps) {
	r.With(mw.RequireSession(d.Session)).Route("/collections", func(r chi.Router) {
		r.Get("/", handlers.Collections(d))
		r.Post("/", handlers.CreateCollection(d))
		r.Delete("/{id}", handlers.DeleteCollection(d))
		r.Post("/{id}/resources", handlers.AddResourcesToCollection(d))
		r.Put("/{id}/resources/{rid}", handlers.AddToCollection(d))
		r.Delete("/{id}/resources/{rid}", handlers.RemoveFromCollection(d))
	})
}
