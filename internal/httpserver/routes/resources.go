package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/khub/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/khub/internal/httpserver/mw"
)

func init() { Register(registerResources) }

func registerResources(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireSession(d.Session))

		r.Post("/resources", handlers.CreateResource(d))
		r.Route("/resources/{id}", func(r chi.Router) {
			r.Put("/", handlers.UpdateResource(d))
			r.Delete("/", handlers.DeleteResource(d))
			r.Post("/archive", handlers.ArchiveResource(d))
			r.Post("/pin", handlers.PinResource(d))
			r.Post("/restore", handlers.RestoreResource(d))
			r.Delete("/permanent", handlers.PermanentDeleteResource(d))
		})
		r.Delete("/trash", handlers.EmptyTrash(d))

		r.Route("/selection", func(r chi.Router) {
			r.Get("/", handlers.GetSelection(d))
			r.Delete("/", handlers.ClearSelection(d))
			r.Post("/all", handlers.SelectAll(d))
			r.Post("/delete", handlers.BulkDelete(d))
			r.Post("/archive", handlers.BulkArchive(d))
			r.Put("/{id}", handlers.ToggleSelection(d))
		})
	})
}
