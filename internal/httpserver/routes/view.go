package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/khub/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/khub/internal/httpserver/mw"
)

func init() { Register(registerView) }

func registerView(r chi.Router, d deps.Deps) {
	r.Get("/providers", handlers.Providers(d))
	r.Get("/notice", handlers.Notice(d))
	r.Delete("/notice", handlers.DismissNotice(d))

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireSession(d.Session))
		r.Get("/view", handlers.View(d))
		r.Post("/view/scope", handlers.SetScope(d))
		r.Get("/stats", handlers.Stats(d))
		r.Get("/stats/lifetime", handlers.LifetimeStats(d))
		r.Get("/tags", handlers.Tags(d))
		r.Get("/metadata", handlers.Metadata(d))
	})
}
