package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/khub/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/khub/internal/httpserver/mw"
)

func init() { Register(registerAdmin) }

// registerAdmin mounts the probes and the operator endpoints. All but
// healthz are restricted to the allowed CIDRs.
func registerAdmin(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
		r.Get("/readyz", handlers.Readyz(d))
		r.Get("/status", handlers.Status(d))
		r.Post("/reload", handlers.Reload(d))
		r.Delete("/metadata", handlers.FlushMetadata(d))
	})
}
