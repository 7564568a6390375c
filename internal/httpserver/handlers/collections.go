package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
)

type createCollectionRequest struct {
	Name string `json:"name"`
}

type addResourcesRequest struct {
	// IDs replaces the selection before adding. Empty adds the current
	// selection.
	IDs []string `json:"ids"`
}

// Collections lists the user's collections.
func Collections(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cols, err := d.Controller.Collections(r.Context())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, cols)
	}
}

func CreateCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCollectionRequest
		if err := decodeJSON(w, r, &req, false); err != nil {
			writeError(w, r, d, err)
			return
		}
		col, err := d.Controller.CreateCollection(r.Context(), req.Name)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, col)
	}
}

func DeleteCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Controller.DeleteCollection(confirmed(r), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, d, err)
			return
		}
		noContent(w)
	}
}

// AddResourcesToCollection adds many resources in one remote request.
func AddResourcesToCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addResourcesRequest
		if err := decodeJSON(w, r, &req, true); err != nil {
			writeError(w, r, d, err)
			return
		}
		if err := checkSelectionSize(d, len(req.IDs)); err != nil {
			writeError(w, r, d, err)
			return
		}
		if len(req.IDs) > 0 {
			d.Controller.Selection().Set(req.IDs)
		}
		if err := d.Controller.AddSelectionToCollection(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, d, err)
			return
		}
		noContent(w)
	}
}

func AddToCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.Controller.AddToCollection(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "rid"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		noContent(w)
	}
}

func RemoveFromCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.Controller.RemoveFromCollection(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "rid"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		noContent(w)
	}
}
