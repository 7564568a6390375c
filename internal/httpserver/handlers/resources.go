package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/khub/internal/lifecycle"
)

// CreateResource validates a draft and stores it remotely.
func CreateResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft lifecycle.Draft
		if err := decodeJSON(w, r, &draft, false); err != nil {
			writeError(w, r, d, err)
			return
		}
		created, err := d.Controller.Create(r.Context(), draft)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// UpdateResource applies an edit and answers with the updated resource.
func UpdateResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var edit lifecycle.Edit
		if err := decodeJSON(w, r, &edit, false); err != nil {
			writeError(w, r, d, err)
			return
		}
		if err := d.Controller.Update(r.Context(), id, edit); err != nil {
			writeError(w, r, d, err)
			return
		}
		if res, ok := d.Controller.List().Get(id); ok {
			writeJSON(w, http.StatusOK, res)
			return
		}
		noContent(w)
	}
}

// resourceAction adapts a single-resource controller action. The
// confirmation token header, if any, travels in the context.
func resourceAction(d deps.Deps, action func(*lifecycle.Controller, context.Context, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := action(d.Controller, confirmed(r), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, d, err)
			return
		}
		noContent(w)
	}
}

func ArchiveResource(d deps.Deps) http.HandlerFunc {
	return resourceAction(d, (*lifecycle.Controller).ToggleArchive)
}

func PinResource(d deps.Deps) http.HandlerFunc {
	return resourceAction(d, (*lifecycle.Controller).TogglePin)
}

func RestoreResource(d deps.Deps) http.HandlerFunc {
	return resourceAction(d, (*lifecycle.Controller).Restore)
}

// DeleteResource moves a resource to the trash after confirmation.
func DeleteResource(d deps.Deps) http.HandlerFunc {
	return resourceAction(d, (*lifecycle.Controller).Delete)
}

// PermanentDeleteResource removes a trashed resource after confirmation.
func PermanentDeleteResource(d deps.Deps) http.HandlerFunc {
	return resourceAction(d, (*lifecycle.Controller).PermanentDelete)
}

// EmptyTrash removes every trashed resource after confirmation.
func EmptyTrash(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Controller.EmptyTrash(confirmed(r)); err != nil {
			writeError(w, r, d, err)
			return
		}
		noContent(w)
	}
}
