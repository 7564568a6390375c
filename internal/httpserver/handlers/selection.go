package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
)

type selectionResponse struct {
	IDs   []string `json:"ids"`
	Count int      `json:"count"`
}

type toggleResponse struct {
	ID       string `json:"id"`
	Selected bool   `json:"selected"`
	Count    int    `json:"count"`
}

func currentSelection(d deps.Deps) selectionResponse {
	ids := d.Controller.Selection().IDs()
	return selectionResponse{IDs: ids, Count: len(ids)}
}

func checkSelectionSize(d deps.Deps, n int) error {
	if d.MaxSelection > 0 && n > d.MaxSelection {
		return huberrors.ValidationWithDetails("too many resources selected",
			map[string]int{"count": n, "max": d.MaxSelection})
	}
	return nil
}

// GetSelection lists the selected ids in selection order.
func GetSelection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentSelection(d))
	}
}

// ToggleSelection selects or deselects one loaded resource.
func ToggleSelection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := d.Controller.List().Get(id); !ok {
			writeError(w, r, d, huberrors.NotFound("resource "+id+" is not in the current view"))
			return
		}
		sel := d.Controller.Selection()
		selected := sel.Toggle(id)
		writeJSON(w, http.StatusOK, toggleResponse{ID: id, Selected: selected, Count: sel.Len()})
	}
}

// SelectAll selects every resource matched by the view query parameters.
func SelectAll(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseViewQuery(r.URL.Query())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		vm, err := d.Controller.View(q)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		ids := make([]string, len(vm.Items))
		for i, item := range vm.Items {
			ids[i] = item.ID
		}
		if err := checkSelectionSize(d, len(ids)); err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Controller.Selection().Set(ids)
		writeJSON(w, http.StatusOK, currentSelection(d))
	}
}

// ClearSelection empties the selection.
func ClearSelection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Controller.Selection().Clear()
		noContent(w)
	}
}

// BulkDelete trashes the selection after confirmation.
func BulkDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Controller.BulkDelete(confirmed(r)); err != nil {
			writeError(w, r, d, err)
			return
		}
		noContent(w)
	}
}

// BulkArchive archives the selection, or unarchives it with archive=false.
func BulkArchive(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		archive := true
		if raw := r.URL.Query().Get("archive"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				writeError(w, r, d, huberrors.Validation("archive must be a boolean"))
				return
			}
			archive = v
		}
		if err := d.Controller.BulkArchive(confirmed(r), archive); err != nil {
			writeError(w, r, d, err)
			return
		}
		noContent(w)
	}
}
