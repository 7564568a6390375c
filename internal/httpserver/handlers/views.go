package handlers

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/khub/internal/domain"
	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/khub/internal/id"
	"github.com/MrSnakeDoc/khub/internal/lifecycle"
	"github.com/MrSnakeDoc/khub/internal/logger"
)

type createViewRequest struct {
	Name    string            `json:"name" validate:"notblank,max=80"`
	Filters domain.FilterSpec `json:"filters"`
	Search  string            `json:"search" validate:"max=200"`
}

// SavedViews lists enabled saved views by name; all=true includes
// disabled presets.
func SavedViews(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views := d.Views.ActiveViews()
		if r.URL.Query().Get("all") == "true" {
			views = d.Views.GetAllViews()
		}
		slices.SortFunc(views, func(a, b *domain.SavedView) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
		writeJSON(w, http.StatusOK, views)
	}
}

// CreateSavedView stores the filters under a new name. Redis persistence is
// best effort; the view is usable either way.
func CreateSavedView(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createViewRequest
		if err := decodeJSON(w, r, &req, false); err != nil {
			writeError(w, r, d, err)
			return
		}
		if err := d.Validator.Validate(req); err != nil {
			writeError(w, r, d, err)
			return
		}
		if err := req.Filters.Validate(); err != nil {
			writeError(w, r, d, huberrors.ValidationWithDetails("invalid filters", map[string]string{"filters": err.Error()}))
			return
		}
		name := strings.TrimSpace(req.Name)

		userViews := 0
		for _, v := range d.Views.ActiveViews() {
			if strings.EqualFold(v.Name, name) {
				writeError(w, r, d, huberrors.ValidationWithDetails("a view with this name exists", map[string]string{"name": "already used"}))
				return
			}
			if v.HasSource(domain.ViewSourceUser) {
				userViews++
			}
		}
		if d.MaxSavedViews > 0 && userViews >= d.MaxSavedViews {
			writeError(w, r, d, huberrors.InvalidState("saved view limit reached"))
			return
		}

		viewID, err := id.Generate("view")
		if err != nil {
			writeError(w, r, d, huberrors.Internal("generate view id", err))
			return
		}
		now := d.Now()
		view := &domain.SavedView{
			ID:        viewID,
			Name:      name,
			Filters:   req.Filters,
			Search:    strings.TrimSpace(req.Search),
			Sources:   []string{domain.ViewSourceUser},
			CreatedAt: now,
			UpdatedAt: now,
		}
		d.Views.AddView(view)

		if d.Store != nil {
			if err := d.Store.SaveView(r.Context(), view); err != nil {
				d.Logger.Warn("failed to persist saved view",
					logger.String("id", view.ID),
					logger.Error(err))
			}
		}
		writeJSON(w, http.StatusCreated, view)
	}
}

// DeleteSavedView removes a user view. Presets from the views file are
// managed by editing the file.
func DeleteSavedView(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewID := chi.URLParam(r, "id")
		view, ok := d.Views.GetView(viewID)
		if !ok {
			writeError(w, r, d, huberrors.NotFound("view "+viewID+" not found"))
			return
		}
		if !view.HasSource(domain.ViewSourceUser) {
			writeError(w, r, d, huberrors.InvalidState("presets from the views file cannot be deleted"))
			return
		}

		d.Views.DeleteView(viewID)
		if d.Store != nil {
			if err := d.Store.DeleteView(r.Context(), viewID); err != nil {
				d.Logger.Warn("failed to delete saved view from redis",
					logger.String("id", viewID),
					logger.Error(err))
			}
		}
		noContent(w)
	}
}

// ApplySavedView derives the view with the saved filters and search. The
// sort query parameter still applies.
func ApplySavedView(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewID := chi.URLParam(r, "id")
		view, ok := d.Views.GetView(viewID)
		if !ok || view.Disabled {
			writeError(w, r, d, huberrors.NotFound("view "+viewID+" not found"))
			return
		}
		mode, err := domain.ParseSortMode(r.URL.Query().Get("sort"))
		if err != nil {
			writeError(w, r, d, huberrors.Validation(err.Error()))
			return
		}

		vm, err := d.Controller.View(lifecycle.ViewQuery{
			Filter: view.Filters,
			Search: view.Search,
			Sort:   mode,
		})
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, vm)
	}
}
