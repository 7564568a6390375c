package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/khub/internal/domain"
	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/khub/internal/lifecycle"
)

// listParam collects a repeated or comma separated query parameter.
func listParam(v url.Values, key string) []string {
	var out []string
	for _, raw := range v[key] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// parseViewQuery reads q, sort, categories, tags, range, sources and pinned.
func parseViewQuery(v url.Values) (lifecycle.ViewQuery, error) {
	mode, err := domain.ParseSortMode(v.Get("sort"))
	if err != nil {
		return lifecycle.ViewQuery{}, huberrors.Validation(err.Error())
	}
	q := lifecycle.ViewQuery{
		Search: v.Get("q"),
		Sort:   mode,
		Filter: domain.FilterSpec{
			Categories: listParam(v, "categories"),
			Tags:       listParam(v, "tags"),
			DateRange:  domain.DateRange(strings.TrimSpace(v.Get("range"))),
			Sources:    listParam(v, "sources"),
		},
	}
	if raw := v.Get("pinned"); raw != "" {
		if q.PinnedOnly, err = strconv.ParseBool(raw); err != nil {
			return lifecycle.ViewQuery{}, huberrors.Validation("pinned must be a boolean")
		}
	}
	return q, nil
}

// View derives the filtered and sorted list. A scope parameter that differs
// from the loaded scope loads that scope first.
func View(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		q, err := parseViewQuery(params)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		if raw := params.Get("scope"); raw != "" {
			scope, err := domain.ParseScope(raw)
			if err != nil {
				writeError(w, r, d, huberrors.Validation(err.Error()))
				return
			}
			list := d.Controller.List()
			if scope != list.Scope() || list.Generation() == 0 {
				if err := d.Controller.Load(r.Context(), lifecycle.LoadQuery{Scope: scope}); err != nil {
					writeError(w, r, d, err)
					return
				}
			}
		}

		vm, err := d.Controller.View(q)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, vm)
	}
}

type scopeRequest struct {
	Scope        string            `json:"scope"`
	Filters      domain.FilterSpec `json:"filters"`
	CollectionID string            `json:"collectionId"`
}

// SetScope reloads the list for a scope, optionally narrowed to a
// collection, and returns the unfiltered view.
func SetScope(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scopeRequest
		if err := decodeJSON(w, r, &req, false); err != nil {
			writeError(w, r, d, err)
			return
		}
		scope, err := domain.ParseScope(req.Scope)
		if err != nil {
			writeError(w, r, d, huberrors.Validation(err.Error()))
			return
		}

		err = d.Controller.Load(r.Context(), lifecycle.LoadQuery{
			Scope:        scope,
			Filter:       req.Filters,
			CollectionID: strings.TrimSpace(req.CollectionID),
		})
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		vm, err := d.Controller.View(lifecycle.ViewQuery{})
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, vm)
	}
}

// Stats summarizes the loaded list.
func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Controller.Stats())
	}
}

// LifetimeStats proxies the remote counters.
func LifetimeStats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := d.API.LifetimeStats(r.Context())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// Tags lists tag counts of the loaded list.
func Tags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Controller.Tags())
	}
}

// Providers lists the known sources with their display attributes.
func Providers(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.Providers())
	}
}

type noticeResponse struct {
	Notice *lifecycle.Notice `json:"notice"`
}

// Notice returns the current banner, or null once it expired.
func Notice(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp noticeResponse
		if n, ok := d.Controller.Notices().Current(); ok {
			resp.Notice = &n
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// DismissNotice clears the banner.
func DismissNotice(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Controller.Notices().Dismiss()
		noContent(w)
	}
}
