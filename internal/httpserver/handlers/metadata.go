package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/khub/internal/domain"
	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/khub/internal/logger"
)

type flushResponse struct {
	Removed int `json:"removed"`
}

func metadataURL(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("url"))
	if raw == "" {
		return "", huberrors.ValidationWithDetails("url is required", map[string]string{"url": "required"})
	}
	return domain.EnsureProtocol(raw), nil
}

// Metadata returns link preview data, served from the Redis cache when
// possible. X-Cache tells HIT or MISS.
func Metadata(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := metadataURL(r)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		if d.Store != nil {
			meta, ok, err := d.Store.GetCachedMetadata(r.Context(), u)
			if err != nil {
				d.Logger.Warn("metadata cache read failed", logger.Error(err))
			}
			if ok {
				w.Header().Set("X-Cache", "HIT")
				writeJSON(w, http.StatusOK, meta)
				return
			}
		}

		meta, err := d.API.Metadata(r.Context(), u)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		if d.Store != nil {
			if err := d.Store.CacheMetadata(r.Context(), u, meta); err != nil {
				d.Logger.Warn("metadata cache write failed", logger.Error(err))
			}
		}
		w.Header().Set("X-Cache", "MISS")
		writeJSON(w, http.StatusOK, meta)
	}
}

// FlushMetadata drops the cached entry for url, or every entry when url is
// absent.
func FlushMetadata(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Store == nil {
			writeJSON(w, http.StatusOK, flushResponse{})
			return
		}
		if r.URL.Query().Has("url") {
			u, err := metadataURL(r)
			if err != nil {
				writeError(w, r, d, err)
				return
			}
			if err := d.Store.InvalidateMetadata(r.Context(), u); err != nil {
				writeError(w, r, d, huberrors.Internal("invalidate metadata", err))
				return
			}
			writeJSON(w, http.StatusOK, flushResponse{Removed: 1})
			return
		}

		n, err := d.Store.FlushMetadata(r.Context())
		if err != nil {
			writeError(w, r, d, huberrors.Internal("flush metadata", err))
			return
		}
		d.Logger.Info("metadata cache flushed", logger.Int("removed", n))
		writeJSON(w, http.StatusOK, flushResponse{Removed: n})
	}
}
