package mw

import (
	"encoding/json"
	"net/http"

	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
	"github.com/MrSnakeDoc/khub/internal/session"
)

// RequireSession answers 401 SESSION_EXPIRED while nobody is logged in.
func RequireSession(sess *session.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sess.Active() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]any{"error": huberrors.ErrSessionExpired})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
