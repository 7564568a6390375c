package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}

// Readyz is not ready while a configured Redis does not answer. Without
// Redis the service runs from memory and is always ready.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st := checkRedis(r.Context(), d); st.Mode == modeDown {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Reason: "redis: " + st.Error})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
