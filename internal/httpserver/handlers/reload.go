package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/khub/internal/logger"
)

type reloadResponse struct {
	List    bool `json:"list"`
	Presets bool `json:"presets"`
}

// Reload triggers a manual reload of the loaded list and the presets file.
// It answers 202 when at least one reload was queued and 429 when both are
// already pending.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := reloadResponse{
			List:    trigger(d, d.ReloadTrigger, "list", r),
			Presets: trigger(d, d.PresetTrigger, "presets", r),
		}
		if resp.List || resp.Presets {
			writeJSON(w, http.StatusAccepted, resp)
			return
		}
		writeJSON(w, http.StatusTooManyRequests, resp)
	}
}

func trigger(d deps.Deps, ch chan struct{}, what string, r *http.Request) bool {
	if ch == nil {
		return false
	}
	select {
	case ch <- struct{}{}:
		d.Logger.Info("manual reload triggered via endpoint",
			logger.String("target", what),
			logger.String("remote_ip", r.RemoteAddr))
		return true
	default:
		d.Logger.Warn("reload already pending",
			logger.String("target", what),
			logger.String("remote_ip", r.RemoteAddr))
		return false
	}
}
