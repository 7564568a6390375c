package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/khub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/khub/internal/session"
)

const (
	modeOptimal  = "optimal"
	modeDisabled = "disabled"
	modeDown     = "down"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
	Loaded     *int   `json:"loaded,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
}

type listStatus struct {
	componentStatus
	Scope      string   `json:"scope"`
	Generation uint64   `json:"generation"`
	Selected   int      `json:"selected"`
	InFlight   []string `json:"in_flight"`
}

type statusResponse struct {
	Mode       string                     `json:"mode"`
	Session    session.Status             `json:"session"`
	List       listStatus                 `json:"list"`
	Components map[string]componentStatus `json:"components"`
}

// Status reports the session, the loaded list and the infrastructure.
func Status(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := d.Controller.List()
		count := list.Count()
		listComp := componentStatus{
			OK:         list.Generation() > 0,
			Loaded:     &count,
			LastReload: formatReload(list.GetLastReload()),
		}

		views := d.Views.Count()
		pending := 0
		if d.Gate != nil {
			pending = d.Gate.Pending()
		}

		resp := statusResponse{
			Session: d.Session.Status(),
			List: listStatus{
				componentStatus: listComp,
				Scope:           string(list.Scope()),
				Generation:      list.Generation(),
				Selected:        d.Controller.Selection().Len(),
				InFlight:        d.Controller.Pending(),
			},
			Components: map[string]componentStatus{
				"redis": checkRedis(r.Context(), d),
				"saved_views": {
					OK:         true,
					Loaded:     &views,
					LastReload: formatReload(d.Views.GetLastReload()),
				},
				"confirmations": {
					OK:     true,
					Loaded: &pending,
				},
			},
		}
		resp.Mode = overallMode(resp)
		writeJSON(w, http.StatusOK, resp)
	}
}

func formatReload(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format(time.RFC3339)
}

func overallMode(s statusResponse) string {
	if !s.Session.Active {
		return "signed-out"
	}
	if s.Components["redis"].Mode == modeDown {
		return "degraded" // no snapshots, no saved view persistence
	}
	return "operational"
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     true,
			Mode:   modeDisabled,
			Impact: "memory-only",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   modeDown,
			Impact: "snapshots-and-saved-views-not-persisted",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   modeOptimal,
		Impact: "snapshots-and-saved-views-persisted",
	}
}
