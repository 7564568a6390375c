package lifecycle

import (
	"sync"

	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
)

// inflight is a per-key single-flight guard. A key stays reserved until the
// remote call that reserved it settles.
type inflight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{keys: make(map[string]struct{})}
}

// acquire reserves every key or none. The returned release is idempotent.
func (g *inflight) acquire(keys []string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, k := range keys {
		if _, busy := g.keys[k]; busy {
			return nil, huberrors.InFlight(k)
		}
	}
	for _, k := range keys {
		g.keys[k] = struct{}{}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			for _, k := range keys {
				delete(g.keys, k)
			}
		})
	}, nil
}

// busy reports whether key is reserved.
func (g *inflight) busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.keys[key]
	return ok
}

// pending lists the reserved keys.
func (g *inflight) pending() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]string, 0, len(g.keys))
	for k := range g.keys {
		out = append(out, k)
	}
	return out
}
