package index

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/khub/internal/domain"
)

// ViewIndex holds saved views in memory. Redis is the durable copy.
type ViewIndex struct {
	mu         sync.RWMutex
	views      map[string]*domain.SavedView // ID -> view
	lastReload time.Time
}

// NewViewIndex creates an empty view index.
func NewViewIndex() *ViewIndex {
	return &ViewIndex{
		views: make(map[string]*domain.SavedView),
	}
}

// UpdateViews replaces all views.
func (idx *ViewIndex) UpdateViews(views []*domain.SavedView) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.views = make(map[string]*domain.SavedView, len(views))
	for _, v := range views {
		idx.views[v.ID] = v
	}
	idx.lastReload = time.Now()
}

// GetView retrieves a view by ID.
func (idx *ViewIndex) GetView(id string) (*domain.SavedView, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	v, ok := idx.views[id]
	return v, ok
}

// GetAllViews returns every view, oldest first, then by name.
func (idx *ViewIndex) GetAllViews() []*domain.SavedView {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	views := make([]*domain.SavedView, 0, len(idx.views))
	for _, v := range idx.views {
		views = append(views, v)
	}
	slices.SortFunc(views, func(a, b *domain.SavedView) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return views
}

// ActiveViews returns views that are not disabled.
func (idx *ViewIndex) ActiveViews() []*domain.SavedView {
	all := idx.GetAllViews()
	return slices.DeleteFunc(all, func(v *domain.SavedView) bool { return v.Disabled })
}

// AddView adds or updates a single view.
func (idx *ViewIndex) AddView(v *domain.SavedView) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.views[v.ID] = v
}

// DeleteView removes a view.
func (idx *ViewIndex) DeleteView(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.views, id)
}

// Count returns the number of views, disabled included.
func (idx *ViewIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.views)
}

// GetLastReload returns the timestamp of the last UpdateViews.
func (idx *ViewIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
