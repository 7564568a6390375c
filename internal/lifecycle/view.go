package lifecycle

import (
	"slices"
	"time"

	"github.com/MrSnakeDoc/khub/internal/domain"
	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
)

// ViewQuery is the client side narrowing of the loaded list.
type ViewQuery struct {
	Filter domain.FilterSpec `json:"filters"`
	Search string            `json:"search"`
	Sort   domain.SortMode   `json:"sort"`
	// PinnedOnly narrows the active scope to pinned resources.
	PinnedOnly bool `json:"pinnedOnly"`
}

// ViewItem is a resource decorated for display.
type ViewItem struct {
	domain.Resource
	Source          domain.SourceConfig `json:"source"`
	DisplayCategory string              `json:"displayCategory"`
	Hostname        string              `json:"hostname"`
	Favicon         string              `json:"favicon"`
	Selected        bool                `json:"selected"`
	// ExpiresAt is set for trashed resources.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// ViewModel is what the resource list renders.
type ViewModel struct {
	Scope      domain.ViewScope `json:"scope"`
	Items      []ViewItem       `json:"items"`
	Total      int              `json:"total"`
	Matched    int              `json:"matched"`
	Categories []string         `json:"categories"`
	Selected   []string         `json:"selected"`
	Generation uint64           `json:"generation"`
	Notice     *Notice          `json:"notice,omitempty"`
}

// View filters and sorts the loaded list. It never calls the remote API.
func (c *Controller) View(q ViewQuery) (ViewModel, error) {
	if err := q.Filter.Validate(); err != nil {
		return ViewModel{}, huberrors.Validation(err.Error())
	}
	mode := q.Sort
	if mode == "" {
		mode = domain.SortNewest
	}

	list := c.list.All()
	scope := c.list.Scope()
	matchScope := scope
	if q.PinnedOnly && scope == domain.ScopeActive {
		matchScope = domain.ScopePinnedOnly
	}

	matched := domain.Apply(list, domain.Query{Filter: q.Filter, Search: q.Search, Scope: matchScope}, c.now())
	sorted := domain.Sort(matched, mode, scope)

	selected := c.selection.IDs()
	items := make([]ViewItem, 0, len(sorted))
	for _, r := range sorted {
		item := ViewItem{
			Resource:        r,
			Source:          domain.Classify(r.URL),
			DisplayCategory: r.DisplayCategory(),
			Hostname:        domain.Hostname(r.URL),
			Favicon:         domain.FaviconURL(r.URL),
		}
		item.Selected = slices.Contains(selected, r.ID)
		if at, ok := r.ExpiresAt(); ok {
			item.ExpiresAt = &at
		}
		items = append(items, item)
	}

	vm := ViewModel{
		Scope:      scope,
		Items:      items,
		Total:      len(list),
		Matched:    len(items),
		Categories: domain.Categories(list),
		Selected:   selected,
		Generation: c.list.Generation(),
	}
	if n, ok := c.notices.Current(); ok {
		vm.Notice = &n
	}
	return vm, nil
}

// Stats summarizes the loaded list.
func (c *Controller) Stats() domain.Stats {
	return domain.Aggregate(c.list.All(), c.now())
}

// Tags counts tag usage across the loaded list.
func (c *Controller) Tags() []domain.NameCount {
	return domain.TagCounts(c.list.All())
}
