package index

import (
	"slices"
	"sync"
	"time"

	"github.com/MrSnakeDoc/khub/internal/domain"
)

// ResourceList is the in-memory list of resources for the current view
// scope. It is the only shared mutable state of the view: the lifecycle
// controller mutates it optimistically and full reloads replace it.
//
// Three counters guard against stale writes:
//   - generation changes when a load starts or the list is cleared; load
//     results from an older generation are dropped.
//   - epoch changes when a load result is installed or the list is cleared;
//     rollbacks from an older epoch are dropped. A load that fails leaves
//     the epoch alone.
//   - revision changes on every write; a rollback restores the whole
//     snapshot only when nothing else was written since its own mutation.
type ResourceList struct {
	mu          sync.RWMutex
	items       []domain.Resource
	scope       domain.ViewScope
	generation  uint64
	epoch       uint64
	revision    uint64
	lastReload  time.Time
	collections []domain.Collection
}

// Snapshot is a deep copy of the list taken before a tentative change.
type Snapshot struct {
	items    []domain.Resource
	epoch    uint64
	revision uint64
}

// Items returns a deep copy of the snapshot contents.
func (s Snapshot) Items() []domain.Resource {
	return domain.CloneAll(s.items)
}

// NewResourceList creates an empty list in the active scope.
func NewResourceList() *ResourceList {
	return &ResourceList{
		items: []domain.Resource{},
		scope: domain.ScopeActive,
	}
}

// BeginLoad starts a new generation and returns it. Results of loads started
// earlier are ignored from now on.
func (l *ResourceList) BeginLoad() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.generation++
	return l.generation
}

// Replace installs a load result if gen is still current.
func (l *ResourceList) Replace(gen uint64, scope domain.ViewScope, items []domain.Resource) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		return false
	}
	l.items = domain.CloneAll(items)
	if l.items == nil {
		l.items = []domain.Resource{}
	}
	l.scope = scope
	l.epoch++
	l.revision++
	l.lastReload = time.Now()
	return true
}

// Generation returns the current load generation.
func (l *ResourceList) Generation() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.generation
}

// Epoch returns the number of lists installed so far. It only moves when
// a load result replaces the list or the list is cleared.
func (l *ResourceList) Epoch() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.epoch
}

// Scope returns the scope of the loaded list.
func (l *ResourceList) Scope() domain.ViewScope {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.scope
}

// Snapshot captures the list before a tentative change.
func (l *ResourceList) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return Snapshot{
		items:    domain.CloneAll(l.items),
		epoch:    l.epoch,
		revision: l.revision,
	}
}

// Mutate applies fn to a copy of the list and installs the result.
// fn must not retain its argument.
func (l *ResourceList) Mutate(fn func([]domain.Resource) []domain.Resource) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := fn(domain.CloneAll(l.items))
	if next == nil {
		next = []domain.Resource{}
	}
	l.items = next
	l.revision++
}

// Restore rolls back a tentative change on ids. When the change was the
// only write since s, the list becomes exactly s. When other writes
// happened, only the entries for ids are put back at their snapshot
// positions. A snapshot taken before another list was installed is ignored
// since that list already reflects the server. Loads that started but
// never installed a result do not count.
func (l *ResourceList) Restore(s Snapshot, ids []string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s.epoch != l.epoch {
		return false
	}
	if l.revision == s.revision+1 {
		l.items = domain.CloneAll(s.items)
		l.revision++
		return true
	}

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	next := slices.DeleteFunc(l.items, func(r domain.Resource) bool { return want[r.ID] })
	for pos, r := range s.items {
		if !want[r.ID] {
			continue
		}
		at := min(pos, len(next))
		next = slices.Insert(next, at, r.Clone())
	}
	l.items = next
	l.revision++
	return true
}

// Upsert replaces the entry with r.ID in place. It reports false when the
// entry is not in the list.
func (l *ResourceList) Upsert(r domain.Resource) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ID == r.ID {
			l.items[i] = r.Clone()
			l.revision++
			return true
		}
	}
	return false
}

// Prepend inserts r at the head of the list, used after creation.
func (l *ResourceList) Prepend(r domain.Resource) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = slices.Insert(l.items, 0, r.Clone())
	l.revision++
}

// Get retrieves a resource by ID.
func (l *ResourceList) Get(id string) (domain.Resource, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, r := range l.items {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return domain.Resource{}, false
}

// All returns a deep copy of the list in order.
func (l *ResourceList) All() []domain.Resource {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return domain.CloneAll(l.items)
}

// IDs returns the ids in list order.
func (l *ResourceList) IDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, len(l.items))
	for i, r := range l.items {
		out[i] = r.ID
	}
	return out
}

// Count returns the number of resources in the list.
func (l *ResourceList) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.items)
}

// Clear empties the list and invalidates in-flight loads and rollbacks.
func (l *ResourceList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = []domain.Resource{}
	l.collections = nil
	l.generation++
	l.epoch++
	l.revision++
}

// GetLastReload returns when a load result was last installed.
func (l *ResourceList) GetLastReload() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.lastReload
}

// ─────────────────────────────────────────────────────────────────
// Collections
// ─────────────────────────────────────────────────────────────────

// SetCollections replaces the cached collection list.
func (l *ResourceList) SetCollections(cols []domain.Collection) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.collections = slices.Clone(cols)
}

// Collections returns the cached collection list.
func (l *ResourceList) Collections() []domain.Collection {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.collections == nil {
		return []domain.Collection{}
	}
	return slices.Clone(l.collections)
}
