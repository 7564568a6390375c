package index

import (
	"testing"
	"time"

	"github.com/MrSnakeDoc/khub/internal/domain"
)

func TestViewIndex(t *testing.T) {
	idx := NewViewIndex()
	now := time.Now()

	idx.UpdateViews([]*domain.SavedView{
		{ID: "v2", Name: "This Week", CreatedAt: now},
		{ID: "v1", Name: "React", CreatedAt: now.Add(-time.Hour)},
		{ID: "v3", Name: "Gone", CreatedAt: now, Disabled: true},
	})

	all := idx.GetAllViews()
	if len(all) != 3 || all[0].ID != "v1" || all[1].ID != "v3" || all[2].ID != "v2" {
		t.Errorf("GetAllViews() order = %v", viewIDs(all))
	}

	active := idx.ActiveViews()
	if len(active) != 2 {
		t.Errorf("ActiveViews() = %v, want 2 views", viewIDs(active))
	}

	idx.AddView(&domain.SavedView{ID: "v4", Name: "New", CreatedAt: now.Add(time.Hour)})
	if _, ok := idx.GetView("v4"); !ok {
		t.Error("AddView() did not store the view")
	}

	idx.DeleteView("v1")
	if _, ok := idx.GetView("v1"); ok {
		t.Error("DeleteView() did not remove the view")
	}
	if idx.Count() != 3 {
		t.Errorf("Count() = %d, want 3", idx.Count())
	}
	if idx.GetLastReload().IsZero() {
		t.Error("UpdateViews() should set the reload time")
	}
}

func viewIDs(views []*domain.SavedView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}
