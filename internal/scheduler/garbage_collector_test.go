package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/khub/internal/domain"
	"github.com/MrSnakeDoc/khub/internal/index"
	"github.com/MrSnakeDoc/khub/internal/logger"
)

func TestGarbageCollector_Collect(t *testing.T) {
	log := logger.New("error", false)
	views := index.NewViewIndex()

	now := time.Now()
	views.UpdateViews([]*domain.SavedView{
		{
			ID:        "active",
			Name:      "Active preset",
			Sources:   []string{domain.ViewSourceFile},
			UpdatedAt: now,
		},
		{
			ID:        "recently-disabled",
			Name:      "Recently disabled",
			Sources:   []string{domain.ViewSourceFile},
			Disabled:  true,
			UpdatedAt: now.Add(-10 * 24 * time.Hour), // Disabled 10 days ago
		},
		{
			ID:        "old-disabled",
			Name:      "Old disabled",
			Sources:   []string{domain.ViewSourceFile},
			Disabled:  true,
			UpdatedAt: now.Add(-35 * 24 * time.Hour), // Disabled 35 days ago
		},
		{
			ID:       "no-timestamp",
			Name:     "Disabled without timestamp",
			Sources:  []string{domain.ViewSourceFile},
			Disabled: true,
		},
	})

	gc := NewGarbageCollector(
		nil, // no Redis store for this test
		views,
		log,
		24*time.Hour,
		30*24*time.Hour,
	)
	gc.now = func() time.Time { return now }

	if deleted := gc.Collect(context.Background()); deleted != 1 {
		t.Errorf("Collect() deleted %d views, want 1", deleted)
	}

	if views.Count() != 3 {
		t.Errorf("Expected 3 views after GC, got %d", views.Count())
	}
	for _, id := range []string{"active", "recently-disabled", "no-timestamp"} {
		if _, ok := views.GetView(id); !ok {
			t.Errorf("view %s was incorrectly removed", id)
		}
	}
	if _, ok := views.GetView("old-disabled"); ok {
		t.Error("Old disabled view was not removed")
	}
}

func TestNewGarbageCollectorDefaultThreshold(t *testing.T) {
	gc := NewGarbageCollector(nil, index.NewViewIndex(), logger.NewNop(), time.Hour, 0)
	if gc.threshold != DefaultGCThreshold {
		t.Errorf("threshold = %v, want %v", gc.threshold, DefaultGCThreshold)
	}
}
