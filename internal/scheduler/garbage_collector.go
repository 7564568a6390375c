package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/khub/internal/index"
	"github.com/MrSnakeDoc/khub/internal/logger"
	redisstore "github.com/MrSnakeDoc/khub/internal/store/redis"
)

const (
	// DefaultGCThreshold is the duration after which disabled presets are deleted
	DefaultGCThreshold = 30 * 24 * time.Hour // 30 days
)

// GarbageCollector deletes presets that stayed disabled for too long
type GarbageCollector struct {
	store     *redisstore.Store
	index     *index.ViewIndex
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	now       func() time.Time
	stopCh    chan struct{}
}

// NewGarbageCollector creates a new garbage collector
func NewGarbageCollector(
	store *redisstore.Store,
	idx *index.ViewIndex,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *GarbageCollector {
	if threshold == 0 {
		threshold = DefaultGCThreshold
	}

	return &GarbageCollector{
		store:     store,
		index:     idx,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (gc *GarbageCollector) Start(ctx context.Context) {
	// Run immediately on start
	gc.Collect(ctx)

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				gc.Collect(ctx)
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the garbage collector
func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
}

// Collect removes views disabled for longer than the threshold and returns
// how many were removed. Redis failures are logged and skipped.
func (gc *GarbageCollector) Collect(ctx context.Context) int {
	now := gc.now()
	deleted := 0

	for _, view := range gc.index.GetAllViews() {
		if !view.Disabled || view.UpdatedAt.IsZero() {
			continue
		}

		disabledFor := now.Sub(view.UpdatedAt)
		if disabledFor < gc.threshold {
			continue
		}

		gc.index.DeleteView(view.ID)

		// Delete from Redis store (best effort)
		if gc.store != nil {
			if err := gc.store.DeleteView(ctx, view.ID); err != nil {
				gc.logger.Warn("failed to delete view from redis",
					logger.String("view_id", view.ID),
					logger.Error(err))
			}
		}

		gc.logger.Info("garbage collected disabled preset",
			logger.String("view_id", view.ID),
			logger.String("name", view.Name),
			logger.Duration("disabled_for", disabledFor))
		deleted++
	}

	if deleted > 0 {
		gc.logger.Info("garbage collection completed", logger.Int("deleted", deleted))
	} else {
		gc.logger.Debug("no presets to garbage collect")
	}
	return deleted
}
