package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/khub/internal/domain"
	"github.com/MrSnakeDoc/khub/internal/index"
	"github.com/MrSnakeDoc/khub/internal/logger"
	"github.com/MrSnakeDoc/khub/internal/sources/presets"
	redisstore "github.com/MrSnakeDoc/khub/internal/store/redis"
)

// PresetReloader handles periodic reloading of the saved-view presets file
type PresetReloader struct {
	loader        *presets.Loader
	mapper        *presets.Mapper
	store         *redisstore.Store
	index         *index.ViewIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewPresetReloader creates a new preset reloader
func NewPresetReloader(
	viewsFile string,
	store *redisstore.Store,
	idx *index.ViewIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *PresetReloader {
	return &PresetReloader{
		loader:        presets.NewLoader(viewsFile),
		mapper:        presets.NewMapper(),
		store:         store,
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the file once and then reloads it periodically
func (pr *PresetReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := pr.Reload(ctx); err != nil {
		return fmt.Errorf("initial preset reload failed: %w", err)
	}

	ticker := time.NewTicker(pr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := pr.Reload(ctx); err != nil {
					pr.logger.Error("failed to reload presets",
						logger.Error(err))
				}
			case <-pr.manualTrigger:
				pr.logger.Info("manual preset reload triggered")
				if err := pr.Reload(ctx); err != nil {
					pr.logger.Error("failed to reload presets",
						logger.Error(err))
				}
			case <-pr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (pr *PresetReloader) Stop() {
	close(pr.stopCh)
}

// Reload reads the presets file and updates index + store. File presets
// that disappeared are disabled, not deleted; user views are untouched.
func (pr *PresetReloader) Reload(ctx context.Context) error {
	pr.logger.Info("reloading saved view presets", logger.String("file", pr.loader.Path()))

	config, err := pr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}

	loaded, skipped, err := pr.mapper.MapViews(config)
	if err != nil {
		return fmt.Errorf("failed to map presets: %w", err)
	}
	for _, s := range skipped {
		pr.logger.Warn("skipping invalid preset",
			logger.String("name", s.Name),
			logger.String("reason", s.Reason))
	}

	now := time.Now()
	loadedIDs := make(map[string]bool, len(loaded))
	for _, v := range loaded {
		loadedIDs[v.ID] = true
		// Keep the original creation time across reloads.
		if existing, ok := pr.index.GetView(v.ID); ok && !existing.CreatedAt.IsZero() {
			v.CreatedAt = existing.CreatedAt
		}
	}

	var disabled []*domain.SavedView
	for _, existing := range pr.index.GetAllViews() {
		if !existing.HasSource(domain.ViewSourceFile) || loadedIDs[existing.ID] || existing.Disabled {
			continue
		}
		v := *existing
		v.Disabled = true
		v.UpdatedAt = now
		disabled = append(disabled, &v)
	}
	if len(disabled) > 0 {
		pr.logger.Info("marking removed presets as disabled",
			logger.Int("count", len(disabled)))
	}

	changed := append(loaded, disabled...)
	for _, v := range changed {
		pr.index.AddView(v)
	}

	pr.logger.Info("loaded saved view presets",
		logger.Int("count", len(loaded)),
		logger.Int("skipped", len(skipped)))

	// Update Redis store (best effort)
	if pr.store != nil {
		if err := pr.store.SaveViewsMany(ctx, changed); err != nil {
			pr.logger.Warn("failed to save presets to redis",
				logger.Error(err))
			// Don't fail - memory index is the primary source
		}
	}

	return nil
}
