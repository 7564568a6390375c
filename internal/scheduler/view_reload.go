package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/khub/internal/index"
	"github.com/MrSnakeDoc/khub/internal/lifecycle"
	"github.com/MrSnakeDoc/khub/internal/logger"
	"github.com/MrSnakeDoc/khub/internal/session"
	redisstore "github.com/MrSnakeDoc/khub/internal/store/redis"
)

// ViewReloader refreshes the loaded scope from the remote API and keeps a
// snapshot of it in Redis for warm starts.
type ViewReloader struct {
	controller    *lifecycle.Controller
	session       *session.Session
	store         *redisstore.Store
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewViewReloader creates a new view reloader. interval <= 0 disables the
// periodic reload; manual triggers still work.
func NewViewReloader(
	controller *lifecycle.Controller,
	sess *session.Session,
	store *redisstore.Store,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *ViewReloader {
	return &ViewReloader{
		controller:    controller,
		session:       sess,
		store:         store,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the reload loop
func (vr *ViewReloader) Start(ctx context.Context) {
	var tick <-chan time.Time
	if vr.interval > 0 {
		ticker := time.NewTicker(vr.interval)
		tick = ticker.C
		go func() {
			<-vr.stopCh
			ticker.Stop()
		}()
	}

	go func() {
		for {
			select {
			case <-tick:
				vr.reloadAndLog(ctx)
			case <-vr.manualTrigger:
				vr.logger.Info("manual view reload triggered")
				vr.reloadAndLog(ctx)
			case <-vr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the reloader
func (vr *ViewReloader) Stop() {
	close(vr.stopCh)
}

func (vr *ViewReloader) reloadAndLog(ctx context.Context) {
	if err := vr.Reload(ctx); err != nil {
		vr.logger.Error("failed to reload view", logger.Error(err))
	}
}

// Reload repeats the last load and saves the result. Without a session
// there is nothing to load.
func (vr *ViewReloader) Reload(ctx context.Context) error {
	if !vr.session.Active() {
		vr.logger.Debug("skipping view reload, no session")
		return nil
	}

	if err := vr.controller.Reload(ctx); err != nil {
		return err
	}

	vr.saveSnapshot(ctx, vr.controller.List())
	return nil
}

// Load runs a new load and saves the result, as Reload does for the last
// one.
func (vr *ViewReloader) Load(ctx context.Context, q lifecycle.LoadQuery) error {
	if err := vr.controller.Load(ctx, q); err != nil {
		return err
	}
	vr.saveSnapshot(ctx, vr.controller.List())
	return nil
}

// saveSnapshot stores the plain scope list (best effort). Collection
// filtered lists are not snapshotted.
func (vr *ViewReloader) saveSnapshot(ctx context.Context, list *index.ResourceList) {
	if vr.store == nil || vr.controller.Query().CollectionID != "" {
		return
	}
	user := vr.session.User()
	if user.ID == "" {
		return
	}

	snap := redisstore.Snapshot{
		Scope:   list.Scope(),
		Items:   list.All(),
		SavedAt: time.Now(),
	}
	if err := vr.store.SaveSnapshot(ctx, user.ID, snap); err != nil {
		vr.logger.Warn("failed to save view snapshot to redis",
			logger.Error(err))
		// Don't fail - the in-memory list is the primary source
		return
	}
	vr.logger.Debug("view snapshot saved",
		logger.String("scope", string(snap.Scope)),
		logger.Int("count", len(snap.Items)))
}
