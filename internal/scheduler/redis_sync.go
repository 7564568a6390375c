package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/khub/internal/domain"
	"github.com/MrSnakeDoc/khub/internal/index"
	"github.com/MrSnakeDoc/khub/internal/logger"
	redisstore "github.com/MrSnakeDoc/khub/internal/store/redis"
)

// RedisSyncer fills the in-memory state from Redis on startup and login
type RedisSyncer struct {
	store  *redisstore.Store
	views  *index.ViewIndex
	list   *index.ResourceList
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store *redisstore.Store,
	views *index.ViewIndex,
	list *index.ResourceList,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		views:  views,
		list:   list,
		logger: log,
	}
}

// SyncViews loads saved views from Redis into the view index
func (rs *RedisSyncer) SyncViews(ctx context.Context) error {
	rs.logger.Info("syncing saved views from redis to memory")

	views, err := rs.store.GetAllViews(ctx)
	if err != nil {
		return err
	}

	if len(views) == 0 {
		rs.logger.Info("no saved views found in redis")
		return nil
	}

	rs.views.UpdateViews(views)

	rs.logger.Info("synced saved views from redis",
		logger.Int("count", len(views)))

	return nil
}

// WarmStart installs the last saved list of scope for userID so the view
// has content before the first remote load returns. It starts a load
// generation of its own, so call it before that load, never during one.
// It does nothing once the list holds data.
func (rs *RedisSyncer) WarmStart(ctx context.Context, userID string, scope domain.ViewScope) bool {
	if userID == "" || rs.list.Count() > 0 {
		return false
	}

	snap, ok, err := rs.store.LoadSnapshot(ctx, userID, scope)
	if err != nil {
		rs.logger.Warn("failed to load view snapshot", logger.Error(err))
		return false
	}
	if !ok {
		return false
	}

	if !rs.list.Replace(rs.list.BeginLoad(), snap.Scope, snap.Items) {
		return false
	}
	rs.logger.Info("restored view snapshot from redis",
		logger.String("scope", string(snap.Scope)),
		logger.Int("count", len(snap.Items)),
		logger.Duration("age", rs.list.GetLastReload().Sub(snap.SavedAt)))
	return true
}
