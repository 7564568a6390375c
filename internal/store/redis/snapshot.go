package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/khub/internal/domain"
)

// Snapshot is the last resource list fetched for a scope.
type Snapshot struct {
	Scope   domain.ViewScope  `json:"scope"`
	Items   []domain.Resource `json:"items"`
	SavedAt time.Time         `json:"savedAt"`
}

// SaveSnapshot stores the list of a scope for userID
func (s *Store) SaveSnapshot(ctx context.Context, userID string, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, SnapshotKey(userID, snap.Scope), data, DefaultSnapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the saved list of a scope, if any
func (s *Store) LoadSnapshot(ctx context.Context, userID string, scope domain.ViewScope) (Snapshot, bool, error) {
	data, err := s.client.Get(ctx, SnapshotKey(userID, scope)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, true, nil
}

// DropSnapshots removes every saved list of userID
func (s *Store) DropSnapshots(ctx context.Context, userID string) error {
	keys := []string{
		SnapshotKey(userID, domain.ScopeActive),
		SnapshotKey(userID, domain.ScopeArchived),
		SnapshotKey(userID, domain.ScopeTrash),
		SnapshotKey(userID, domain.ScopePinnedOnly),
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to drop snapshots: %w", err)
	}
	return nil
}
