package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/khub/internal/domain"
	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
)

// SaveView stores a saved view in Redis
func (s *Store) SaveView(ctx context.Context, view *domain.SavedView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal view: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, ViewKey(view.ID), data, DefaultViewTTL)
	pipe.SAdd(ctx, AllViewsKey(), view.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save view: %w", err)
	}
	return nil
}

// GetView retrieves a saved view by ID
func (s *Store) GetView(ctx context.Context, id string) (*domain.SavedView, error) {
	data, err := s.client.Get(ctx, ViewKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, huberrors.NotFound("view not found: " + id)
		}
		return nil, fmt.Errorf("failed to get view: %w", err)
	}

	var view domain.SavedView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("failed to unmarshal view: %w", err)
	}
	return &view, nil
}

// GetAllViews retrieves every saved view. IDs whose payload expired are
// pruned from the index set.
func (s *Store) GetAllViews(ctx context.Context) ([]*domain.SavedView, error) {
	ids, err := s.client.SMembers(ctx, AllViewsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get view IDs: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.SavedView{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = ViewKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get views: %w", err)
	}

	views := make([]*domain.SavedView, 0, len(ids))
	var expired []any
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var view domain.SavedView
		if err := json.Unmarshal([]byte(raw), &view); err != nil {
			// Skip entries that couldn't be decoded
			continue
		}
		views = append(views, &view)
	}

	if len(expired) > 0 {
		if err := s.client.SRem(ctx, AllViewsKey(), expired...).Err(); err != nil {
			return views, fmt.Errorf("failed to prune expired views: %w", err)
		}
	}
	return views, nil
}

// DeleteView removes a saved view from Redis
func (s *Store) DeleteView(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, ViewKey(id))
	pipe.SRem(ctx, AllViewsKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete view: %w", err)
	}
	return nil
}

// SaveViewsMany stores multiple views in one round trip
func (s *Store) SaveViewsMany(ctx context.Context, views []*domain.SavedView) error {
	if len(views) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()

	for _, view := range views {
		data, err := json.Marshal(view)
		if err != nil {
			return fmt.Errorf("failed to marshal view %s: %w", view.ID, err)
		}
		pipe.Set(ctx, ViewKey(view.ID), data, DefaultViewTTL)
		pipe.SAdd(ctx, AllViewsKey(), view.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save views: %w", err)
	}
	return nil
}
