package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/khub/internal/domain"
)

// CacheMetadata stores a link preview for DefaultMetadataTTL
func (s *Store) CacheMetadata(ctx context.Context, rawURL string, meta domain.Metadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := s.client.Set(ctx, MetadataKey(rawURL), data, DefaultMetadataTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache metadata: %w", err)
	}
	return nil
}

// GetCachedMetadata returns the cached preview and whether there was one
func (s *Store) GetCachedMetadata(ctx context.Context, rawURL string) (domain.Metadata, bool, error) {
	data, err := s.client.Get(ctx, MetadataKey(rawURL)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Metadata{}, false, nil // Cache miss
		}
		return domain.Metadata{}, false, fmt.Errorf("failed to get cached metadata: %w", err)
	}

	var meta domain.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return domain.Metadata{}, false, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return meta, true, nil
}

// InvalidateMetadata removes a cached preview
func (s *Store) InvalidateMetadata(ctx context.Context, rawURL string) error {
	if err := s.client.Del(ctx, MetadataKey(rawURL)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate metadata: %w", err)
	}
	return nil
}

// FlushMetadata removes every cached preview and returns how many there were
func (s *Store) FlushMetadata(ctx context.Context) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, KeyPrefixMetadata+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return n, fmt.Errorf("failed to delete metadata key: %w", err)
		}
		n++
	}
	if err := iter.Err(); err != nil {
		return n, fmt.Errorf("failed to flush metadata: %w", err)
	}
	return n, nil
}
