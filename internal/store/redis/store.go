package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultViewTTL bounds how long an untouched saved view survives (30 days)
	DefaultViewTTL = 30 * 24 * time.Hour
	// DefaultMetadataTTL is the TTL of cached link previews (24 hours)
	DefaultMetadataTTL = 24 * time.Hour
	// DefaultSnapshotTTL is the TTL of a saved resource list (48 hours)
	DefaultSnapshotTTL = 48 * time.Hour
)

// Store persists saved views, link previews and list snapshots in Redis.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Ping reports whether Redis answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
