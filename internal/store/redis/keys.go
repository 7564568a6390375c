package redis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/MrSnakeDoc/khub/internal/domain"
)

const (
	// KeyPrefixView is the prefix for saved view keys
	KeyPrefixView = "khub:view:"
	// KeyAllViews is the key for the set of all saved view IDs
	KeyAllViews = "khub:views:all"
	// KeyPrefixMetadata is the prefix for cached link previews
	KeyPrefixMetadata = "khub:meta:"
	// KeyPrefixSnapshot is the prefix for last-known resource lists
	KeyPrefixSnapshot = "khub:snapshot:"
)

// ViewKey returns the Redis key for a saved view by ID
func ViewKey(id string) string {
	return KeyPrefixView + id
}

// AllViewsKey returns the key for the set of all saved view IDs
func AllViewsKey() string {
	return KeyAllViews
}

// MetadataKey returns the cache key for a URL preview. URLs are hashed so
// the key stays short and free of glob characters.
func MetadataKey(rawURL string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(rawURL)))
	return KeyPrefixMetadata + hex.EncodeToString(sum[:16])
}

// SnapshotKey returns the key holding the resource list of a scope for a user.
func SnapshotKey(userID string, scope domain.ViewScope) string {
	return KeyPrefixSnapshot + userID + ":" + string(scope)
}
