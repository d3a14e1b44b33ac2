// Package cache stores generated commit messages so that an identical
// request can be answered without calling the provider again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const (
	// DefaultMaxEntries is the default maximum number of cache entries.
	DefaultMaxEntries = 100
	// DefaultTTL is the default time-to-live for cache entries.
	DefaultTTL = 1 * time.Hour
)

// Manager defines the interface for cache management.
type Manager interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
	Clear() error
	Size() int
}

// persistedEntry is the on-disk form of one cache item.
type persistedEntry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ResponseCache is a TTL cache of generated messages. When a path is set the
// entries survive between invocations in a JSON file.
type ResponseCache struct {
	cache *ttlcache.Cache[string, string]
	ttl   time.Duration
	path  string
}

// NewResponseCache creates a cache. An empty path keeps entries in memory
// only; otherwise live entries are loaded from path.
func NewResponseCache(path string, ttl time.Duration) (*ResponseCache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := ttlcache.New[string, string](
		ttlcache.WithTTL[string, string](ttl),
		ttlcache.WithCapacity[string, string](DefaultMaxEntries),
		ttlcache.WithDisableTouchOnHit[string, string](),
	)

	rc := &ResponseCache{cache: c, ttl: ttl, path: path}
	if path != "" {
		if err := rc.load(); err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// Get returns the cached message for key.
func (c *ResponseCache) Get(key string) (string, bool) {
	item := c.cache.Get(key)
	if item == nil || item.IsExpired() {
		return "", false
	}
	return item.Value(), true
}

// Set stores value under key and persists the cache.
func (c *ResponseCache) Set(key string, value string) error {
	c.cache.Set(key, value, ttlcache.DefaultTTL)
	return c.save()
}

// Clear removes every entry.
func (c *ResponseCache) Clear() error {
	c.cache.DeleteAll()
	return c.save()
}

// Size returns the number of live entries.
func (c *ResponseCache) Size() int {
	c.cache.DeleteExpired()
	return c.cache.Len()
}

func (c *ResponseCache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read cache file: %w", err)
	}

	var entries []persistedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		// A corrupt cache is discarded, not fatal.
		return nil
	}

	now := time.Now()
	for _, e := range entries {
		remaining := e.ExpiresAt.Sub(now)
		if remaining <= 0 {
			continue
		}
		if remaining > c.ttl {
			remaining = c.ttl
		}
		c.cache.Set(e.Key, e.Value, remaining)
	}
	return nil
}

func (c *ResponseCache) save() error {
	if c.path == "" {
		return nil
	}

	c.cache.DeleteExpired()
	entries := make([]persistedEntry, 0, c.cache.Len())
	for key, item := range c.cache.Items() {
		entries = append(entries, persistedEntry{
			Key:       key,
			Value:     item.Value(),
			ExpiresAt: item.ExpiresAt(),
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// GenerateCacheKey derives a cache key from the request that produced a message.
// Uses SHA256 hash of: prompt + provider + model
func GenerateCacheKey(prompt, provider, model string) string {
	data := prompt + "|" + provider + "|" + model
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
