package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DiskCache keeps downloaded feed payloads on disk between runs.
// Each entry is a JSON file named by the SHA-256 hash of the feed URL.
type DiskCache struct {
	cacheDir string
	cacheTTL time.Duration
	now      func() time.Time
}

// diskCacheEntry is the on-disk form of a cached payload. A zero ExpiresAt
// never expires.
type diskCacheEntry struct {
	URL       string    `json:"url"`
	Body      []byte    `json:"body"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewDiskCache creates a cache rooted at cacheDir, creating it if needed.
// A non-positive TTL disables expiry.
func NewDiskCache(cacheDir string, cacheTTL time.Duration) (*DiskCache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", cacheDir, err)
	}

	return &DiskCache{
		cacheDir: cacheDir,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}, nil
}

// Get returns the cached payload for url if present and not expired.
// Expired entries are removed.
func (cache *DiskCache) Get(url string) ([]byte, bool) {
	cacheFilePath := cache.pathFor(url)

	data, err := os.ReadFile(cacheFilePath)
	if err != nil {
		return nil, false
	}

	var entry diskCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	if !entry.ExpiresAt.IsZero() && cache.now().After(entry.ExpiresAt) {
		_ = os.Remove(cacheFilePath)
		return nil, false
	}

	return entry.Body, true
}

// Set stores body as the payload for url.
func (cache *DiskCache) Set(url string, body []byte) error {
	now := cache.now()
	entry := diskCacheEntry{
		URL:       url,
		Body:      body,
		FetchedAt: now,
	}
	if cache.cacheTTL > 0 {
		entry.ExpiresAt = now.Add(cache.cacheTTL)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	cacheFilePath := cache.pathFor(url)
	if err := os.WriteFile(cacheFilePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file %s: %w", cacheFilePath, err)
	}

	return nil
}

// Invalidate drops the cached payload for url. A missing entry is not an
// error.
func (cache *DiskCache) Invalidate(url string) error {
	err := os.Remove(cache.pathFor(url))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache entry: %w", err)
	}
	return nil
}

// keyFor returns the hex SHA-256 hash of the URL, used as the file name.
func (cache *DiskCache) keyFor(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])
}

// pathFor returns the cache file path for url.
func (cache *DiskCache) pathFor(url string) string {
	return filepath.Join(cache.cacheDir, cache.keyFor(url)+".json")
}
