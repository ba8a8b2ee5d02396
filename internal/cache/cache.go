// Package cache is a small on-disk cache for fetched documents, keyed by a
// BLAKE3 digest of the source URL. Entries are msgpack-encoded and expire
// after a configurable TTL.
package cache

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"
)

// Cache stores fetch results under dir. A zero or negative TTL means
// entries never expire.
type Cache struct {
	dir string
	ttl time.Duration
}

type entry struct {
	URL       string    `msgpack:"url"`
	FetchedAt time.Time `msgpack:"fetched_at"`
	Body      []byte    `msgpack:"body"`
}

// New returns a cache rooted at dir. The directory is created lazily on
// the first Put.
func New(dir string, ttl time.Duration) *Cache {
	return &Cache{dir: dir, ttl: ttl}
}

// Get returns the cached body for url and true on a fresh hit. Corrupt or
// stale entries are treated as misses.
func (c *Cache) Get(url string) ([]byte, bool) {
	data, err := os.ReadFile(c.path(url))
	if err != nil {
		return nil, false
	}
	var e entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	// Digest collision or a renamed file: the stored URL must match.
	if e.URL != url {
		return nil, false
	}
	if c.ttl > 0 && time.Since(e.FetchedAt) > c.ttl {
		return nil, false
	}
	return e.Body, true
}

// Put stores body as the cached fetch result for url.
func (c *Cache) Put(url string, body []byte) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("cache: create dir: %w", err)
	}
	data, err := msgpack.Marshal(entry{URL: url, FetchedAt: time.Now(), Body: body})
	if err != nil {
		return fmt.Errorf("cache: encode entry: %w", err)
	}
	path := c.path(url)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("cache: write entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("cache: commit entry: %w", err)
	}
	return nil
}

func (c *Cache) path(url string) string {
	sum := blake3.Sum256([]byte(url))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".msgpack")
}
