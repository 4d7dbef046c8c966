package catalogcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"discsub/internal/fileutil"
	"discsub/internal/logging"
)

// FileCache is a JSON-file backed Cache. If path is empty the cache is
// non-functional and every operation is a no-op. The file is created lazily
// on the first Store.
type FileCache struct {
	path    string
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewFileCache creates a file cache and loads any existing entries.
func NewFileCache(path string, ttl time.Duration, logger *slog.Logger) *FileCache {
	logger = logging.NewComponentLogger(logger, "catalogcache")

	c := &FileCache{
		path:    strings.TrimSpace(path),
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]Entry),
	}
	if c.path == "" {
		return c
	}

	if err := c.load(); err != nil {
		logging.WarnWithContext(logger, "failed to load catalog cache", "catalogcache_load_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "cache will start empty"),
			logging.String(logging.FieldImpact, "hash lookups will query the catalog again"))
	}
	return c
}

// Lookup returns the cached IDs for key if present and not expired.
func (c *FileCache) Lookup(_ context.Context, key string) ([]int, bool) {
	key = strings.TrimSpace(key)
	if key == "" || c.path == "" {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[key]
	if !found || c.expired(entry) {
		return nil, false
	}
	return slices.Clone(entry.IDs), true
}

// Store records ids for key and persists the cache.
func (c *FileCache) Store(_ context.Context, key string, ids []int) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("cache key cannot be empty")
	}
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{Key: key, IDs: slices.Clone(ids), CachedAt: c.now().UTC()}
	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	c.logger.Debug("cached catalog lookup", logging.String("key", key), logging.Int("ids", len(ids)))
	return nil
}

// Clear removes all entries and persists the empty cache.
func (c *FileCache) Clear(context.Context) error {
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	return nil
}

// Count returns the number of live entries.
func (c *FileCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, entry := range c.entries {
		if !c.expired(entry) {
			n++
		}
	}
	return n
}

func (c *FileCache) Close() error { return nil }

func (c *FileCache) expired(entry Entry) bool {
	return c.ttl > 0 && c.now().Sub(entry.CachedAt) > c.ttl
}

func (c *FileCache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}
	c.entries = make(map[string]Entry, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Key) != "" {
			c.entries[entry.Key] = entry
		}
	}
	c.logger.Debug("loaded catalog cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))
	return nil
}

// save writes the cache to disk atomically, dropping expired entries.
func (c *FileCache) save() error {
	entries := make([]Entry, 0, len(c.entries))
	for key, entry := range c.entries {
		if c.expired(entry) {
			delete(c.entries, key)
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	if err := fileutil.WriteAtomic(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}
