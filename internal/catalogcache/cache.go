package catalogcache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"discsub/internal/config"
)

// Cache stores hash lookup results keyed by query.
type Cache interface {
	// Lookup returns the cached IDs for key. A hit with no IDs is valid and
	// means the catalog had no match.
	Lookup(ctx context.Context, key string) ([]int, bool)
	Store(ctx context.Context, key string, ids []int) error
	Clear(ctx context.Context) error
	Close() error
}

// Entry is one cached lookup.
type Entry struct {
	Key      string    `json:"key"`
	IDs      []int     `json:"ids"`
	CachedAt time.Time `json:"cached_at"`
}

// HashKey is the cache key of a per-track SHA-1 lookup.
func HashKey(sha1 string) string {
	return "sha1:" + strings.ToLower(strings.TrimSpace(sha1))
}

// UniversalHashKey is the cache key of a universal hash lookup.
func UniversalHashKey(hash string) string {
	return "uh:" + strings.TrimSpace(hash)
}

// Open builds the cache described by cfg. A disabled cache returns nil.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Cache, error) {
	if cfg == nil || !cfg.CatalogCache.Enabled {
		return nil, nil
	}
	ttl := cfg.CatalogCacheTTL()
	switch cfg.CatalogCache.Backend {
	case "redis":
		cache, err := NewRedisCache(ctx, RedisConfig{
			Addr: cfg.CatalogCache.RedisAddr,
			DB:   cfg.CatalogCache.RedisDB,
			TTL:  ttl,
		})
		if err != nil {
			return nil, err
		}
		return cache, nil
	case "file", "":
		return NewFileCache(cfg.CatalogCache.Path, ttl, logger), nil
	}
	return nil, fmt.Errorf("catalog cache: unsupported backend %q", cfg.CatalogCache.Backend)
}
