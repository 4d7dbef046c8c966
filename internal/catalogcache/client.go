package catalogcache

import (
	"context"
	"log/slog"

	"discsub/internal/catalog"
	"discsub/internal/logging"
)

// CachingClient decorates a catalog.Client with a hash lookup cache. Detail
// pages are never cached since their timestamps must stay current.
type CachingClient struct {
	catalog.Client
	cache  Cache
	logger *slog.Logger
}

// Wrap returns client unchanged when cache is nil.
func Wrap(client catalog.Client, cache Cache, logger *slog.Logger) catalog.Client {
	if cache == nil {
		return client
	}
	return &CachingClient{
		Client: client,
		cache:  cache,
		logger: logging.NewComponentLogger(logger, "catalogcache"),
	}
}

func (c *CachingClient) ListByHash(ctx context.Context, sha1 string) ([]int, error) {
	return c.cached(ctx, HashKey(sha1), func() ([]int, error) {
		return c.Client.ListByHash(ctx, sha1)
	})
}

func (c *CachingClient) ListByUniversalHash(ctx context.Context, hash string) ([]int, error) {
	return c.cached(ctx, UniversalHashKey(hash), func() ([]int, error) {
		return c.Client.ListByUniversalHash(ctx, hash)
	})
}

func (c *CachingClient) cached(ctx context.Context, key string, fetch func() ([]int, error)) ([]int, error) {
	if ids, ok := c.cache.Lookup(ctx, key); ok {
		c.logger.Debug("catalog cache hit", logging.String("key", key))
		return ids, nil
	}
	ids, err := fetch()
	if err != nil {
		return nil, err
	}
	if err := c.cache.Store(ctx, key, ids); err != nil {
		logging.WarnWithContext(c.logger, "failed to store catalog lookup", "catalogcache_store_failed",
			logging.String("key", key),
			logging.Error(err),
			logging.String(logging.FieldImpact, "the next run will query the catalog again"))
	}
	return ids, nil
}
