package testsupport

import (
	"path/filepath"
	"testing"

	"discsub/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.CatalogCache.Path = filepath.Join(base, "cache", "catalog_cache.json")
	cfgVal.Catalog.BaseURL = "http://127.0.0.1:0"
	cfgVal.Catalog.MaxRetries = 0
	cfgVal.Catalog.RequestTimeoutSeconds = 5
	cfgVal.Watch.Dir = filepath.Join(base, "watch")
	cfgVal.Watch.SettleSeconds = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCatalog points the config at a catalog endpoint with credentials.
func WithCatalog(baseURL, username, password string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.BaseURL = baseURL
		b.cfg.Catalog.Username = username
		b.cfg.Catalog.Password = password
	}
}

// WithCatalogCache enables the lookup cache with the given backend.
func WithCatalogCache(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.CatalogCache.Enabled = true
		b.cfg.CatalogCache.Backend = backend
	}
}

// WithRedumpCompatibility toggles catalog-compatible report output.
func WithRedumpCompatibility(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Submission.RedumpCompatibility = enabled
	}
}

// WithPlaceholders toggles placeholder tokens for unfilled fields.
func WithPlaceholders(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Submission.AddPlaceholders = enabled
	}
}

// WithCompressedJSON writes the machine-readable record gzip-compressed.
func WithCompressedJSON() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Submission.WriteJSON = true
		b.cfg.Submission.CompressJSON = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
