package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultOutputDir             = "~/discsub/submissions"
	defaultLogDir                = "~/.local/share/discsub/logs"
	defaultStateDir              = "~/.local/share/discsub"
	defaultCatalogBaseURL        = "http://redump.org"
	defaultCatalogTimeoutSeconds = 30
	defaultCatalogMaxRetries     = 3
	defaultCatalogPageLimit      = 50
	defaultCacheBackend          = "file"
	defaultRedisAddr             = "127.0.0.1:6379"
	defaultCacheTTLHours         = 24
	defaultScannerTimeoutSeconds = 300
	defaultWatchPattern          = "*.dump.json"
	defaultWatchSettleSeconds    = 2
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir,
		},
		Catalog: Catalog{
			BaseURL:               defaultCatalogBaseURL,
			RequestTimeoutSeconds: defaultCatalogTimeoutSeconds,
			MaxRetries:            defaultCatalogMaxRetries,
			PageLimit:             defaultCatalogPageLimit,
		},
		CatalogCache: CatalogCache{
			Backend:   defaultCacheBackend,
			Path:      defaultCachePath(),
			RedisAddr: defaultRedisAddr,
			TTLHours:  defaultCacheTTLHours,
		},
		Submission: Submission{
			AddPlaceholders:    true,
			PullAllInformation: false,
			WriteReport:        true,
			WriteJSON:          true,
		},
		Protection: Protection{
			ScannerTimeoutSeconds: defaultScannerTimeoutSeconds,
		},
		Watch: Watch{
			Pattern:       defaultWatchPattern,
			SettleSeconds: defaultWatchSettleSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "discsub", "catalog_cache.json")
	}
	return "~/.cache/discsub/catalog_cache.json"
}
