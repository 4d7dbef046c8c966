package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	if err := c.normalizeCatalogCache(); err != nil {
		return err
	}
	if err := c.normalizeProtection(); err != nil {
		return err
	}
	if err := c.normalizeWatch(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	if c.Catalog.Username == "" {
		if value, ok := os.LookupEnv("DISCSUB_CATALOG_USERNAME"); ok {
			c.Catalog.Username = value
		}
	}
	if c.Catalog.Password == "" {
		if value, ok := os.LookupEnv("DISCSUB_CATALOG_PASSWORD"); ok {
			c.Catalog.Password = value
		}
	}
	c.Catalog.Username = strings.TrimSpace(c.Catalog.Username)
	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/")
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = defaultCatalogBaseURL
	}
	if c.Catalog.RequestTimeoutSeconds <= 0 {
		c.Catalog.RequestTimeoutSeconds = defaultCatalogTimeoutSeconds
	}
	if c.Catalog.MaxRetries < 0 {
		c.Catalog.MaxRetries = 0
	}
	if c.Catalog.PageLimit <= 0 {
		c.Catalog.PageLimit = defaultCatalogPageLimit
	}
}

func (c *Config) normalizeCatalogCache() error {
	c.CatalogCache.Backend = strings.ToLower(strings.TrimSpace(c.CatalogCache.Backend))
	if c.CatalogCache.Backend == "" {
		c.CatalogCache.Backend = defaultCacheBackend
	}
	if strings.TrimSpace(c.CatalogCache.Path) == "" {
		c.CatalogCache.Path = defaultCachePath()
	}
	var err error
	if c.CatalogCache.Path, err = expandPath(c.CatalogCache.Path); err != nil {
		return fmt.Errorf("catalog_cache.path: %w", err)
	}
	if value, ok := os.LookupEnv("DISCSUB_REDIS_ADDR"); ok && strings.TrimSpace(value) != "" {
		c.CatalogCache.RedisAddr = value
	}
	c.CatalogCache.RedisAddr = strings.TrimSpace(c.CatalogCache.RedisAddr)
	if c.CatalogCache.RedisAddr == "" {
		c.CatalogCache.RedisAddr = defaultRedisAddr
	}
	if c.CatalogCache.TTLHours <= 0 {
		c.CatalogCache.TTLHours = defaultCacheTTLHours
	}
	return nil
}

func (c *Config) normalizeProtection() error {
	command := strings.TrimSpace(c.Protection.ScannerCommand)
	if command != "" && strings.ContainsRune(command, filepath.Separator) {
		expanded, err := expandPath(command)
		if err != nil {
			return fmt.Errorf("protection.scanner_command: %w", err)
		}
		command = expanded
	}
	c.Protection.ScannerCommand = command
	if c.Protection.ScannerTimeoutSeconds <= 0 {
		c.Protection.ScannerTimeoutSeconds = defaultScannerTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeWatch() error {
	var err error
	if c.Watch.Dir, err = expandPath(strings.TrimSpace(c.Watch.Dir)); err != nil {
		return fmt.Errorf("watch.dir: %w", err)
	}
	c.Watch.Pattern = strings.TrimSpace(c.Watch.Pattern)
	if c.Watch.Pattern == "" {
		c.Watch.Pattern = defaultWatchPattern
	}
	if c.Watch.SettleSeconds <= 0 {
		c.Watch.SettleSeconds = defaultWatchSettleSeconds
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
