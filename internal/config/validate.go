package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateCatalogCache(); err != nil {
		return err
	}
	if err := c.validateSubmission(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCatalog() error {
	parsed, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("catalog.base_url must be an absolute URL, got %q", c.Catalog.BaseURL)
	}
	if (c.Catalog.Username == "") != (c.Catalog.Password == "") {
		return errors.New("catalog.username and catalog.password must be set together (or export DISCSUB_CATALOG_USERNAME and DISCSUB_CATALOG_PASSWORD)")
	}
	return nil
}

func (c *Config) validateCatalogCache() error {
	switch c.CatalogCache.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("catalog_cache.backend: unsupported value %q (expected file or redis)", c.CatalogCache.Backend)
	}
	if c.CatalogCache.RedisDB < 0 {
		return errors.New("catalog_cache.redis_db must be non-negative")
	}
	return nil
}

func (c *Config) validateSubmission() error {
	if c.Submission.CompressJSON && !c.Submission.WriteJSON {
		return errors.New("submission.compress_json requires submission.write_json")
	}
	return nil
}

func (c *Config) validateWatch() error {
	if _, err := filepath.Match(c.Watch.Pattern, ""); err != nil {
		return fmt.Errorf("watch.pattern: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
