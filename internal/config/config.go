package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	StateDir  string `toml:"state_dir"`
}

// Catalog contains connection settings for the remote disc catalog.
type Catalog struct {
	BaseURL               string `toml:"base_url"`
	Username              string `toml:"username"`
	Password              string `toml:"password"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	MaxRetries            int    `toml:"max_retries"`
	PageLimit             int    `toml:"page_limit"`
}

// CatalogCache contains configuration for the hash lookup cache.
type CatalogCache struct {
	Enabled   bool   `toml:"enabled"`
	Backend   string `toml:"backend"` // "file" or "redis"
	Path      string `toml:"path"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
	TTLHours  int    `toml:"ttl_hours"`
}

// Submission contains options that shape the generated submission record.
type Submission struct {
	AddPlaceholders     bool `toml:"add_placeholders"`
	PullAllInformation  bool `toml:"pull_all_information"`
	RedumpCompatibility bool `toml:"redump_compatibility"`
	WriteReport         bool `toml:"write_report"`
	WriteJSON           bool `toml:"write_json"`
	CompressJSON        bool `toml:"compress_json"`
}

// Protection contains settings for the external copy-protection scanner.
type Protection struct {
	ScannerCommand        string   `toml:"scanner_command"`
	ScannerArgs           []string `toml:"scanner_args"`
	ScannerTimeoutSeconds int      `toml:"scanner_timeout_seconds"`
}

// Watch contains configuration for the seed directory watcher.
type Watch struct {
	Dir           string `toml:"dir"`
	Pattern       string `toml:"pattern"`
	SettleSeconds int    `toml:"settle_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for discsub.
//
// Configuration sections by subsystem:
//   - Paths: output, log, and state directories
//   - Catalog: remote catalog endpoint and credentials
//   - CatalogCache: hash lookup cache (file or redis)
//   - Submission: placeholder, enrichment, and output options
//   - Protection: external copy-protection scanner
//   - Watch: seed directory watcher
//   - Logging: log format and level
type Config struct {
	Paths        Paths        `toml:"paths"`
	Catalog      Catalog      `toml:"catalog"`
	CatalogCache CatalogCache `toml:"catalog_cache"`
	Submission   Submission   `toml:"submission"`
	Protection   Protection   `toml:"protection"`
	Watch        Watch        `toml:"watch"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/discsub/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	loadDotEnv(filepath.Dir(resolvedPath))

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadDotEnv reads .env files beside the config and in the working directory.
// Existing environment variables always win; missing files are ignored.
func loadDotEnv(configDir string) {
	candidates := []string{filepath.Join(configDir, ".env")}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, ".env"))
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			_ = godotenv.Load(candidate)
		}
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("discsub.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryDBPath returns the location of the submission history database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// CatalogRequestTimeout returns the per-request catalog timeout.
func (c *Config) CatalogRequestTimeout() time.Duration {
	return time.Duration(c.Catalog.RequestTimeoutSeconds) * time.Second
}

// ProtectionScanTimeout bounds a single run of the protection scanner.
func (c *Config) ProtectionScanTimeout() time.Duration {
	return time.Duration(c.Protection.ScannerTimeoutSeconds) * time.Second
}

// CatalogCacheTTL returns how long cached hash lookups stay valid.
func (c *Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogCache.TTLHours) * time.Hour
}

// HasCatalogCredentials reports whether both catalog credentials are set.
func (c *Config) HasCatalogCredentials() bool {
	return strings.TrimSpace(c.Catalog.Username) != "" && c.Catalog.Password != ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
