package preflight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"discsub/internal/catalog"
	"discsub/internal/catalogcache"
	"discsub/internal/config"
)

const checkTimeout = 10 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCatalog logs into the catalog when credentials are configured. Without
// credentials matching is disabled and the check passes.
func CheckCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) Result {
	const name = "Catalog"

	if !cfg.HasCatalogCredentials() {
		return Result{Name: name, Passed: true, Optional: true, Detail: "credentials not configured, matching disabled"}
	}
	catalogCfg := catalog.ConfigFrom(cfg, logger)
	catalogCfg.MaxRetries = 0
	client, err := catalog.New(catalogCfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := client.Login(checkCtx); err != nil {
		return Result{Name: name, Optional: true, Detail: summarizeCatalogError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "logged in to " + strings.TrimRight(cfg.Catalog.BaseURL, "/")}
}

// CheckCatalogCache opens the configured lookup cache.
func CheckCatalogCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) Result {
	const name = "Catalog cache"

	if !cfg.CatalogCache.Enabled {
		return Result{Name: name, Passed: true, Optional: true, Detail: "disabled"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	cache, err := catalogcache.Open(checkCtx, cfg, logger)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: err.Error()}
	}
	defer cache.Close()
	return Result{Name: name, Passed: true, Optional: true, Detail: cfg.CatalogCache.Backend + " backend ready"}
}

// CheckProtectionScanner verifies the configured copy-protection scanner
// binary can be found.
func CheckProtectionScanner(cfg *config.Config) Result {
	if strings.TrimSpace(cfg.Protection.ScannerCommand) == "" {
		return Result{Name: "Protection scanner", Passed: true, Optional: true, Detail: "not configured"}
	}
	return CheckBinary("Protection scanner", cfg.Protection.ScannerCommand, true)
}

// CheckBinary reports whether command resolves on PATH or as a path.
func CheckBinary(name, command string, optional bool) Result {
	command = strings.TrimSpace(command)
	if command == "" {
		return Result{Name: name, Optional: optional, Detail: "command not configured"}
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		return Result{Name: name, Optional: optional, Detail: fmt.Sprintf("binary %q not found", command)}
	}
	return Result{Name: name, Passed: true, Optional: optional, Detail: resolved}
}

func summarizeCatalogError(err error) string {
	switch {
	case errors.Is(err, catalog.ErrBadCredentials):
		return "login rejected (check username and password)"
	case errors.Is(err, context.DeadlineExceeded):
		return "login timed out (catalog unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "login timed out (catalog unreachable)"
	}
	var statusErr *catalog.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("login failed (%s)", http.StatusText(statusErr.Status))
	}
	return err.Error()
}
