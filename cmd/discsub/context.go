package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"discsub/internal/catalog"
	"discsub/internal/catalogcache"
	"discsub/internal/config"
	"discsub/internal/derive"
	"discsub/internal/logging"
	"discsub/internal/matcher"
	"discsub/internal/pipeline"
	"discsub/internal/store"
	"discsub/internal/submission"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds a logger writing to discsub.log, and to stderr with
// --verbose, so command output on stdout stays clean.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		outputs := []string{filepath.Join(cfg.Paths.LogDir, "discsub.log")}
		if c.verboseFlag != nil && *c.verboseFlag {
			outputs = append(outputs, "stderr")
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: outputs,
		})
	})
	return c.logger, c.loggerErr
}

// catalogClient returns the configured catalog client, decorated with the
// lookup cache when enabled. Without credentials it returns nil and matching
// is skipped.
func (c *commandContext) catalogClient(ctx context.Context) (catalog.Client, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	noop := func() {}
	if !cfg.HasCatalogCredentials() {
		return nil, noop, nil
	}
	client, err := catalog.New(catalog.ConfigFrom(cfg, logger))
	if err != nil {
		return nil, nil, err
	}
	cache, err := catalogcache.Open(ctx, cfg, logger)
	if err != nil {
		logging.WarnWithContext(logger, "catalog cache unavailable", "catalogcache_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the catalog_cache settings"),
			logging.String(logging.FieldImpact, "lookups go straight to the catalog"))
		return client, noop, nil
	}
	if cache == nil {
		return client, noop, nil
	}
	return catalogcache.Wrap(client, cache, logger), func() { _ = cache.Close() }, nil
}

func (c *commandContext) newMatcher(ctx context.Context) (*matcher.Matcher, func(), error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	client, closer, err := c.catalogClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	return matcher.New(client, logger), closer, nil
}

// newDeriver always checks the dump's subchannel file for LibCrypt and adds
// the disc-inspecting collaborators when a mounted disc root is available.
func (c *commandContext) newDeriver(discRoot string) (*derive.Deriver, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	opts := []derive.Option{derive.WithLibCryptDetector(derive.SubchannelLibCryptDetector{})}
	discRoot = strings.TrimSpace(discRoot)
	if discRoot == "" {
		return derive.New(logger, opts...), nil
	}
	root, err := config.ExpandPath(discRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve disc root: %w", err)
	}
	opts = append(opts, derive.WithAntiModchipDetector(derive.FileAntiModchipScanner{Root: root}))
	if command := strings.TrimSpace(cfg.Protection.ScannerCommand); command != "" {
		scanner := derive.NewCommandScanner(command, cfg.Protection.ScannerArgs, root)
		timeout := cfg.ProtectionScanTimeout()
		opts = append(opts, derive.WithProtectionScanner(derive.ProtectionFunc(
			func(ctx context.Context, rec *submission.Record) (derive.Protection, error) {
				scanCtx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()
				return scanner.ScanProtection(scanCtx, rec)
			})))
	}
	return derive.New(logger, opts...), nil
}

func (c *commandContext) openHistory() (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg)
}

type runnerOptions struct {
	discRoot string
	out      io.Writer
	verbose  bool
}

// newRunner assembles a pipeline runner with matching and history enabled.
func (c *commandContext) newRunner(ctx context.Context, opts runnerOptions) (*pipeline.Runner, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	deriver, err := c.newDeriver(opts.discRoot)
	if err != nil {
		return nil, nil, err
	}
	m, closeCatalog, err := c.newMatcher(ctx)
	if err != nil {
		return nil, nil, err
	}
	history, err := c.openHistory()
	if err != nil {
		closeCatalog()
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	runner := pipeline.New(cfg, logger,
		pipeline.WithDeriver(deriver),
		pipeline.WithMatcher(m),
		pipeline.WithHistory(history),
		pipeline.WithObserver(pipeline.WriterObserver{W: opts.out, Verbose: opts.verbose}),
	)
	cleanup := func() {
		_ = history.Close()
		closeCatalog()
	}
	return runner, cleanup, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
