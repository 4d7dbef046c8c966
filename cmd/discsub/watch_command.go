package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"discsub/internal/logging"
	"discsub/internal/pipeline"
	"discsub/internal/preflight"
	"discsub/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string
	var discRoot string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process dump records as they appear in the watch directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			dir := strings.TrimSpace(dirFlag)
			if dir == "" {
				dir = cfg.Watch.Dir
			}
			if dir == "" {
				return errors.New("no watch directory: set [watch] dir or pass --dir")
			}
			cfg.Watch.Dir = dir

			if blocking := preflight.Blocking(preflight.RunAll(cmd.Context(), cfg, logger)); len(blocking) > 0 {
				printer := newStatusPrinter(cmd.OutOrStdout())
				for _, r := range blocking {
					printer.check(r.Name, statusFailed, r.Detail)
				}
				return errors.New("preflight checks failed")
			}

			w, err := watch.New(dir, cfg.Watch.Pattern, time.Duration(cfg.Watch.SettleSeconds)*time.Second, logger)
			if err != nil {
				return err
			}
			runner, cleanup, err := ctx.newRunner(cmd.Context(), runnerOptions{discRoot: discRoot})
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for %s (Ctrl+C to stop)\n", dir, cfg.Watch.Pattern)
			return w.Run(cmd.Context(), func(runCtx context.Context, path string) {
				handleWatchedFile(runCtx, runner, path, cmd, logger)
			})
		},
	}

	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Directory to watch (overrides [watch] dir)")
	cmd.Flags().StringVar(&discRoot, "disc-root", "", "Mounted disc root for anti-modchip and protection scans")
	return cmd
}

func handleWatchedFile(ctx context.Context, runner *pipeline.Runner, path string, cmd *cobra.Command, logger *slog.Logger) {
	printer := newStatusPrinter(cmd.OutOrStdout())
	in, err := loadInput(inputFlags{record: path})
	if err != nil {
		printer.check(filepath.Base(path), statusFailed, err.Error())
		logging.WarnWithContext(logger, "watched file rejected", "watch_input_invalid",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the file is a complete dump record"),
			logging.String(logging.FieldImpact, "file skipped"))
		return
	}
	res, err := runner.Run(ctx, in)
	if err != nil {
		printer.check(filepath.Base(path), statusFailed, err.Error())
		return
	}
	printer.check(res.BaseName, runStatus(res.Status()), fmt.Sprintf("%s, run %s", res.Status(), shortRunID(res.RunID)))
}
