package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"discsub/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check directories, catalog access, cache and external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			printer := newStatusPrinter(cmd.OutOrStdout())
			results := preflight.RunAll(cmd.Context(), cfg, logger)
			printer.header("Preflight")
			for _, r := range results {
				printer.check(r.Name, preflightStatus(r), r.Detail)
			}
			if blocking := preflight.Blocking(results); len(blocking) > 0 {
				return fmt.Errorf("%d required check(s) failed", len(blocking))
			}
			return nil
		},
	}
}
