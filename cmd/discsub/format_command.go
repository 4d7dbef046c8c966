package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"discsub/internal/config"
	"discsub/internal/consolidate"
	"discsub/internal/fileutil"
	"discsub/internal/formatter"
	"discsub/internal/submission"
)

func newFormatCommand(ctx *commandContext) *cobra.Command {
	var recordPath string
	var outputPath string
	var compat bool

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Render the submission report for a stored record",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(recordPath) == "" {
				return errors.New("--record is required")
			}
			path, err := config.ExpandPath(recordPath)
			if err != nil {
				return err
			}
			rec, err := submission.ReadFile(path)
			if err != nil {
				return err
			}
			consolidate.Record(rec)

			opts := formatter.Options{RedumpCompatibility: cfg.Submission.RedumpCompatibility}
			if cmd.Flags().Changed("compat") {
				opts.RedumpCompatibility = compat
			}
			lines, err := formatter.Format(rec, opts)
			if err != nil {
				return err
			}
			text := formatter.Text(lines)

			if strings.TrimSpace(outputPath) == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), text)
				return err
			}
			target, err := config.ExpandPath(outputPath)
			if err != nil {
				return err
			}
			if err := fileutil.WriteAtomic(target, []byte(text), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&recordPath, "record", "r", "", "Record JSON (optionally gzip-compressed)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report here instead of stdout")
	cmd.Flags().BoolVar(&compat, "compat", false, "Restrict output to what the catalog accepts")
	return cmd
}
