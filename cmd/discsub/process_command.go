package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"discsub/internal/pipeline"
	"discsub/internal/store"
)

type processSummary struct {
	RunID          string   `json:"run_id"`
	BaseName       string   `json:"base_name"`
	Status         string   `json:"status"`
	FullyMatchedID *int     `json:"fully_matched_id,omitempty"`
	PartialIDs     []int    `json:"partially_matched_ids,omitempty"`
	ReportPath     string   `json:"report_path,omitempty"`
	JSONPath       string   `json:"json_path,omitempty"`
	Failures       []string `json:"failures,omitempty"`
}

func summarize(res *pipeline.Result) processSummary {
	summary := processSummary{
		RunID:      res.RunID,
		BaseName:   res.BaseName,
		Status:     string(res.Status()),
		ReportPath: res.ReportPath,
		JSONPath:   res.JSONPath,
	}
	if res.Record != nil {
		summary.FullyMatchedID = res.Record.FullyMatchedID
		summary.PartialIDs = res.Record.PartiallyMatchedIDs
	}
	for _, s := range res.Stages {
		if !s.OK && !s.Skipped {
			msg := s.Message
			if s.Err != nil {
				msg = s.Err.Error()
			}
			summary.Failures = append(summary.Failures, s.Stage+": "+msg)
		}
	}
	return summary
}

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var flags inputFlags
	var jsonOutput bool
	var progress bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run the full pipeline on a dump record and write the submission report",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			observerOut := out
			if jsonOutput {
				observerOut = nil
			}
			runner, cleanup, err := ctx.newRunner(cmd.Context(), runnerOptions{
				discRoot: flags.discRoot,
				out:      observerOut,
				verbose:  progress,
			})
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := runner.Run(cmd.Context(), in)
			if err != nil {
				return err
			}
			summary := summarize(res)
			if jsonOutput {
				if err := writeJSON(cmd, summary); err != nil {
					return err
				}
			} else {
				printSummary(cmd, summary, res.Stages)
			}
			if res.Failed() {
				return errors.New("run completed with failures")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.record, "input", "i", "", "Dump record JSON (optionally gzip-compressed)")
	cmd.Flags().StringVar(&flags.seed, "seed", "", "Seed record overriding user-supplied fields")
	cmd.Flags().StringVar(&flags.dat, "dat", "", "DAT hash manifest to match against the catalog")
	cmd.Flags().StringVar(&flags.cue, "cue", "", "Cuesheet to include in the report")
	cmd.Flags().StringVarP(&flags.name, "name", "n", "", "Output base name (defaults to the input file name)")
	cmd.Flags().StringVar(&flags.discRoot, "disc-root", "", "Mounted disc root for anti-modchip and protection scans")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run summary as JSON")
	cmd.Flags().BoolVar(&progress, "progress", false, "Print per-stage progress messages")
	return cmd
}

func printSummary(cmd *cobra.Command, s processSummary, stages []pipeline.StageResult) {
	out := cmd.OutOrStdout()
	printer := newStatusPrinter(out)
	fmt.Fprintf(out, "Run ID:  %s\n", s.RunID)
	fmt.Fprintf(out, "Status:  %s\n", printer.paint(runStatus(store.Status(s.Status)), s.Status))
	if s.FullyMatchedID != nil {
		fmt.Fprintf(out, "Match:   %d\n", *s.FullyMatchedID)
	}
	if s.ReportPath != "" {
		fmt.Fprintf(out, "Report:  %s\n", s.ReportPath)
	}
	if s.JSONPath != "" {
		fmt.Fprintf(out, "Record:  %s\n", s.JSONPath)
	}
	if len(s.Failures) == 0 {
		return
	}
	fmt.Fprintln(out)
	printer.header("Stages")
	for _, st := range stages {
		detail := st.Message
		if st.Err != nil {
			detail = st.Err.Error()
		}
		printer.check(st.Stage, stageStatus(st), detail)
	}
}
