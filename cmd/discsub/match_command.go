package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"discsub/internal/config"
	"discsub/internal/manifest"
	"discsub/internal/matcher"
	"discsub/internal/submission"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var datPath string
	var recordPath string
	var pullAll bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Look up a DAT manifest in the catalog without writing a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(datPath) == "" {
				return errors.New("--dat is required")
			}
			dat, err := readOptional(datPath)
			if err != nil {
				return fmt.Errorf("load dat: %w", err)
			}
			rec := submission.New(submission.SystemUnknown, submission.MediaUnknown)
			if strings.TrimSpace(recordPath) != "" {
				path, err := config.ExpandPath(recordPath)
				if err != nil {
					return err
				}
				if rec, err = submission.ReadFile(path); err != nil {
					return err
				}
			}

			m, closeCatalog, err := ctx.newMatcher(cmd.Context())
			if err != nil {
				return err
			}
			defer closeCatalog()

			out := cmd.OutOrStdout()
			opts := matcher.Options{PullAllInformation: pullAll}
			if !jsonOutput {
				opts.Observer = func(msg string) { fmt.Fprintln(out, msg) }
			}
			res, err := m.Resolve(cmd.Context(), dat, rec, opts)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, matchView{
					Skipped:             res.Skipped,
					TrackCount:          res.TrackCount,
					Candidates:          res.Candidates,
					FullyMatchedID:      res.FullyMatchedID,
					PartiallyMatchedIDs: res.PartiallyMatchedIDs,
					UsedUniversalHash:   res.UsedUniversalHash,
					Title:               rec.CommonDiscInfo.Title,
				})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, matchRows(dat, rec, res), nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&datPath, "dat", "", "DAT hash manifest")
	cmd.Flags().StringVarP(&recordPath, "input", "i", "", "Optional dump record carrying a universal hash")
	cmd.Flags().BoolVar(&pullAll, "pull-all", false, "Also import comments and contents from the match")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the match result as JSON")
	return cmd
}

type matchView struct {
	Skipped             bool   `json:"skipped"`
	TrackCount          int    `json:"track_count"`
	Candidates          []int  `json:"candidates,omitempty"`
	FullyMatchedID      *int   `json:"fully_matched_id,omitempty"`
	PartiallyMatchedIDs []int  `json:"partially_matched_ids,omitempty"`
	UsedUniversalHash   bool   `json:"used_universal_hash"`
	Title               string `json:"title,omitempty"`
}

func matchRows(dat string, rec *submission.Record, res matcher.Result) [][]string {
	parsed := manifest.Parse(dat)
	full := "none"
	if res.FullyMatchedID != nil {
		full = strconv.Itoa(*res.FullyMatchedID)
	}
	rows := [][]string{
		{"Tracks", strconv.Itoa(len(parsed.Tracks))},
		{"Counted tracks", strconv.Itoa(res.TrackCount)},
		{"Candidates", joinIDs(res.Candidates)},
		{"Fully matched", full},
		{"Partially matched", joinIDs(res.PartiallyMatchedIDs)},
		{"Universal hash", yesNo(res.UsedUniversalHash)},
		{"Skipped", yesNo(res.Skipped)},
	}
	if res.Resolved() {
		rows = append(rows, []string{"Title", rec.CommonDiscInfo.Title})
	}
	return rows
}

func joinIDs(ids []int) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
