package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"discsub/internal/store"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List processed submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, historyViews(entries))
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No submissions recorded")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.CreatedAt.Local().Format("2006-01-02 15:04"),
					shortRunID(e.RunID),
					e.BaseName,
					e.System,
					string(e.Status),
					matchLabel(e.FullyMatchedID),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Run", "Name", "System", "Status", "Match"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum entries to show (0 for all)")
	historyCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print entries as JSON")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one processed submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer st.Close()

			entry, err := st.Get(cmd.Context(), strings.TrimSpace(args[0]))
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no submission with run id %q", args[0])
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run ID:   %s\n", entry.RunID)
			fmt.Fprintf(out, "Created:  %s\n", entry.CreatedAt.Local().Format(time.RFC3339))
			fmt.Fprintf(out, "Name:     %s\n", entry.BaseName)
			fmt.Fprintf(out, "System:   %s\n", entry.System)
			fmt.Fprintf(out, "Media:    %s\n", entry.MediaType)
			fmt.Fprintf(out, "Title:    %s\n", entry.Title)
			fmt.Fprintf(out, "Status:   %s\n", entry.Status)
			fmt.Fprintf(out, "Match:    %s\n", matchLabel(entry.FullyMatchedID))
			fmt.Fprintf(out, "Partial:  %s\n", joinIDs(entry.PartiallyMatchedIDs))
			if entry.Message != "" {
				fmt.Fprintf(out, "Message:  %s\n", entry.Message)
			}
			if entry.ReportPath != "" {
				fmt.Fprintf(out, "Report:   %s\n", entry.ReportPath)
			}
			if entry.JSONPath != "" {
				fmt.Fprintf(out, "Record:   %s\n", entry.JSONPath)
			}
			return nil
		},
	}
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer st.Close()

			removed, err := st.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", removed)
			return nil
		},
	}
}

type historyView struct {
	RunID               string    `json:"run_id"`
	CreatedAt           time.Time `json:"created_at"`
	BaseName            string    `json:"base_name"`
	System              string    `json:"system,omitempty"`
	MediaType           string    `json:"media_type,omitempty"`
	Title               string    `json:"title,omitempty"`
	FullyMatchedID      *int      `json:"fully_matched_id,omitempty"`
	PartiallyMatchedIDs []int     `json:"partially_matched_ids,omitempty"`
	Status              string    `json:"status"`
	Message             string    `json:"message,omitempty"`
	ReportPath          string    `json:"report_path,omitempty"`
	JSONPath            string    `json:"json_path,omitempty"`
}

func historyViews(entries []*store.Entry) []historyView {
	views := make([]historyView, 0, len(entries))
	for _, e := range entries {
		views = append(views, historyView{
			RunID:               e.RunID,
			CreatedAt:           e.CreatedAt,
			BaseName:            e.BaseName,
			System:              e.System,
			MediaType:           e.MediaType,
			Title:               e.Title,
			FullyMatchedID:      e.FullyMatchedID,
			PartiallyMatchedIDs: e.PartiallyMatchedIDs,
			Status:              string(e.Status),
			Message:             e.Message,
			ReportPath:          e.ReportPath,
			JSONPath:            e.JSONPath,
		})
	}
	return views
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func matchLabel(id *int) string {
	if id == nil {
		return "-"
	}
	return strconv.Itoa(*id)
}
