package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"discsub/internal/sitecode"
)

func newSitecodesCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "sitecodes",
		Short:       "List the catalog tags recognised in comments and contents",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := sitecode.All()
			if jsonOutput {
				infos := make([]sitecode.Info, 0, len(codes))
				for _, code := range codes {
					if info, ok := code.Lookup(); ok {
						infos = append(infos, info)
					}
				}
				return writeJSON(cmd, infos)
			}
			rows := make([][]string, 0, len(codes))
			for _, code := range codes {
				section := "comments"
				if sitecode.IsContentTag(code) {
					section = "contents"
				}
				rows = append(rows, []string{
					code.String(),
					code.ShortName(),
					section,
					tagKind(code),
					yesNo(sitecode.IsExcluded(code)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Tag", "Section", "Kind", "Excluded"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the tag table as JSON")
	return cmd
}

func tagKind(code sitecode.Code) string {
	switch {
	case code.IsBoolean():
		return "flag"
	case code.IsMultiLine():
		return "multi-line"
	}
	return "value"
}
