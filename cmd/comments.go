package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/JakeFAU/steam-profile-comments/internal/comments"
)

const (
	outputJSON  = "json"
	outputTable = "table"
)

func newCommentsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "comments <steamid|alias>",
		Short: "Prints the comments on a Steam profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputJSON && output != outputTable {
				return fmt.Errorf("unknown output format %q (want %s or %s)", output, outputJSON, outputTable)
			}
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			records, err := appInstance.Comments().GetComments(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get comments for %s: %w", args[0], err)
			}
			return writeRecords(cmd.OutOrStdout(), output, records)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "output format: json or table")
	return cmd
}

func writeRecords(w io.Writer, format string, records []comments.Record) error {
	if format == outputTable {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"#", "Persona", "Author", "Comment"})
		for i, rec := range records {
			t.AppendRow(table.Row{i + 1, rec.PersonaName, rec.AuthorURL, rec.AuthorComment})
		}
		t.AppendFooter(table.Row{"", "", "Total", len(records)})
		t.Render()
		return nil
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode comments: %w", err)
	}
	return nil
}
