package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"hrtool/internal/core"
)

func newShowCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the dataset preview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := a.svc.Dataset(cmd.Context())
			if err != nil {
				return err
			}
			shown := t
			if !all {
				shown = t.Head(a.cfg.PreviewRows)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader(core.ColumnNames())
			table.SetAutoFormatHeaders(false)
			table.SetAutoWrapText(false)
			table.AppendBulk(shown.Raw().Rows)
			table.Render()

			fmt.Fprintf(cmd.OutOrStdout(), "Rows: %d\n", t.Len())
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "show all rows")
	return cmd
}
