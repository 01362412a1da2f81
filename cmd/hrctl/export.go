package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hrtool/internal/tabfile"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write the dataset to a .csv, .csv.xz or .xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := tabfile.DetectFormat(args[0])
			switch format {
			case tabfile.FormatCSV, tabfile.FormatCSVXZ, tabfile.FormatXLSX:
			default:
				return fmt.Errorf("%w: export supports .csv, .csv.xz and .xlsx", tabfile.ErrUnsupported)
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.Export(cmd.Context(), f, format); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported dataset to %s\n", args[0])
			return nil
		},
	}
}
