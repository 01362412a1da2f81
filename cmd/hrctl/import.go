package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the dataset with a CSV, CSV.XZ, XLSX, XLS or DBF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := a.svc.Upload(cmd.Context(), f, filepath.Base(args[0]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(res.Missing) > 0 {
				color.New(color.FgYellow).Fprintf(out, "Uploaded file missing columns: ['%s']\n",
					strings.Join(res.Missing, "', '"))
			}
			color.New(color.FgGreen).Fprintf(out, "Imported %d rows from %s (%s)\n",
				res.Table.Len(), filepath.Base(args[0]), res.Format)
			return nil
		},
	}
}
