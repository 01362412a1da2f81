package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"hrtool/internal/charts"
	"hrtool/internal/core"
)

func newStatsCmd(a *app) *cobra.Command {
	var f core.Filter
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print KPIs and per-department aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.svc.Dashboard(cmd.Context(), f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if d.Total == 0 {
				fmt.Fprintln(out, "No data available.")
				return nil
			}
			k := d.KPIs
			fmt.Fprintf(out, "Headcount: %d\nAvg Age: %s\nAvg Vacation Taken: %s\nAvg Workload: %s\n\n",
				k.Headcount, k.AvgAge, k.AvgVacationTaken, k.AvgWorkload)
			writeDepartments(out, d)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&f.Departments, "department", nil, "departments to include (default all)")
	cmd.Flags().StringSliceVar(&f.Seniority, "seniority", nil, "seniority levels to include (default all)")
	return cmd
}

func writeDepartments(w io.Writer, d charts.Dashboard) {
	headcount := indexBars(d.Headcount)
	vacation := indexBars(d.Vacation)
	ages := make(map[string]charts.Box, len(d.Ages.Boxes))
	for _, b := range d.Ages.Boxes {
		ages[b.Label] = b
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Department", "Headcount", "Vacation Taken", "Age Min", "Age Median", "Age Max"})
	table.SetAutoFormatHeaders(false)
	for _, dept := range d.Headcount.Labels {
		row := []string{dept, strconv.Itoa(headcount[dept]), strconv.Itoa(vacation[dept]), "", "", ""}
		if b, ok := ages[dept]; ok {
			row[3] = formatAge(b.Min)
			row[4] = formatAge(b.Median)
			row[5] = formatAge(b.Max)
		}
		table.Append(row)
	}
	table.Render()
}

func indexBars(c charts.Chart) map[string]int {
	out := make(map[string]int, len(c.Labels))
	for i, l := range c.Labels {
		out[l] = c.Values[i]
	}
	return out
}

func formatAge(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
