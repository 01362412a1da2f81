// Package charts turns a normalized employee table into chart
// specifications and headline figures for the visualizations page.
// Charts are rendered client side; this package only decides what to draw.
package charts

import (
	"fmt"
	"math"
	"sort"

	"hrtool/internal/core"
)

// Set2 is the qualitative palette used for department colours.
var Set2 = []string{
	"rgb(102,194,165)",
	"rgb(252,141,98)",
	"rgb(141,160,203)",
	"rgb(231,138,195)",
	"rgb(166,216,84)",
	"rgb(255,217,47)",
	"rgb(229,196,148)",
	"rgb(179,179,179)",
}

const (
	TypeBar = "bar"
	TypeBox = "boxplot"
)

// Box summarizes one department's ages.
type Box struct {
	Label  string  `json:"label"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Points []int   `json:"points"`
}

// Chart is a renderer-agnostic chart specification.
type Chart struct {
	ID     string   `json:"id"`
	Type   string   `json:"type"`
	Title  string   `json:"title"`
	XLabel string   `json:"xLabel"`
	YLabel string   `json:"yLabel"`
	Labels []string `json:"labels"`
	Values []int    `json:"values,omitempty"`
	Boxes  []Box    `json:"boxes,omitempty"`
	Colors []string `json:"colors"`
}

// Empty reports whether the chart has nothing to plot.
func (c Chart) Empty() bool {
	return len(c.Labels) == 0
}

// HeadcountByDepartment counts employees per department.
func HeadcountByDepartment(t core.Table) Chart {
	counts := core.HeadcountByDepartment(t)
	c := Chart{
		ID:     "headcount",
		Type:   TypeBar,
		Title:  "Headcount by Department",
		XLabel: "Department",
		YLabel: "Employees",
	}
	fillBars(&c, counts)
	return c
}

// VacationTakenByDepartment sums vacation days taken per department.
func VacationTakenByDepartment(t core.Table) Chart {
	sums := core.VacationTakenByDepartment(t)
	c := Chart{
		ID:     "vacation",
		Type:   TypeBar,
		Title:  "Vacation Days Taken by Department",
		XLabel: "Department",
		YLabel: "Total Vacation Days Taken",
	}
	fillBars(&c, sums)
	return c
}

// AgeDistribution builds one box per department plus the individual ages
// drawn on top of it. Departments whose ages are all unknown are left out.
func AgeDistribution(t core.Table) Chart {
	c := Chart{
		ID:     "ages",
		Type:   TypeBox,
		Title:  "Age Distribution by Department",
		XLabel: "Department",
		YLabel: "Age",
		Labels: []string{},
		Colors: []string{},
	}
	for _, g := range core.AgesByDepartment(t) {
		if len(g.Ages) == 0 {
			continue
		}
		c.Labels = append(c.Labels, g.Department)
		c.Colors = append(c.Colors, Set2[(len(c.Labels)-1)%len(Set2)])
		c.Boxes = append(c.Boxes, NewBox(g.Department, g.Ages))
	}
	return c
}

func fillBars(c *Chart, groups []core.DepartmentCount) {
	c.Labels = make([]string, len(groups))
	c.Values = make([]int, len(groups))
	c.Colors = make([]string, len(groups))
	for i, g := range groups {
		c.Labels[i] = g.Department
		c.Values[i] = g.Value
		c.Colors[i] = Set2[i%len(Set2)]
	}
}

// NewBox computes five-number box statistics with linearly interpolated
// quartiles. points must not be empty.
func NewBox(label string, points []int) Box {
	sorted := make([]float64, len(points))
	for i, p := range points {
		sorted[i] = float64(p)
	}
	sort.Float64s(sorted)
	return Box{
		Label:  label,
		Min:    sorted[0],
		Q1:     Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q3:     Quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
		Points: append([]int(nil), points...),
	}
}

// Quantile returns the q-th quantile of sorted values using linear
// interpolation between closest ranks.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// Dashboard is everything the visualizations page shows for one filter.
type Dashboard struct {
	// Total counts the unfiltered rows.
	Total     int     `json:"total"`
	KPIs      KPIs    `json:"kpis"`
	Headcount Chart   `json:"headcount"`
	Ages      Chart   `json:"ages"`
	Vacation  Chart   `json:"vacation"`
	Filter    Options `json:"filter"`
}

// Options echoes the available and selected filter values.
type Options struct {
	Departments         []string `json:"departments"`
	Seniority           []string `json:"seniority"`
	SelectedDepartments []string `json:"selectedDepartments"`
	SelectedSeniority   []string `json:"selectedSeniority"`
}

// Build filters the full table and computes every chart on the result.
func Build(all core.Table, f core.Filter) Dashboard {
	depts, levels := core.Options(all)
	view := f.Apply(all)
	return Dashboard{
		Total:     all.Len(),
		KPIs:      ComputeKPIs(view),
		Headcount: HeadcountByDepartment(view),
		Ages:      AgeDistribution(view),
		Vacation:  VacationTakenByDepartment(view),
		Filter: Options{
			Departments:         depts,
			Seniority:           levels,
			SelectedDepartments: nonNil(f.Departments),
			SelectedSeniority:   nonNil(f.Seniority),
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Placeholder is shown for a KPI with nothing to average.
const Placeholder = "–"

// KPIs are the four headline figures, already formatted for display.
type KPIs struct {
	Headcount        int    `json:"headcount"`
	AvgAge           string `json:"avgAge"`
	AvgVacationTaken string `json:"avgVacationTaken"`
	AvgWorkload      string `json:"avgWorkload"`
}

// ComputeKPIs averages over known values only.
func ComputeKPIs(t core.Table) KPIs {
	k := KPIs{
		Headcount:        t.Len(),
		AvgAge:           Placeholder,
		AvgVacationTaken: Placeholder,
		AvgWorkload:      Placeholder,
	}
	if t.Len() == 0 {
		return k
	}

	var ageSum, ageN, vacSum, vacN, workSum int
	for _, e := range t.Rows {
		if e.Age.Valid {
			ageSum += e.Age.Value
			ageN++
		}
		if e.VacationTaken.Valid {
			vacSum += e.VacationTaken.Value
			vacN++
		}
		workSum += e.Workload
	}
	if ageN > 0 {
		k.AvgAge = fmt.Sprintf("%.1f", float64(ageSum)/float64(ageN))
	}
	if vacN > 0 {
		k.AvgVacationTaken = fmt.Sprintf("%.1f", float64(vacSum)/float64(vacN))
	}
	k.AvgWorkload = fmt.Sprintf("%.0f%%", float64(workSum)/float64(t.Len()))
	return k
}
