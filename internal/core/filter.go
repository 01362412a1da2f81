package core

import (
	"sort"
	"strings"
)

// Filter restricts a table by department and seniority. An empty selection
// on a dimension keeps every row.
type Filter struct {
	Departments []string
	Seniority   []string
}

// IsEmpty reports whether the filter keeps every row.
func (f Filter) IsEmpty() bool {
	return len(f.Departments) == 0 && len(f.Seniority) == 0
}

// Apply returns the rows matching the filter.
func (f Filter) Apply(t Table) Table {
	if f.IsEmpty() {
		return t
	}
	depts := toSet(f.Departments)
	levels := toSet(f.Seniority)

	rows := make([]Employee, 0, len(t.Rows))
	for _, e := range t.Rows {
		if depts != nil {
			if _, ok := depts[e.Department]; !ok {
				continue
			}
		}
		if levels != nil {
			if _, ok := levels[e.Seniority]; !ok {
				continue
			}
		}
		rows = append(rows, e)
	}
	return Table{Rows: rows}
}

// Key identifies the filter independently of selection order.
func (f Filter) Key() string {
	d := append([]string(nil), f.Departments...)
	s := append([]string(nil), f.Seniority...)
	sort.Strings(d)
	sort.Strings(s)
	return "d=" + strings.Join(d, ",") + ";s=" + strings.Join(s, ",")
}

// Options lists the distinct non-empty departments and seniority levels of
// a table, sorted.
func Options(t Table) (departments, seniority []string) {
	return distinct(t, func(e Employee) string { return e.Department }),
		distinct(t, func(e Employee) string { return e.Seniority })
}

func distinct(t Table, field func(Employee) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, e := range t.Rows {
		v := field(e)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
