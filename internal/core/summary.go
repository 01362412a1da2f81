package core

import "sort"

// DepartmentCount is an integer aggregated by department name.
type DepartmentCount struct {
	Department string
	Value      int
}

// DepartmentAges holds the known ages of one department, in row order.
type DepartmentAges struct {
	Department string
	Ages       []int
}

// HeadcountByDepartment counts rows per department. Rows without a
// department are skipped.
func HeadcountByDepartment(t Table) []DepartmentCount {
	return sumByDepartment(t, func(Employee) int { return 1 })
}

// VacationTakenByDepartment sums Vacation Days Taken per department; null
// values count as zero.
func VacationTakenByDepartment(t Table) []DepartmentCount {
	return sumByDepartment(t, func(e Employee) int {
		if !e.VacationTaken.Valid {
			return 0
		}
		return e.VacationTaken.Value
	})
}

// AgesByDepartment groups known ages per department.
func AgesByDepartment(t Table) []DepartmentAges {
	groups := make(map[string][]int)
	for _, e := range t.Rows {
		if e.Department == "" {
			continue
		}
		if _, ok := groups[e.Department]; !ok {
			groups[e.Department] = []int{}
		}
		if e.Age.Valid {
			groups[e.Department] = append(groups[e.Department], e.Age.Value)
		}
	}
	out := make([]DepartmentAges, 0, len(groups))
	for dept, ages := range groups {
		out = append(out, DepartmentAges{Department: dept, Ages: ages})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

func sumByDepartment(t Table, value func(Employee) int) []DepartmentCount {
	totals := make(map[string]int)
	for _, e := range t.Rows {
		if e.Department == "" {
			continue
		}
		totals[e.Department] += value(e)
	}
	out := make([]DepartmentCount, 0, len(totals))
	for dept, v := range totals {
		out = append(out, DepartmentCount{Department: dept, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}
