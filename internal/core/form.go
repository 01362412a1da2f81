package core

import "strings"

// EmployeeForm is the raw input of the add-employee form.
type EmployeeForm struct {
	FirstName     string
	LastName      string
	Residence     string
	Age           int
	Department    string
	Seniority     string
	Workload      int
	VacationTaken int
	HireDate      Date
}

// DefaultForm returns the form pre-filled the way the page shows it.
func DefaultForm(today Date) EmployeeForm {
	return EmployeeForm{
		Residence:  DefaultResidence,
		Age:        DefaultAge,
		Department: Departments[0],
		Seniority:  SeniorityLevels[0],
		Workload:   Workloads[0],
		HireDate:   today,
	}
}

// NewEmployee validates the form and builds the record to append.
// Vacation Days Total is fixed here from the workload and is never
// recomputed afterwards.
func NewEmployee(f EmployeeForm) (Employee, error) {
	first := strings.TrimSpace(f.FirstName)
	last := strings.TrimSpace(f.LastName)
	if first == "" || last == "" {
		return Employee{}, ErrNameRequired
	}
	if !ValidDepartment(f.Department) {
		return Employee{}, ErrInvalidDepartment
	}
	if !ValidSeniority(f.Seniority) {
		return Employee{}, ErrInvalidSeniority
	}
	if f.Age < MinAge || f.Age > MaxAge {
		return Employee{}, ErrInvalidAge
	}
	if !ValidWorkload(f.Workload) {
		return Employee{}, ErrInvalidWorkload
	}

	total := Entitlement(f.Workload)
	if f.VacationTaken < 0 || f.VacationTaken > total {
		return Employee{}, ErrInvalidVacation
	}

	return Employee{
		FirstName:     first,
		LastName:      last,
		Residence:     strings.TrimSpace(f.Residence),
		Age:           IntOf(f.Age),
		Department:    f.Department,
		Seniority:     f.Seniority,
		Workload:      f.Workload,
		VacationTotal: IntOf(total),
		VacationTaken: IntOf(f.VacationTaken),
		HireDate:      f.HireDate,
	}, nil
}
