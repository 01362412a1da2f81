package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Form choices offered when adding an employee.
var (
	Departments     = []string{"HR", "Production", "IT", "Finance", "Sales"}
	SeniorityLevels = []string{"Mid", "Senior"}
	Workloads       = []int{60, 70, 80, 90, 100}
)

const (
	DefaultResidence = "Ticino"
	DefaultAge       = 35
	MinAge           = 18
	MaxAge           = 70

	// FullTimeVacationDays is the yearly entitlement at 100% workload.
	FullTimeVacationDays = 25
)

type (
	Date struct {
		time.Time
	}

	// NullInt is an integer that may be absent.
	NullInt struct {
		Value int
		Valid bool
	}

	Employee struct {
		FirstName     string
		LastName      string
		Residence     string
		Age           NullInt
		Department    string
		Seniority     string
		Workload      int // percent, 0-100
		VacationTotal NullInt
		VacationTaken NullInt
		HireDate      Date
	}
)

var (
	ErrNameRequired      = errors.New("first name and last name are required")
	ErrInvalidDepartment = errors.New("invalid department")
	ErrInvalidSeniority  = errors.New("invalid seniority level")
	ErrInvalidAge        = errors.New("invalid age")
	ErrInvalidWorkload   = errors.New("invalid workload")
	ErrInvalidVacation   = errors.New("vacation days taken out of range")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty reports whether the date is null.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// String renders the date as YYYY-MM-DD, or "" when null.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// IntOf returns a present NullInt.
func IntOf(v int) NullInt {
	return NullInt{Value: v, Valid: true}
}

func (n NullInt) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.Itoa(n.Value)
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Entitlement returns the vacation days granted for a workload percentage:
// 25 days scaled by workload, rounded half to even (90% gives 22).
func Entitlement(workload int) int {
	n := FullTimeVacationDays * workload
	q, r := n/100, n%100
	if r < 0 {
		q, r = q-1, r+100
	}
	if r > 50 || (r == 50 && q%2 != 0) {
		q++
	}
	return q
}

// ValidDepartment reports whether dept is one of the form departments.
func ValidDepartment(dept string) bool {
	for _, d := range Departments {
		if d == dept {
			return true
		}
	}
	return false
}

// ValidSeniority reports whether level is one of the form seniority levels.
func ValidSeniority(level string) bool {
	for _, s := range SeniorityLevels {
		if s == level {
			return true
		}
	}
	return false
}

// ValidWorkload reports whether w is one of the form workload choices.
func ValidWorkload(w int) bool {
	for _, v := range Workloads {
		if v == w {
			return true
		}
	}
	return false
}
