package core

import (
	"hash/fnv"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Column names of the employee dataset, in their fixed order.
const (
	ColFirstName     = "First Name"
	ColLastName      = "Last Name"
	ColResidence     = "Residence"
	ColAge           = "Age"
	ColDepartment    = "Department"
	ColSeniority     = "Seniority Level"
	ColWorkload      = "Workload"
	ColVacationTotal = "Vacation Days Total"
	ColVacationTaken = "Vacation Days Taken"
	ColHireDate      = "Hire Date"
)

// Kind is the value type of a column.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindPercent
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindPercent:
		return "percent"
	case KindDate:
		return "date"
	default:
		return "text"
	}
}

// Column describes one schema column: how a cell is read into an Employee
// and how the field is written back out.
type Column struct {
	Name string
	Kind Kind
	set  func(*Employee, string)
	get  func(Employee) string
}

// Schema is the ordered list of dataset columns.
var Schema = []Column{
	textColumn(ColFirstName, func(e *Employee) *string { return &e.FirstName }),
	textColumn(ColLastName, func(e *Employee) *string { return &e.LastName }),
	textColumn(ColResidence, func(e *Employee) *string { return &e.Residence }),
	intColumn(ColAge, func(e *Employee) *NullInt { return &e.Age }),
	textColumn(ColDepartment, func(e *Employee) *string { return &e.Department }),
	textColumn(ColSeniority, func(e *Employee) *string { return &e.Seniority }),
	{
		Name: ColWorkload,
		Kind: KindPercent,
		set:  func(e *Employee, s string) { e.Workload = ParsePercent(s) },
		get:  func(e Employee) string { return strconv.Itoa(e.Workload) },
	},
	intColumn(ColVacationTotal, func(e *Employee) *NullInt { return &e.VacationTotal }),
	intColumn(ColVacationTaken, func(e *Employee) *NullInt { return &e.VacationTaken }),
	{
		Name: ColHireDate,
		Kind: KindDate,
		set:  func(e *Employee, s string) { e.HireDate = ParseDate(s) },
		get:  func(e Employee) string { return e.HireDate.String() },
	},
}

func textColumn(name string, field func(*Employee) *string) Column {
	return Column{
		Name: name,
		Kind: KindText,
		set:  func(e *Employee, s string) { *field(e) = ParseText(s) },
		get:  func(e Employee) string { return *field(&e) },
	}
}

func intColumn(name string, field func(*Employee) *NullInt) Column {
	return Column{
		Name: name,
		Kind: KindInt,
		set:  func(e *Employee, s string) { *field(e) = ParseInt(s) },
		get:  func(e Employee) string { return field(&e).String() },
	}
}

// ColumnNames returns the schema column names in order.
func ColumnNames() []string {
	names := make([]string, len(Schema))
	for i, c := range Schema {
		names[i] = c.Name
	}
	return names
}

// RawTable is an untyped table: a header and string cells, as read from an
// upload or a storage backend.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (r RawTable) Len() int {
	return len(r.Rows)
}

// Fingerprint identifies the table content. Tables with equal cells have
// equal fingerprints.
func (r RawTable) Fingerprint() string {
	h := fnv.New64a()
	write := func(cells []string) {
		for _, c := range cells {
			h.Write([]byte(strconv.Itoa(len(c))))
			h.Write([]byte{':'})
			h.Write([]byte(c))
		}
		h.Write([]byte{'\n'})
	}
	write(r.Header)
	for _, row := range r.Rows {
		write(row)
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// Table is a normalized employee table. Its rows always carry exactly the
// schema columns.
type Table struct {
	Rows []Employee
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Append returns a new table with e added at the end.
func (t Table) Append(e Employee) Table {
	rows := make([]Employee, 0, len(t.Rows)+1)
	rows = append(rows, t.Rows...)
	rows = append(rows, e)
	return Table{Rows: rows}
}

// Head returns at most n leading rows.
func (t Table) Head(n int) Table {
	if n < 0 || n >= len(t.Rows) {
		return t
	}
	return Table{Rows: t.Rows[:n]}
}

// Raw renders the in-memory form: Workload as a bare integer.
func (t Table) Raw() RawTable {
	out := RawTable{Header: ColumnNames(), Rows: make([][]string, len(t.Rows))}
	for i, e := range t.Rows {
		out.Rows[i] = RowValues(e)
	}
	return out
}

// Persisted renders the on-disk form: Workload as "<int>%".
func (t Table) Persisted() RawTable {
	out := t.Raw()
	w := columnIndex(ColWorkload)
	for _, row := range out.Rows {
		row[w] += "%"
	}
	return out
}

// RowValues renders one employee in schema order.
func RowValues(e Employee) []string {
	row := make([]string, len(Schema))
	for i, c := range Schema {
		row[i] = c.get(e)
	}
	return row
}

// Normalize reconciles any raw table with the schema: absent columns get
// their defaults, extra columns are dropped and every cell is coerced to the
// column type. It never fails and Normalize(t.Raw()) reproduces t.
func Normalize(raw RawTable) Table {
	index := headerIndex(raw.Header)
	positions := make([]int, len(Schema))
	for i, c := range Schema {
		pos, ok := index[c.Name]
		if !ok {
			pos = -1
		}
		positions[i] = pos
	}

	rows := make([]Employee, 0, len(raw.Rows))
	for _, cells := range raw.Rows {
		var e Employee
		for i, c := range Schema {
			value := ""
			if p := positions[i]; p >= 0 && p < len(cells) {
				value = cells[p]
			}
			c.set(&e, value)
		}
		rows = append(rows, e)
	}
	return Table{Rows: rows}
}

// MissingColumns lists the schema columns absent from header, sorted
// alphabetically.
func MissingColumns(header []string) []string {
	index := headerIndex(header)
	var missing []string
	for _, c := range Schema {
		if _, ok := index[c.Name]; !ok {
			missing = append(missing, c.Name)
		}
	}
	sort.Strings(missing)
	return missing
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return index
}

func columnIndex(name string) int {
	for i, c := range Schema {
		if c.Name == name {
			return i
		}
	}
	return -1
}

var nullTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"null": {}, "NULL": {}, "None": {}, "<NA>": {}, "#N/A": {}, "#NA": {}, "NaT": {},
}

// IsNull reports whether s is a missing-value marker.
func IsNull(s string) bool {
	_, ok := nullTokens[strings.TrimSpace(s)]
	return ok
}

// ParseText maps missing-value markers to "" and folds CRLF line breaks
// inside a cell to LF, matching what a CSV round trip produces.
func ParseText(s string) string {
	if IsNull(s) {
		return ""
	}
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// ParseInt reads a number, truncating any fraction. Anything unparseable or
// non-finite is null.
func ParseInt(s string) NullInt {
	if IsNull(s) {
		return NullInt{}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > 1<<53 {
		return NullInt{}
	}
	return IntOf(int(f))
}

// ParsePercent reads a workload such as "80%" or "80". Unparseable input
// yields 0.
func ParsePercent(s string) int {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	n := ParseInt(s)
	if !n.Valid {
		return 0
	}
	return n.Value
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006/01/02",
	"02.01.2006",
	"2.1.2006",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ParseDate tries the accepted date layouts; failures are the null date.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if IsNull(s) {
		return Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), int(t.Month()), t.Day())
		}
	}
	return Date{}
}
