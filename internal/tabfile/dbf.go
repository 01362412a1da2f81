package tabfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Valentin-Kaiser/go-dbase/dbase"

	"hrtool/internal/core"
)

// dBase field names are limited to ten characters, so exports from legacy
// HR systems carry abbreviated headers.
var dbfAliases = map[string]string{
	"FIRSTNAME":  core.ColFirstName,
	"FNAME":      core.ColFirstName,
	"LASTNAME":   core.ColLastName,
	"LNAME":      core.ColLastName,
	"RESIDENCE":  core.ColResidence,
	"CANTON":     core.ColResidence,
	"AGE":        core.ColAge,
	"DEPARTMENT": core.ColDepartment,
	"DEPT":       core.ColDepartment,
	"SENIORITY":  core.ColSeniority,
	"SENLEVEL":   core.ColSeniority,
	"WORKLOAD":   core.ColWorkload,
	"VACTOTAL":   core.ColVacationTotal,
	"VACDAYSTOT": core.ColVacationTotal,
	"VACTAKEN":   core.ColVacationTaken,
	"VACDAYSTAK": core.ColVacationTaken,
	"HIREDATE":   core.ColHireDate,
}

// DBFColumnName maps a dBase field name onto the dataset column it stands
// for. Unknown names are returned unchanged.
func DBFColumnName(field string) string {
	key := strings.ToUpper(strings.NewReplacer("_", "", " ", "").Replace(strings.TrimSpace(field)))
	if name, ok := dbfAliases[key]; ok {
		return name
	}
	for _, c := range core.ColumnNames() {
		if strings.ToUpper(strings.ReplaceAll(c, " ", "")) == key {
			return c
		}
	}
	return field
}

// ReadDBF reads every live record of a dBase table. The table is staged in a
// temporary file because the dbase package opens tables by name.
func ReadDBF(data []byte) (core.RawTable, error) {
	tmp, err := os.CreateTemp("", "hrtool-*.dbf")
	if err != nil {
		return core.RawTable{}, fmt.Errorf("stage dbf: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return core.RawTable{}, fmt.Errorf("stage dbf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return core.RawTable{}, fmt.Errorf("stage dbf: %w", err)
	}

	table, err := dbase.OpenTable(&dbase.Config{
		Filename:   tmp.Name(),
		TrimSpaces: true,
		ReadOnly:   true,
		Untested:   true,
	})
	if err != nil {
		return core.RawTable{}, fmt.Errorf("open dbf: %w", err)
	}
	defer func() { _ = table.Close() }()

	columns := table.Columns()
	if len(columns) == 0 {
		return core.RawTable{}, ErrEmpty
	}
	fields := make([]string, len(columns))
	header := make([]string, len(columns))
	for i, col := range columns {
		fields[i] = col.Name()
		header[i] = DBFColumnName(col.Name())
	}

	var rows [][]string
	for !table.EOF() {
		row, err := table.Next()
		if err != nil {
			return core.RawTable{}, fmt.Errorf("read dbf record: %w", err)
		}
		if row.Deleted {
			continue
		}
		values, err := row.ToMap()
		if err != nil {
			return core.RawTable{}, fmt.Errorf("decode dbf record: %w", err)
		}
		cells := make([]string, len(fields))
		for i, f := range fields {
			cells[i] = dbfValue(values[f])
		}
		rows = append(rows, cells)
	}
	return core.RawTable{Header: header, Rows: rows}, nil
}

func dbfValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case []byte:
		return strings.TrimSpace(string(val))
	default:
		return fmt.Sprint(val)
	}
}
