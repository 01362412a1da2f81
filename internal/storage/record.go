// Package storage persists the dataset in SQL databases: SQLite through
// database/sql with embedded migrations, MySQL through GORM.
package storage

import (
	"database/sql"

	"hrtool/internal/core"
)

// Record is one employee row as stored in SQL. Position keeps the dataset
// order since rows have no other identity.
type Record struct {
	Position          int            `gorm:"primaryKey;autoIncrement:false"`
	FirstName         string         `gorm:"size:255;not null;default:''"`
	LastName          string         `gorm:"size:255;not null;default:''"`
	Residence         string         `gorm:"size:255;not null;default:''"`
	Age               sql.NullInt64  `gorm:"column:age"`
	Department        string         `gorm:"size:64;not null;default:'';index"`
	SeniorityLevel    string         `gorm:"size:64;not null;default:''"`
	Workload          int            `gorm:"not null;default:0"`
	VacationDaysTotal sql.NullInt64  `gorm:"column:vacation_days_total"`
	VacationDaysTaken sql.NullInt64  `gorm:"column:vacation_days_taken"`
	HireDate          sql.NullString `gorm:"size:10"`
}

// TableName keeps the GORM table aligned with the SQLite schema.
func (Record) TableName() string {
	return "employees"
}

// recordsFromRaw normalizes the persisted form into SQL rows.
func recordsFromRaw(raw core.RawTable) []Record {
	table := core.Normalize(raw)
	out := make([]Record, len(table.Rows))
	for i, e := range table.Rows {
		out[i] = Record{
			Position:          i + 1,
			FirstName:         e.FirstName,
			LastName:          e.LastName,
			Residence:         e.Residence,
			Age:               nullInt(e.Age),
			Department:        e.Department,
			SeniorityLevel:    e.Seniority,
			Workload:          e.Workload,
			VacationDaysTotal: nullInt(e.VacationTotal),
			VacationDaysTaken: nullInt(e.VacationTaken),
			HireDate:          sql.NullString{String: e.HireDate.String(), Valid: !e.HireDate.IsEmpty()},
		}
	}
	return out
}

// rawFromRecords renders SQL rows back into the persisted form.
func rawFromRecords(records []Record) core.RawTable {
	table := core.Table{Rows: make([]core.Employee, len(records))}
	for i, r := range records {
		table.Rows[i] = core.Employee{
			FirstName:     r.FirstName,
			LastName:      r.LastName,
			Residence:     r.Residence,
			Age:           fromNullInt(r.Age),
			Department:    r.Department,
			Seniority:     r.SeniorityLevel,
			Workload:      r.Workload,
			VacationTotal: fromNullInt(r.VacationDaysTotal),
			VacationTaken: fromNullInt(r.VacationDaysTaken),
			HireDate:      core.ParseDate(r.HireDate.String),
		}
	}
	return table.Persisted()
}

func nullInt(n core.NullInt) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n.Value), Valid: n.Valid}
}

func fromNullInt(n sql.NullInt64) core.NullInt {
	if !n.Valid {
		return core.NullInt{}
	}
	return core.IntOf(int(n.Int64))
}
