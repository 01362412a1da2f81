package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"hrtool/internal/core"
	"hrtool/internal/dataset"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ dataset.Backend = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := MigrateSQLite(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("SQLite schema ready", "path", dbPath, "version", version)

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const selectEmployees = `SELECT position, first_name, last_name, residence, age, department,
	seniority_level, workload, vacation_days_total, vacation_days_taken, hire_date
	FROM employees ORDER BY position`

const insertEmployee = `INSERT INTO employees (position, first_name, last_name, residence, age,
	department, seniority_level, workload, vacation_days_total, vacation_days_taken, hire_date)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Read implements dataset.Backend. A dataset that was never saved reads as
// dataset.ErrNotFound.
func (r *SQLiteRepository) Read(ctx context.Context) (core.RawTable, error) {
	var saved int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dataset_meta`).Scan(&saved); err != nil {
		return core.RawTable{}, fmt.Errorf("read dataset meta: %w", err)
	}
	if saved == 0 {
		return core.RawTable{}, dataset.ErrNotFound
	}

	rows, err := r.db.QueryContext(ctx, selectEmployees)
	if err != nil {
		return core.RawTable{}, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Position, &rec.FirstName, &rec.LastName, &rec.Residence, &rec.Age,
			&rec.Department, &rec.SeniorityLevel, &rec.Workload, &rec.VacationDaysTotal,
			&rec.VacationDaysTaken, &rec.HireDate); err != nil {
			return core.RawTable{}, fmt.Errorf("scan employee: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return core.RawTable{}, fmt.Errorf("iterate employees: %w", err)
	}
	return rawFromRecords(records), nil
}

// Write implements dataset.Backend by replacing every row in one transaction.
func (r *SQLiteRepository) Write(ctx context.Context, raw core.RawTable) error {
	records := recordsFromRaw(raw)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM employees`); err != nil {
		return fmt.Errorf("clear employees: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertEmployee)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Position, rec.FirstName, rec.LastName, rec.Residence,
			rec.Age, rec.Department, rec.SeniorityLevel, rec.Workload, rec.VacationDaysTotal,
			rec.VacationDaysTaken, rec.HireDate); err != nil {
			return fmt.Errorf("insert employee %d: %w", rec.Position, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO dataset_meta (id, row_count, saved_at)
		VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET row_count = excluded.row_count, saved_at = excluded.saved_at`,
		len(records)); err != nil {
		return fmt.Errorf("update dataset meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Dataset saved to SQLite", "rows", len(records))
	return nil
}
