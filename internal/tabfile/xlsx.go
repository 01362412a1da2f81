package tabfile

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"hrtool/internal/core"
)

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "Employees"

// ReadXLSX reads the first worksheet of an Office Open XML workbook. Cells are
// taken as displayed, except Hire Date serials which become ISO dates.
func ReadXLSX(r io.Reader) (core.RawTable, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return core.RawTable{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return core.RawTable{}, fmt.Errorf("open xlsx: no worksheet found")
	}
	rows, err := file.GetRows(sheet)
	if err != nil {
		return core.RawTable{}, fmt.Errorf("read worksheet %q: %w", sheet, err)
	}
	if len(rows) > 0 {
		if col := indexOf(rows[0], core.ColHireDate); col >= 0 {
			if values, err := file.GetRows(sheet, excelize.Options{RawCellValue: true}); err == nil {
				fixSerialDates(rows, values, col)
			}
		}
	}
	return fromRecords(rows)
}

// fixSerialDates rewrites date cells whose raw value is an Excel date serial.
// rows and values are the displayed and raw reads of the same sheet.
func fixSerialDates(rows, values [][]string, col int) {
	for i := 1; i < len(rows) && i < len(values); i++ {
		if col >= len(rows[i]) || col >= len(values[i]) {
			continue
		}
		serial, err := strconv.ParseFloat(strings.TrimSpace(values[i][col]), 64)
		if err != nil {
			continue
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			continue
		}
		rows[i][col] = t.Format("2006-01-02")
	}
}

// WriteXLSX writes the table to a single worksheet workbook.
func WriteXLSX(w io.Writer, raw core.RawTable) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name worksheet: %w", err)
	}
	write := func(rowNum int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
		}
		return f.SetSheetRow(SheetName, cell, &row)
	}
	if err := write(1, raw.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, values := range raw.Rows {
		if err := write(i+2, values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// ReadXLS reads the first worksheet of a legacy BIFF workbook.
func ReadXLS(r io.ReadSeeker) (core.RawTable, error) {
	workbook, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return core.RawTable{}, fmt.Errorf("open xls: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return core.RawTable{}, fmt.Errorf("open xls: no worksheet found")
	}
	return fromRecords(workbook.ReadAllCells(100000))
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}
