// Package tabfile reads uploaded spreadsheets and delimited files into raw
// tables, and writes raw tables back out for export.
package tabfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"hrtool/internal/core"
)

// Format is a supported tabular file format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatCSVXZ Format = "csv.xz"
	FormatXLSX  Format = "xlsx"
	FormatXLS   Format = "xls"
	FormatDBF   Format = "dbf"
)

var (
	ErrEmpty       = errors.New("file contains no header row")
	ErrUnsupported = errors.New("unsupported file format")
)

// Extensions lists the accepted upload extensions.
var Extensions = []string{".csv", ".csv.xz", ".xlsx", ".xls", ".dbf"}

// DetectFormat picks a format from the file name. Names without an extension
// are CSV; any other extension comes back as-is and Read rejects it.
func DetectFormat(filename string) Format {
	name := strings.ToLower(strings.TrimSpace(filename))
	switch {
	case strings.HasSuffix(name, ".xz"):
		return FormatCSVXZ
	case strings.HasSuffix(name, ".xlsx"), strings.HasSuffix(name, ".xlsm"):
		return FormatXLSX
	case strings.HasSuffix(name, ".xls"):
		return FormatXLS
	case strings.HasSuffix(name, ".dbf"):
		return FormatDBF
	}
	if ext := filepath.Ext(name); ext != "" && ext != ".csv" {
		return Format(strings.TrimPrefix(ext, "."))
	}
	return FormatCSV
}

// Read decodes r according to the format implied by filename.
func Read(r io.Reader, filename string) (core.RawTable, error) {
	format := DetectFormat(filename)
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatCSVXZ:
		return ReadCSVXZ(r)
	}

	// Spreadsheet and dBase readers need random access.
	data, err := io.ReadAll(r)
	if err != nil {
		return core.RawTable{}, fmt.Errorf("read %s: %w", filepath.Base(filename), err)
	}
	switch format {
	case FormatXLSX:
		return ReadXLSX(bytes.NewReader(data))
	case FormatXLS:
		return ReadXLS(bytes.NewReader(data))
	case FormatDBF:
		return ReadDBF(data)
	}
	return core.RawTable{}, fmt.Errorf("%w: %s", ErrUnsupported, format)
}

// fromRecords splits the first record off as the header.
func fromRecords(records [][]string) (core.RawTable, error) {
	if len(records) == 0 {
		return core.RawTable{}, ErrEmpty
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		rows = append(rows, rec)
	}
	return core.RawTable{Header: header, Rows: rows}, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
