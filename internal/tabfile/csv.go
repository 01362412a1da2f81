package tabfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/ulikunitz/xz"
	"golang.org/x/text/encoding/charmap"

	"hrtool/internal/core"
)

// ReadCSV reads a comma separated file with a header row. Input that is not
// valid UTF-8 is decoded as Windows-1252, the usual spreadsheet export
// encoding.
func ReadCSV(r io.Reader) (core.RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.RawTable{}, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return core.RawTable{}, fmt.Errorf("decode csv: %w", err)
		}
		data = decoded
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return core.RawTable{}, fmt.Errorf("parse csv: %w", err)
	}
	return fromRecords(records)
}

// ReadCSVXZ reads an xz-compressed CSV file.
func ReadCSVXZ(r io.Reader) (core.RawTable, error) {
	zr, err := xz.NewReader(r)
	if err != nil {
		return core.RawTable{}, fmt.Errorf("open xz stream: %w", err)
	}
	return ReadCSV(zr)
}

// WriteCSV writes the header followed by every row.
func WriteCSV(w io.Writer, raw core.RawTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(raw.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(raw.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// WriteCSVXZ writes an xz-compressed CSV file.
func WriteCSVXZ(w io.Writer, raw core.RawTable) error {
	zw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("open xz writer: %w", err)
	}
	if err := WriteCSV(zw, raw); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}
