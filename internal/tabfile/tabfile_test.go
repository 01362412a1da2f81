package tabfile

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"hrtool/internal/core"
)

func sample() core.RawTable {
	return core.RawTable{
		Header: core.ColumnNames(),
		Rows: [][]string{
			{"Anna", "Rossi", "Ticino", "41", "IT", "Senior", "80%", "20", "4", "2019-05-02"},
			{"Luca", "Bianchi", "", "", "HR", "Mid", "60%", "15", "", ""},
		},
	}
}

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"people.csv":    FormatCSV,
		"PEOPLE.CSV.XZ": FormatCSVXZ,
		"book.xlsx":     FormatXLSX,
		"legacy.xls":    FormatXLS,
		"staff.dbf":     FormatDBF,
		"noext":         FormatCSV,
		"notes.txt":     Format("txt"),
	}
	for name, want := range cases {
		if got := DetectFormat(name); got != want {
			t.Errorf("DetectFormat(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestRead_Unsupported(t *testing.T) {
	_, err := Read(strings.NewReader("hello"), "notes.txt")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestReadCSV(t *testing.T) {
	in := "\xef\xbb\xbfFirst Name, Last Name ,Age\nAnna,Rossi,41\n\nLuca,Bianchi\n"
	raw, err := Read(strings.NewReader(in), "upload.csv")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(raw.Header, []string{"First Name", "Last Name", "Age"}) {
		t.Fatalf("header = %q", raw.Header)
	}
	if raw.Len() != 2 {
		t.Fatalf("rows = %d", raw.Len())
	}
	if raw.Rows[1][1] != "Bianchi" {
		t.Fatalf("ragged row = %q", raw.Rows[1])
	}
}

func TestReadCSV_Windows1252(t *testing.T) {
	in := []byte("First Name,Residence\nJos\xe9,Z\xfcrich\n")
	raw, err := ReadCSV(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if raw.Rows[0][0] != "José" || raw.Rows[0][1] != "Zürich" {
		t.Fatalf("decoded row = %q", raw.Rows[0])
	}
}

func TestReadCSV_Empty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample()); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(got, sample()) {
		t.Fatalf("round trip mismatch:\n%q\n%q", got, sample())
	}
}

func TestCSVRoundTrip_CRLFInsideCell(t *testing.T) {
	raw := sample()
	raw.Rows[0][2] = "Via Roma 1\r\nLugano"

	var buf bytes.Buffer
	if err := WriteCSV(&buf, raw); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	loaded, want := core.Normalize(got), core.Normalize(raw)
	if !reflect.DeepEqual(loaded, want) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", loaded.Rows[0], want.Rows[0])
	}
	if loaded.Rows[0].Residence != "Via Roma 1\nLugano" {
		t.Errorf("Residence = %q", loaded.Rows[0].Residence)
	}
}

func TestCSVXZRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSVXZ(&buf, sample()); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Read(&buf, "dump.csv.xz")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(core.Normalize(got), core.Normalize(sample())) {
		t.Fatalf("xz upload should normalize like plain csv")
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sample()); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Read(bytes.NewReader(buf.Bytes()), "book.xlsx")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(got.Header, core.ColumnNames()) {
		t.Fatalf("header = %q", got.Header)
	}
	if !reflect.DeepEqual(core.Normalize(got), core.Normalize(sample())) {
		t.Fatalf("xlsx upload should normalize like plain csv:\n%+v", core.Normalize(got))
	}
}

func TestDBFColumnName(t *testing.T) {
	cases := map[string]string{
		"FIRST_NAME": core.ColFirstName,
		"dept":       core.ColDepartment,
		"VAC_TAKEN":  core.ColVacationTaken,
		"HIRE_DATE":  core.ColHireDate,
		"AGE":        core.ColAge,
		"BADGE_NO":   "BADGE_NO",
	}
	for in, want := range cases {
		if got := DBFColumnName(in); got != want {
			t.Errorf("DBFColumnName(%q) = %q, want %q", in, got, want)
		}
	}
}
