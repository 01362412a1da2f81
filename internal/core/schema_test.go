package core

import (
	"reflect"
	"testing"
)

func TestNormalize_MissingAndExtraColumns(t *testing.T) {
	raw := RawTable{
		Header: []string{"First Name", "Last Name", "Age", "Badge", "Workload"},
		Rows: [][]string{
			{"Anna", "Rossi", "41", "X-1", "80%"},
		},
	}
	got := Normalize(raw)
	if got.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", got.Len())
	}
	e := got.Rows[0]
	want := Employee{
		FirstName: "Anna",
		LastName:  "Rossi",
		Age:       IntOf(41),
		Workload:  80,
	}
	if !reflect.DeepEqual(e, want) {
		t.Fatalf("Normalize = %+v, want %+v", e, want)
	}

	out := got.Raw()
	if !reflect.DeepEqual(out.Header, ColumnNames()) {
		t.Fatalf("header = %v", out.Header)
	}
	for _, h := range out.Header {
		if h == "Badge" {
			t.Fatal("extra column survived normalization")
		}
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	got := Normalize(RawTable{})
	if got.Len() != 0 {
		t.Fatalf("expected empty table, got %d rows", got.Len())
	}
	if h := got.Raw().Header; len(h) != 10 {
		t.Fatalf("expected 10 columns, got %d", len(h))
	}
}

func TestNormalize_Coercion(t *testing.T) {
	raw := RawTable{
		Header: ColumnNames(),
		Rows: [][]string{
			{"Anna", "Rossi", "NA", "abc", "", "None", "n/a", "x", "7.9", "not a date"},
			{"Luca", "Bianchi", "Ticino", "42.7", "IT", "Senior", " 90 % ", "22", "3", "2021-03-01"},
		},
	}
	got := Normalize(raw)

	first := got.Rows[0]
	if first.Residence != "" || first.Department != "" || first.Seniority != "" {
		t.Errorf("text nulls should be empty strings: %+v", first)
	}
	if first.Age.Valid {
		t.Errorf("unparseable age should be null, got %v", first.Age)
	}
	if first.Workload != 0 {
		t.Errorf("unparseable workload should be 0, got %d", first.Workload)
	}
	if first.VacationTotal.Valid {
		t.Errorf("unparseable total should be null")
	}
	if first.VacationTaken != IntOf(7) {
		t.Errorf("fraction should truncate, got %v", first.VacationTaken)
	}
	if !first.HireDate.IsEmpty() {
		t.Errorf("bad date should be null, got %v", first.HireDate)
	}

	second := got.Rows[1]
	if second.Age != IntOf(42) || second.Workload != 90 {
		t.Errorf("unexpected numbers: %+v", second)
	}
	if second.HireDate != NewDate(2021, 3, 1) {
		t.Errorf("HireDate = %v", second.HireDate)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := RawTable{
		Header: []string{"\ufeffFirst Name", "Department", "Workload", "Hire Date", "Age"},
		Rows: [][]string{
			{"Anna", "HR", "70%", "01/15/2020", ""},
			{"Luca", "NaN", "100", "2019-06-30 00:00:00", "33"},
		},
	}
	once := Normalize(raw)
	twice := Normalize(once.Raw())
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("not idempotent:\n%+v\n%+v", once, twice)
	}
	thrice := Normalize(once.Persisted())
	if !reflect.DeepEqual(once, thrice) {
		t.Fatalf("persisted form does not round-trip:\n%+v\n%+v", once, thrice)
	}
}

func TestNormalize_ShortRows(t *testing.T) {
	raw := RawTable{
		Header: ColumnNames(),
		Rows:   [][]string{{"Anna"}},
	}
	e := Normalize(raw).Rows[0]
	if e.FirstName != "Anna" || e.LastName != "" || e.Age.Valid {
		t.Fatalf("short row not padded with defaults: %+v", e)
	}
}

func TestPersisted_WorkloadPercent(t *testing.T) {
	tbl := Table{Rows: []Employee{{FirstName: "Anna", Workload: 80, Age: IntOf(30)}}}
	row := tbl.Persisted().Rows[0]
	if row[6] != "80%" {
		t.Errorf("Workload persisted as %q, want 80%%", row[6])
	}
	if row[3] != "30" || row[7] != "" || row[9] != "" {
		t.Errorf("unexpected persisted row %q", row)
	}
	if tbl.Raw().Rows[0][6] != "80" {
		t.Errorf("in-memory Workload should be bare integer")
	}
}

func TestMissingColumns(t *testing.T) {
	got := MissingColumns([]string{"First Name", "Last Name", "Age", "Residence", "Hire Date", "Workload"})
	want := []string{"Department", "Seniority Level", "Vacation Days Taken", "Vacation Days Total"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MissingColumns = %v, want %v", got, want)
	}
	if got := MissingColumns(ColumnNames()); len(got) != 0 {
		t.Fatalf("expected none missing, got %v", got)
	}
}

func TestParseDate(t *testing.T) {
	cases := map[string]Date{
		"2020-02-29":           NewDate(2020, 2, 29),
		"2020-02-29T10:00:00Z": NewDate(2020, 2, 29),
		"15.03.2018":           NewDate(2018, 3, 15),
		"3/15/2018":            NewDate(2018, 3, 15),
		"Mar 15, 2018":         NewDate(2018, 3, 15),
		"2018-13-01":           {},
		"":                     {},
	}
	for in, want := range cases {
		if got := ParseDate(in); got != want {
			t.Errorf("ParseDate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRawTable_Fingerprint(t *testing.T) {
	a := RawTable{Header: []string{"First Name"}, Rows: [][]string{{"ab"}, {"c"}}}
	b := RawTable{Header: []string{"First Name"}, Rows: [][]string{{"ab"}, {"c"}}}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("equal tables should share a fingerprint")
	}
	shifted := RawTable{Header: []string{"First Name"}, Rows: [][]string{{"a"}, {"bc"}}}
	if a.Fingerprint() == shifted.Fingerprint() {
		t.Fatal("moving characters between cells should change the fingerprint")
	}
	if a.Fingerprint() == (RawTable{Header: a.Header}).Fingerprint() {
		t.Fatal("dropping rows should change the fingerprint")
	}
}

func TestParseText(t *testing.T) {
	cases := map[string]string{
		"NaN":           "",
		" Anna ":        " Anna ",
		"line\r\nbreak": "line\nbreak",
		"lone\rreturn":  "lone\rreturn",
	}
	for in, want := range cases {
		if got := ParseText(in); got != want {
			t.Errorf("ParseText(%q) = %q, want %q", in, got, want)
		}
	}
}
