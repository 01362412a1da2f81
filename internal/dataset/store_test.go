package dataset_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"hrtool/internal/core"
	"hrtool/internal/dataset"
	"hrtool/internal/dataset/memory"
)

type failingBackend struct{ err error }

func (f failingBackend) Read(context.Context) (core.RawTable, error) { return core.RawTable{}, f.err }
func (f failingBackend) Write(context.Context, core.RawTable) error  { return f.err }

func TestStore_LoadEmpty(t *testing.T) {
	s := dataset.NewStore(memory.New())
	tbl, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Len() != 0 {
		t.Fatalf("expected empty table, got %d rows", tbl.Len())
	}
	if h := tbl.Raw().Header; !reflect.DeepEqual(h, core.ColumnNames()) {
		t.Fatalf("header = %v", h)
	}
}

func TestStore_SaveWritesPersistedForm(t *testing.T) {
	backend := memory.New()
	s := dataset.NewStore(backend)
	raw := core.RawTable{
		Header: []string{"Last Name", "First Name", "Workload", "Extra"},
		Rows:   [][]string{{"Rossi", "Anna", "80", "x"}},
	}
	if _, err := s.Save(context.Background(), raw); err != nil {
		t.Fatalf("save: %v", err)
	}

	stored, _ := backend.Read(context.Background())
	if !reflect.DeepEqual(stored.Header, core.ColumnNames()) {
		t.Fatalf("stored header = %v", stored.Header)
	}
	row := stored.Rows[0]
	if row[0] != "Anna" || row[1] != "Rossi" || row[6] != "80%" {
		t.Fatalf("stored row = %q", row)
	}

	loaded, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Rows[0].Workload != 80 {
		t.Fatalf("workload should load back as 80, got %d", loaded.Rows[0].Workload)
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := dataset.NewStore(memory.New())
	ctx := context.Background()
	two := core.RawTable{Header: []string{"First Name"}, Rows: [][]string{{"A"}, {"B"}}}
	one := core.RawTable{Header: []string{"First Name"}, Rows: [][]string{{"C"}}}
	if _, err := s.Save(ctx, two); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(ctx, one); err != nil {
		t.Fatal(err)
	}
	tbl, _ := s.Load(ctx)
	if tbl.Len() != 1 || tbl.Rows[0].FirstName != "C" {
		t.Fatalf("save must replace content, got %+v", tbl.Rows)
	}
}

func TestStore_AppendKeepsVacationTotal(t *testing.T) {
	s := dataset.NewStore(memory.New())
	ctx := context.Background()

	e := core.Employee{FirstName: "Anna", LastName: "Rossi", Workload: 90, VacationTotal: core.IntOf(30)}
	tbl, err := s.Append(ctx, e)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	tbl, err = s.Append(ctx, core.Employee{FirstName: "Luca", LastName: "Bianchi"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	if tbl.Rows[0].VacationTotal != core.IntOf(30) {
		t.Fatalf("vacation total recomputed: %v", tbl.Rows[0].VacationTotal)
	}
	if tbl.Rows[1].VacationTotal.Valid {
		t.Fatalf("missing total should stay null")
	}
}

func TestStore_BackendErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	s := dataset.NewStore(failingBackend{err: boom})
	if _, err := s.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
	if err := s.Ping(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("ping should surface backend error, got %v", err)
	}

	notFound := dataset.NewStore(failingBackend{err: dataset.ErrNotFound})
	if err := notFound.Ping(context.Background()); err != nil {
		t.Fatalf("missing dataset is healthy, got %v", err)
	}
}
