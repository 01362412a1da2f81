package core

import (
	"reflect"
	"testing"
)

func sampleTable() Table {
	return Table{Rows: []Employee{
		{FirstName: "A", Department: "IT", Seniority: "Mid", Age: IntOf(30), VacationTaken: IntOf(5)},
		{FirstName: "B", Department: "IT", Seniority: "Senior", Age: IntOf(50), VacationTaken: IntOf(10)},
		{FirstName: "C", Department: "HR", Seniority: "Mid", Age: IntOf(40)},
		{FirstName: "D", Department: "", Seniority: "Senior", Age: IntOf(60), VacationTaken: IntOf(3)},
	}}
}

func TestFilter_EmptySelectionKeepsAll(t *testing.T) {
	tbl := sampleTable()
	if got := (Filter{}).Apply(tbl); got.Len() != tbl.Len() {
		t.Fatalf("empty filter kept %d of %d rows", got.Len(), tbl.Len())
	}
	// Only seniority selected: departments stay unrestricted.
	got := Filter{Seniority: []string{"Senior"}}.Apply(tbl)
	if got.Len() != 2 {
		t.Fatalf("expected 2 senior rows, got %d", got.Len())
	}
}

func TestFilter_Apply(t *testing.T) {
	got := Filter{Departments: []string{"IT"}, Seniority: []string{"Mid"}}.Apply(sampleTable())
	if got.Len() != 1 || got.Rows[0].FirstName != "A" {
		t.Fatalf("unexpected rows %+v", got.Rows)
	}
	none := Filter{Departments: []string{"Sales"}}.Apply(sampleTable())
	if none.Len() != 0 {
		t.Fatalf("expected no rows, got %d", none.Len())
	}
}

func TestFilter_Key(t *testing.T) {
	a := Filter{Departments: []string{"IT", "HR"}}
	b := Filter{Departments: []string{"HR", "IT"}}
	if a.Key() != b.Key() {
		t.Fatalf("key should not depend on order: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() == (Filter{Seniority: []string{"HR", "IT"}}).Key() {
		t.Fatal("dimensions must not collide")
	}
}

func TestOptions(t *testing.T) {
	depts, levels := Options(sampleTable())
	if !reflect.DeepEqual(depts, []string{"HR", "IT"}) {
		t.Errorf("departments = %v", depts)
	}
	if !reflect.DeepEqual(levels, []string{"Mid", "Senior"}) {
		t.Errorf("seniority = %v", levels)
	}
}

func TestAggregates_SkipEmptyDepartment(t *testing.T) {
	tbl := sampleTable()
	head := HeadcountByDepartment(tbl)
	want := []DepartmentCount{{"HR", 1}, {"IT", 2}}
	if !reflect.DeepEqual(head, want) {
		t.Fatalf("headcount = %v, want %v", head, want)
	}
	vac := VacationTakenByDepartment(tbl)
	wantVac := []DepartmentCount{{"HR", 0}, {"IT", 15}}
	if !reflect.DeepEqual(vac, wantVac) {
		t.Fatalf("vacation = %v, want %v", vac, wantVac)
	}
	ages := AgesByDepartment(tbl)
	if len(ages) != 2 || !reflect.DeepEqual(ages[1].Ages, []int{30, 50}) {
		t.Fatalf("ages = %+v", ages)
	}
}
