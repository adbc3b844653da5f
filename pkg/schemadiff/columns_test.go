package schemadiff

import (
	"testing"

	"github.com/driftscope/driftscope/pkg/manifest"
)

func TestMergeColumns_ReorderIndependentOfTypeChange(t *testing.T) {
	base := []manifest.Column{
		{Name: "id", Type: "int"},
		{Name: "user_id", Type: "int"},
		{Name: "name", Type: "text"},
		{Name: "age", Type: "int"},
	}
	current := []manifest.Column{
		{Name: "id", Type: "int"},
		{Name: "fullname", Type: "text"},
		{Name: "lastname", Type: "text"},
		{Name: "age", Type: "decimal"}, // type changed, position kept
		{Name: "name", Type: "text"},   // moved to the end
	}

	diff := MergeColumns(base, current)
	if diff == nil {
		t.Fatal("MergeColumns returned nil")
	}

	name := diff.Columns["name"]
	if !name.Reordered {
		t.Error("name.Reordered = false, want true")
	}
	if name.BaseIndex != 3 || name.CurrentIndex != 5 {
		t.Errorf("name indices = %d, %d, want 3 and 5", name.BaseIndex, name.CurrentIndex)
	}

	age := diff.Columns["age"]
	if age.Reordered {
		t.Error("age.Reordered = true, want false (type change is not a reorder)")
	}
	if age.BaseIndex != 4 || age.CurrentIndex != 4 {
		t.Errorf("age indices = %d, %d, want 4 and 4", age.BaseIndex, age.CurrentIndex)
	}
	if age.BaseType != "int" || age.CurrentType != "decimal" {
		t.Errorf("age types = %q -> %q, want int -> decimal", age.BaseType, age.CurrentType)
	}
}

func TestMergeColumns_AddedRemovedNotReordered(t *testing.T) {
	base := []manifest.Column{{Name: "a"}, {Name: "b"}}
	current := []manifest.Column{{Name: "b"}, {Name: "c"}}

	diff := MergeColumns(base, current)

	a := diff.Columns["a"]
	if a.Reordered || a.CurrentIndex != 0 || a.BaseIndex != 1 {
		t.Errorf("a = %+v, want removed at base index 1, not reordered", a)
	}
	c := diff.Columns["c"]
	if c.Reordered || c.BaseIndex != 0 || c.CurrentIndex != 2 {
		t.Errorf("c = %+v, want added at current index 2, not reordered", c)
	}
}

func TestMergeColumns_NilMeansNoSchema(t *testing.T) {
	cols := []manifest.Column{{Name: "id"}}

	if MergeColumns(nil, cols) != nil {
		t.Error("MergeColumns(nil, cols) should be nil")
	}
	if MergeColumns(cols, nil) != nil {
		t.Error("MergeColumns(cols, nil) should be nil")
	}

	// An empty non-nil schema is valid and diffs normally.
	diff := MergeColumns([]manifest.Column{}, cols)
	if diff == nil {
		t.Fatal("MergeColumns(empty, cols) should not be nil")
	}
	if diff.Columns["id"].CurrentIndex != 1 || diff.Columns["id"].BaseIndex != 0 {
		t.Errorf("id = %+v, want added at current index 1", diff.Columns["id"])
	}
}

func TestMergeColumns_OrderPreserved(t *testing.T) {
	base := []manifest.Column{{Name: "x"}, {Name: "y"}}
	current := []manifest.Column{{Name: "y"}, {Name: "z"}, {Name: "w"}}

	diff := MergeColumns(base, current)

	want := []string{"x", "y", "z", "w"}
	if len(diff.Order) != len(want) {
		t.Fatalf("Order = %v, want %v", diff.Order, want)
	}
	for i, k := range want {
		if diff.Order[i] != k {
			t.Errorf("Order[%d] = %q, want %q", i, diff.Order[i], k)
		}
	}
}
