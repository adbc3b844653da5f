package schemadiff

import "github.com/driftscope/driftscope/pkg/manifest"

// ColumnDiff is the unified record for one column name seen on either side.
// Indices are 1-based positions in the original schemas; 0 means the column
// is absent from that side.
type ColumnDiff struct {
	Name         string `json:"name"`
	Reordered    bool   `json:"reordered"`
	BaseIndex    int    `json:"base_index,omitempty"`
	BaseType     string `json:"base_type,omitempty"`
	CurrentIndex int    `json:"current_index,omitempty"`
	CurrentType  string `json:"current_type,omitempty"`
}

// ColumnDiffSet holds per-column diff records with a deterministic order:
// base columns in base order, then current-only columns in current order.
type ColumnDiffSet struct {
	Order   []string               `json:"order"`
	Columns map[string]*ColumnDiff `json:"columns"`
}

// MergeColumns aligns two column schemas into a unified diff.
//
// A nil slice means "no schema info available" for that side and yields a nil
// result; an empty non-nil slice is a valid empty schema. The reordered flag
// is only meaningful for columns present on both sides; added and removed
// columns always carry reordered=false.
func MergeColumns(base, current []manifest.Column) *ColumnDiffSet {
	if base == nil || current == nil {
		return nil
	}

	baseKeys := make([]string, len(base))
	for i, c := range base {
		baseKeys[i] = c.Name
	}
	currentKeys := make([]string, len(current))
	for i, c := range current {
		currentKeys[i] = c.Name
	}

	order, status := ClassifyKeys(baseKeys, currentKeys)

	set := &ColumnDiffSet{
		Order:   order,
		Columns: make(map[string]*ColumnDiff, len(order)),
	}
	for _, name := range order {
		set.Columns[name] = &ColumnDiff{
			Name:      name,
			Reordered: status[name] == KeyReordered,
		}
	}

	for i, c := range base {
		rec := set.Columns[c.Name]
		rec.BaseIndex = i + 1
		rec.BaseType = c.Type
	}
	for i, c := range current {
		rec := set.Columns[c.Name]
		rec.CurrentIndex = i + 1
		rec.CurrentType = c.Type
	}

	return set
}
