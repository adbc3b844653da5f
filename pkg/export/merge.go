package export

import (
	"fmt"
	"strings"

	"github.com/driftscope/driftscope/pkg/schemadiff"
)

// mergeInline joins two row sets on the primary key (or row position when no
// key is given) and emits one row per key. Cells equal on both sides pass
// through unchanged; cells that differ render as "(base) (current)". A row
// present on only one side keeps that side's values, with nil in columns the
// other side owns exclusively.
func mergeInline(base, current *DataFrame, primaryKeys []string) *Table {
	columns, _ := schemadiff.ClassifyKeys(base.Columns, current.Columns)

	basePos := columnPositions(base.Columns)
	currentPos := columnPositions(current.Columns)

	baseRows, baseOrder := indexRows(base, primaryKeys)
	currentRows, currentOrder := indexRows(current, primaryKeys)

	keySet := make(map[string]bool, len(primaryKeys))
	for _, k := range primaryKeys {
		keySet[k] = true
	}

	table := &Table{Columns: columns}
	appendRow := func(key string) {
		baseRow := baseRows[key]
		currentRow := currentRows[key]
		out := make([]any, len(columns))
		for i, col := range columns {
			bv, inBase := cellAt(baseRow, basePos, col)
			cv, inCurrent := cellAt(currentRow, currentPos, col)
			switch {
			case keySet[col], inBase && inCurrent && valueEqual(bv, cv):
				if inCurrent {
					out[i] = cv
				} else {
					out[i] = bv
				}
			case inBase && inCurrent:
				out[i] = fmt.Sprintf("(%s) (%s)", formatCell(bv), formatCell(cv))
			case inBase:
				out[i] = bv
			case inCurrent:
				out[i] = cv
			}
		}
		table.Rows = append(table.Rows, out)
	}

	seen := make(map[string]bool, len(baseOrder))
	for _, key := range baseOrder {
		seen[key] = true
		appendRow(key)
	}
	for _, key := range currentOrder {
		if !seen[key] {
			appendRow(key)
		}
	}

	return table
}

// mergeSideBySide emits the key columns once, then a base__x / current__x
// pair for every other column in the union.
func mergeSideBySide(base, current *DataFrame, primaryKeys []string) *Table {
	union, _ := schemadiff.ClassifyKeys(base.Columns, current.Columns)

	keySet := make(map[string]bool, len(primaryKeys))
	for _, k := range primaryKeys {
		keySet[k] = true
	}

	var columns []string
	columns = append(columns, primaryKeys...)
	var valueCols []string
	for _, col := range union {
		if !keySet[col] {
			valueCols = append(valueCols, col)
			columns = append(columns, "base__"+col, "current__"+col)
		}
	}

	basePos := columnPositions(base.Columns)
	currentPos := columnPositions(current.Columns)
	baseRows, baseOrder := indexRows(base, primaryKeys)
	currentRows, currentOrder := indexRows(current, primaryKeys)

	table := &Table{Columns: columns}
	appendRow := func(key string) {
		baseRow := baseRows[key]
		currentRow := currentRows[key]
		out := make([]any, 0, len(columns))
		for _, k := range primaryKeys {
			if v, ok := cellAt(currentRow, currentPos, k); ok {
				out = append(out, v)
			} else {
				v, _ := cellAt(baseRow, basePos, k)
				out = append(out, v)
			}
		}
		for _, col := range valueCols {
			bv, _ := cellAt(baseRow, basePos, col)
			cv, _ := cellAt(currentRow, currentPos, col)
			out = append(out, bv, cv)
		}
		table.Rows = append(table.Rows, out)
	}

	seen := make(map[string]bool, len(baseOrder))
	for _, key := range baseOrder {
		seen[key] = true
		appendRow(key)
	}
	for _, key := range currentOrder {
		if !seen[key] {
			appendRow(key)
		}
	}

	return table
}

// indexRows maps each row to its join key and preserves first-seen key order.
// With no primary keys the row's position is the key. Duplicate keys keep the
// last row, matching a keyed overwrite.
func indexRows(df *DataFrame, primaryKeys []string) (map[string][]any, []string) {
	pos := columnPositions(df.Columns)
	rows := make(map[string][]any, len(df.Data))
	var order []string

	for i, row := range df.Data {
		key := fmt.Sprintf("#%d", i)
		if len(primaryKeys) > 0 {
			parts := make([]string, len(primaryKeys))
			for j, k := range primaryKeys {
				v, _ := cellAt(row, pos, k)
				parts[j] = formatCell(v)
			}
			key = strings.Join(parts, "\x00")
		}
		if _, ok := rows[key]; !ok {
			order = append(order, key)
		}
		rows[key] = row
	}
	return rows, order
}

func columnPositions(columns []string) map[string]int {
	pos := make(map[string]int, len(columns))
	for i, c := range columns {
		pos[c] = i
	}
	return pos
}

func cellAt(row []any, pos map[string]int, col string) (any, bool) {
	if row == nil {
		return nil, false
	}
	i, ok := pos[col]
	if !ok || i >= len(row) {
		return nil, false
	}
	return row[i], true
}

// valueEqual compares two decoded JSON cells. Numeric values arrive as
// float64 from encoding/json, so direct comparison is sufficient; everything
// else falls back to formatted comparison.
func valueEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a == b {
		return true
	}
	return formatCell(a) == formatCell(b)
}

func formatCell(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%v", v)
}
