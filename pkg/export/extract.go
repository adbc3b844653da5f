package export

import (
	"encoding/json"
	"log"
	"sort"
)

// Extract reshapes one run result into a flat table. Unknown run types and
// results whose shape cannot be interpreted return nil; export is never a
// reason to fail the run that produced the result.
func Extract(runType string, result json.RawMessage, opts Options) *Table {
	switch runType {
	case RunTypeQueryDiff:
		return extractQueryDiff(result, opts)
	case RunTypeValueDiff:
		return extractValueDiff(result)
	case RunTypeProfileDiff:
		return extractProfileDiff(result, opts)
	case RunTypeRowCountDiff:
		return extractRowCountDiff(result)
	case RunTypeTopKDiff:
		return extractTopKDiff(result)
	default:
		return nil
	}
}

// pairedResult is the common {base, current} dataframe envelope used by
// query_diff and profile_diff results.
type pairedResult struct {
	Base    *DataFrame `json:"base"`
	Current *DataFrame `json:"current"`
}

func extractQueryDiff(result json.RawMessage, opts Options) *Table {
	var r pairedResult
	if err := json.Unmarshal(result, &r); err != nil || r.Base == nil || r.Current == nil {
		log.Printf("export: unusable query_diff result: %v", err)
		return nil
	}
	if opts.SideBySide {
		return mergeSideBySide(r.Base, r.Current, opts.PrimaryKeys)
	}
	return mergeInline(r.Base, r.Current, opts.PrimaryKeys)
}

// extractProfileDiff merges two per-column profile tables. Profiles are
// keyed by their first column (the column name) unless the caller overrides.
func extractProfileDiff(result json.RawMessage, opts Options) *Table {
	var r pairedResult
	if err := json.Unmarshal(result, &r); err != nil || r.Base == nil || r.Current == nil {
		log.Printf("export: unusable profile_diff result: %v", err)
		return nil
	}
	keys := opts.PrimaryKeys
	if len(keys) == 0 && len(r.Base.Columns) > 0 {
		keys = r.Base.Columns[:1]
	}
	if opts.SideBySide {
		return mergeSideBySide(r.Base, r.Current, keys)
	}
	return mergeInline(r.Base, r.Current, keys)
}

func extractValueDiff(result json.RawMessage) *Table {
	var r struct {
		Data *DataFrame `json:"data"`
	}
	if err := json.Unmarshal(result, &r); err != nil || r.Data == nil {
		log.Printf("export: unusable value_diff result: %v", err)
		return nil
	}
	return &Table{Columns: r.Data.Columns, Rows: r.Data.Data}
}

func extractRowCountDiff(result json.RawMessage) *Table {
	var counts map[string]struct {
		Base    *float64 `json:"base"`
		Current *float64 `json:"current"`
	}
	if err := json.Unmarshal(result, &counts); err != nil {
		log.Printf("export: unusable row_count_diff result: %v", err)
		return nil
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	table := &Table{Columns: []string{"name", "base", "current"}}
	for _, name := range names {
		c := counts[name]
		row := []any{name, nil, nil}
		if c.Base != nil {
			row[1] = *c.Base
		}
		if c.Current != nil {
			row[2] = *c.Current
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func extractTopKDiff(result json.RawMessage) *Table {
	var r struct {
		Values        []any     `json:"values"`
		BaseCounts    []float64 `json:"base_counts"`
		CurrentCounts []float64 `json:"current_counts"`
	}
	if err := json.Unmarshal(result, &r); err != nil || r.Values == nil {
		log.Printf("export: unusable top_k_diff result: %v", err)
		return nil
	}

	table := &Table{Columns: []string{"value", "base_count", "current_count"}}
	for i, v := range r.Values {
		row := []any{v, nil, nil}
		if i < len(r.BaseCounts) {
			row[1] = r.BaseCounts[i]
		}
		if i < len(r.CurrentCounts) {
			row[2] = r.CurrentCounts[i]
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
