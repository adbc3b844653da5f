// Package export reshapes diff run results into flat tabular data for CSV
// download. Export is best-effort: a result the package cannot interpret
// yields a nil table and a logged diagnostic, never an error to the caller.
package export

// Table is flat tabular output ready for CSV encoding.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// DataFrame is the wire shape of tabular data inside run results: column
// names plus row-major data.
type DataFrame struct {
	Columns []string `json:"columns"`
	Data    [][]any  `json:"data"`
}

// Options controls how a run result is reshaped.
type Options struct {
	// PrimaryKeys names the join-key columns for merging base and current
	// rows. Empty means rows are joined by position.
	PrimaryKeys []string
	// SideBySide emits base__x / current__x column pairs instead of the
	// inline combined-marker cells.
	SideBySide bool
}

// Run type identifiers understood by Extract.
const (
	RunTypeQueryDiff    = "query_diff"
	RunTypeValueDiff    = "value_diff"
	RunTypeProfileDiff  = "profile_diff"
	RunTypeRowCountDiff = "row_count_diff"
	RunTypeTopKDiff     = "top_k_diff"
)
