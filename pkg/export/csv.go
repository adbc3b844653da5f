package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV encodes a table as CSV. Nil cells are written as empty fields.
func WriteCSV(w io.Writer, table *Table) error {
	if table == nil {
		return fmt.Errorf("nil table")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) && row[i] != nil {
				record[i] = formatCell(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
