package surface

import (
	"encoding/json"
	"io"

	"github.com/driftscope/driftscope/pkg/lineage"
	"github.com/driftscope/driftscope/pkg/review"
)

// JSONRenderer marshals the graph and summary to indented JSON.
type JSONRenderer struct{}

type jsonResult struct {
	Graph   *lineage.Graph  `json:"graph"`
	Summary *review.Summary `json:"summary"`
}

func (r *JSONRenderer) Render(w io.Writer, g *lineage.Graph, summary *review.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonResult{Graph: g, Summary: summary})
}
