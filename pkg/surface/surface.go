// Package surface defines output rendering for Driftscope diff results.
// Implementations handle different output targets: terminal, markdown, JSON.
package surface

import (
	"io"

	"github.com/driftscope/driftscope/pkg/lineage"
	"github.com/driftscope/driftscope/pkg/review"
)

// Renderer produces formatted output from a diffed graph and its review summary.
type Renderer interface {
	Render(w io.Writer, g *lineage.Graph, summary *review.Summary) error
}
