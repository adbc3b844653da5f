package surface

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/driftscope/driftscope/pkg/lineage"
	"github.com/driftscope/driftscope/pkg/review"
)

// MarkdownRenderer produces the markdown digest posted as a PR comment by CI
// integrations.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, g *lineage.Graph, summary *review.Summary) error {
	_, err := io.WriteString(w, BuildMarkdownSummary(g, summary))
	return err
}

// BuildMarkdownSummary renders the digest as a markdown string.
func BuildMarkdownSummary(g *lineage.Graph, summary *review.Summary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Driftscope: Grade %s — %d direct changes, %d impacted\n\n",
		summary.Grade, summary.DirectChanges, summary.ImpactedNodes))

	sb.WriteString("### Lineage Diff\n\n")
	sb.WriteString("| Change | Count |\n|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Added Nodes | %d |\n", g.Stats.AddedNodes))
	sb.WriteString(fmt.Sprintf("| Removed Nodes | %d |\n", g.Stats.RemovedNodes))
	sb.WriteString(fmt.Sprintf("| Modified Nodes | %d |\n", g.Stats.ModifiedNodes))
	sb.WriteString(fmt.Sprintf("| Impacted Nodes | %d |\n", g.Stats.ImpactedNodes))
	sb.WriteString(fmt.Sprintf("| Added Edges | %d |\n", g.Stats.AddedEdges))
	sb.WriteString(fmt.Sprintf("| Removed Edges | %d |\n", g.Stats.RemovedEdges))
	sb.WriteString("\n")

	if len(summary.Hotspots) > 0 {
		sb.WriteString("### Hotspots\n\n")
		for _, hs := range summary.Hotspots {
			sb.WriteString(fmt.Sprintf("- **%s** — %s\n", hs.Name, hs.Reason))
		}
		sb.WriteString("\n")
	}

	if len(summary.ByResourceType) > 0 {
		types := make([]string, 0, len(summary.ByResourceType))
		for rt := range summary.ByResourceType {
			types = append(types, rt)
		}
		sort.Strings(types)

		sb.WriteString("### By Resource Type\n\n")
		sb.WriteString("| Type | Added | Removed | Modified | Impacted |\n|------|-------|---------|----------|----------|\n")
		for _, rt := range types {
			c := summary.ByResourceType[rt]
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d |\n",
				rt, c.Added, c.Removed, c.Modified, c.Impacted))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
