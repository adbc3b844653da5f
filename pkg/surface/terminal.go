package surface

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/driftscope/driftscope/pkg/lineage"
	"github.com/driftscope/driftscope/pkg/review"
)

// TerminalRenderer renders a lineage diff as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorOrange = "\033[38;5;208m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// statusColor preserves the rendering convention shared with the web UI:
// removed=red, added=green, modified=orange, impacted=yellow.
func statusColor(status lineage.ChangeStatus) string {
	if noColor() {
		return ""
	}
	switch status {
	case lineage.StatusRemoved:
		return colorRed
	case lineage.StatusAdded:
		return colorGreen
	case lineage.StatusModified:
		return colorOrange
	case lineage.StatusImpacted:
		return colorYellow
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, g *lineage.Graph, summary *review.Summary) error {
	fmt.Fprintf(w, "%s\n\n",
		bold(fmt.Sprintf("Driftscope: Grade %s — %d direct changes, %d impacted",
			summary.Grade, summary.DirectChanges, summary.ImpactedNodes)))

	fmt.Fprintf(w, "Analyzed: %d nodes / %d edges — %d added / %d removed / %d modified nodes, %d added / %d removed edges\n\n",
		g.Stats.NodeCount, g.Stats.EdgeCount,
		g.Stats.AddedNodes, g.Stats.RemovedNodes, g.Stats.ModifiedNodes,
		g.Stats.AddedEdges, g.Stats.RemovedEdges)

	renderNodeGroup(w, g, lineage.StatusAdded, "+", "Added")
	renderNodeGroup(w, g, lineage.StatusRemoved, "-", "Removed")
	renderNodeGroup(w, g, lineage.StatusModified, "~", "Modified")
	renderNodeGroup(w, g, lineage.StatusImpacted, "!", "Impacted")

	if len(summary.Hotspots) > 0 {
		fmt.Fprintln(w, "Hotspots:")
		for _, hs := range summary.Hotspots {
			fmt.Fprintf(w, "  %s %s\n", colored("●", colorRed), bold(hs.Name))
			for _, line := range wrapText(hs.Reason, 70) {
				fmt.Fprintf(w, "    %s\n", dim(line))
			}
		}
		fmt.Fprintln(w)
	}

	if len(summary.ByResourceType) > 0 {
		fmt.Fprintln(w, "By resource type:")
		types := make([]string, 0, len(summary.ByResourceType))
		for rt := range summary.ByResourceType {
			types = append(types, rt)
		}
		sort.Strings(types)
		for _, rt := range types {
			c := summary.ByResourceType[rt]
			if c.Added+c.Removed+c.Modified+c.Impacted == 0 {
				continue
			}
			fmt.Fprintf(w, "  %-12s %s\n", rt,
				dim(fmt.Sprintf("+%d -%d ~%d !%d", c.Added, c.Removed, c.Modified, c.Impacted)))
		}
		fmt.Fprintln(w)
	}

	return nil
}

func renderNodeGroup(w io.Writer, g *lineage.Graph, status lineage.ChangeStatus, sign, label string) {
	var names []string
	for _, n := range g.Nodes {
		if n.ChangeStatus == status {
			names = append(names, n.Name)
		}
	}
	if len(names) == 0 {
		return
	}
	sort.Strings(names)

	fmt.Fprintf(w, "%s:\n", label)
	color := statusColor(status)
	maxShown := 20
	if len(names) < maxShown {
		maxShown = len(names)
	}
	for _, name := range names[:maxShown] {
		fmt.Fprintf(w, "  %s\n", colored(sign+" "+name, color))
	}
	if len(names) > maxShown {
		fmt.Fprintf(w, "  %s\n", dim(fmt.Sprintf("... and %d more", len(names)-maxShown)))
	}
	fmt.Fprintln(w)
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
