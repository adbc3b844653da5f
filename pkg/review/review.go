// Package review summarizes a lineage diff for human reviewers: how much of
// the downstream graph a change touches, which changed nodes carry the most
// impact, and where the churn concentrates.
package review

import (
	"fmt"
	"sort"

	"github.com/driftscope/driftscope/pkg/lineage"
)

// Summary is the complete reviewer-facing digest of one lineage diff.
// Immutable once computed.
type Summary struct {
	Grade           string           `json:"grade"` // A, B, C, D, F
	DirectChanges   int              `json:"direct_changes"`
	ImpactedNodes   int              `json:"impacted_nodes"`
	ImpactRatio     float64          `json:"impact_ratio"` // impacted / total
	Hotspots        []Hotspot        `json:"hotspots"`
	ByResourceType  map[string]Churn `json:"by_resource_type"`
	BaseSnapshot    string           `json:"base_snapshot,omitempty"`
	CurrentSnapshot string           `json:"current_snapshot,omitempty"`
}

// Hotspot is a directly-changed node ranked by its downstream reach.
type Hotspot struct {
	NodeID     string `json:"node_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Downstream int    `json:"downstream"` // descendants, the node excluded
	Reason     string `json:"reason"`
}

// Churn counts changes per resource type.
type Churn struct {
	Added    int `json:"added,omitempty"`
	Removed  int `json:"removed,omitempty"`
	Modified int `json:"modified,omitempty"`
	Impacted int `json:"impacted,omitempty"`
}

// Summarize digests a computed lineage graph.
func Summarize(g *lineage.Graph) *Summary {
	s := &Summary{
		BaseSnapshot:    g.BaseSnapshotID,
		CurrentSnapshot: g.CurrentSnapshotID,
		ByResourceType:  make(map[string]Churn),
	}

	var changed []*lineage.Node
	for _, n := range g.Nodes {
		rt := n.ResourceType
		if rt == "" {
			rt = "external"
		}
		churn := s.ByResourceType[rt]
		switch n.ChangeStatus {
		case lineage.StatusAdded:
			churn.Added++
			changed = append(changed, n)
		case lineage.StatusRemoved:
			churn.Removed++
			changed = append(changed, n)
		case lineage.StatusModified:
			churn.Modified++
			changed = append(changed, n)
		case lineage.StatusImpacted:
			churn.Impacted++
			s.ImpactedNodes++
		}
		s.ByResourceType[rt] = churn
	}
	s.DirectChanges = len(changed)

	if len(g.Nodes) > 0 {
		s.ImpactRatio = float64(s.DirectChanges+s.ImpactedNodes) / float64(len(g.Nodes))
	}
	s.Grade = gradeFromRatio(s.ImpactRatio)

	for _, n := range changed {
		downstream := len(g.Descendants(n.ID)) - 1
		s.Hotspots = append(s.Hotspots, Hotspot{
			NodeID:     n.ID,
			Name:       n.Name,
			Status:     string(n.ChangeStatus),
			Downstream: downstream,
			Reason:     fmt.Sprintf("%s node with %d downstream consumers", n.ChangeStatus, downstream),
		})
	}
	sort.Slice(s.Hotspots, func(i, j int) bool {
		if s.Hotspots[i].Downstream != s.Hotspots[j].Downstream {
			return s.Hotspots[i].Downstream > s.Hotspots[j].Downstream
		}
		return s.Hotspots[i].NodeID < s.Hotspots[j].NodeID
	})
	if len(s.Hotspots) > 10 {
		s.Hotspots = s.Hotspots[:10]
	}

	return s
}

// gradeFromRatio maps the touched fraction of the graph to a letter grade.
func gradeFromRatio(ratio float64) string {
	switch {
	case ratio == 0:
		return "A"
	case ratio <= 0.1:
		return "B"
	case ratio <= 0.25:
		return "C"
	case ratio <= 0.5:
		return "D"
	default:
		return "F"
	}
}
