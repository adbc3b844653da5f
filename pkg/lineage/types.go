// Package lineage builds a unified, annotated lineage graph from two
// dependency snapshots and classifies every node and edge by presence and
// change status. The graph is a pure function of its two inputs and is
// recomputed wholesale on every diff request.
package lineage

import "github.com/driftscope/driftscope/pkg/manifest"

// Presence records which snapshot(s) a node or edge came from.
type Presence string

const (
	FromBase    Presence = "base"
	FromCurrent Presence = "current"
	FromBoth    Presence = "both"
)

// ChangeStatus classifies how a node or edge changed between snapshots.
// The empty string means unchanged.
type ChangeStatus string

const (
	StatusAdded    ChangeStatus = "added"
	StatusRemoved  ChangeStatus = "removed"
	StatusModified ChangeStatus = "modified"
	StatusImpacted ChangeStatus = "impacted"
)

// Node is one unique id seen in either snapshot's adjacency.
//
// Parents and Children map neighbor node ids to edge keys. Cross-references
// are id lookups into the owning Graph, never direct pointers, so the
// structure is cycle-free and safe to marshal.
type Node struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	From         Presence               `json:"from"`
	Base         *manifest.NodeMetadata `json:"base,omitempty"`
	Current      *manifest.NodeMetadata `json:"current,omitempty"`
	ChangeStatus ChangeStatus           `json:"change_status,omitempty"`
	ResourceType string                 `json:"resource_type,omitempty"`
	PackageName  string                 `json:"package_name,omitempty"`
	Parents      map[string]string      `json:"parents,omitempty"`
	Children     map[string]string      `json:"children,omitempty"`
	Highlighted  bool                   `json:"highlighted,omitempty"` // transient UI selection state
}

// Edge is one (parent, child) pair appearing in either snapshot's adjacency,
// keyed "{parent}_{child}". ParentID and ChildID are lookups into Graph.Nodes.
type Edge struct {
	ID           string       `json:"id"`
	ParentID     string       `json:"parent_id"`
	ChildID      string       `json:"child_id"`
	From         Presence     `json:"from"`
	ChangeStatus ChangeStatus `json:"change_status,omitempty"` // added or removed only
	Highlighted  bool         `json:"highlighted,omitempty"`
}

// Graph is the unified diff of two snapshots. Immutable once built, except
// for the transient Highlighted flags managed by HighlightPath.
type Graph struct {
	ID                string           `json:"id"`
	BaseSnapshotID    string           `json:"base_snapshot_id,omitempty"`
	CurrentSnapshotID string           `json:"current_snapshot_id,omitempty"`
	Nodes             map[string]*Node `json:"nodes"`
	Edges             map[string]*Edge `json:"edges"`
	Stats             GraphStats       `json:"stats"`
}

// GraphStats summarizes the diff for display and persistence.
type GraphStats struct {
	NodeCount     int `json:"node_count"`
	EdgeCount     int `json:"edge_count"`
	AddedNodes    int `json:"added_nodes"`
	RemovedNodes  int `json:"removed_nodes"`
	ModifiedNodes int `json:"modified_nodes"`
	ImpactedNodes int `json:"impacted_nodes"`
	AddedEdges    int `json:"added_edges"`
	RemovedEdges  int `json:"removed_edges"`
}

// EdgeKey returns the stable key for a (parent, child) pair.
func EdgeKey(parentID, childID string) string {
	return parentID + "_" + childID
}

// ChildIDs returns the ids of a node's direct downstream consumers.
func (n *Node) ChildIDs() []string {
	ids := make([]string, 0, len(n.Children))
	for id := range n.Children {
		ids = append(ids, id)
	}
	return ids
}

// ParentIDs returns the ids of a node's direct upstream dependencies.
func (n *Node) ParentIDs() []string {
	ids := make([]string, 0, len(n.Parents))
	for id := range n.Parents {
		ids = append(ids, id)
	}
	return ids
}
