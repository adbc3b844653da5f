package lineage

import (
	"github.com/google/uuid"

	"github.com/driftscope/driftscope/pkg/manifest"
)

// Build computes the unified lineage graph for a base and current snapshot.
//
// Presence is computed by unioning the two snapshots' id sets up front, so
// the tri-state never depends on discovery order. Change status is set once
// per node in a fixed order: presence first, then checksum comparison, then
// the impact flood; a status is never overwritten once assigned.
//
// An id listed only as someone's parent is a legal external node with no
// metadata; it diffs like any other node.
func Build(base, current *manifest.Snapshot) *Graph {
	g := &Graph{
		ID:                uuid.New().String(),
		BaseSnapshotID:    base.ID,
		CurrentSnapshotID: current.ID,
		Nodes:             make(map[string]*Node),
		Edges:             make(map[string]*Edge),
	}

	baseIDs := base.NodeIDs()
	currentIDs := current.NodeIDs()

	for id := range baseIDs {
		g.Nodes[id] = newNode(id, presenceOf(true, currentIDs[id]))
	}
	for id := range currentIDs {
		if _, ok := g.Nodes[id]; !ok {
			g.Nodes[id] = newNode(id, FromCurrent)
		}
	}

	// Attach metadata. Current is applied after base so its name, resource
	// type, and package win whenever both sides have metadata.
	for id, node := range g.Nodes {
		if meta := base.Nodes[id]; meta != nil {
			node.Base = meta
			applyMetadata(node, meta)
		}
		if meta := current.Nodes[id]; meta != nil {
			node.Current = meta
			applyMetadata(node, meta)
		}
	}

	addEdges(g, base.ParentMap, FromBase)
	addEdges(g, current.ParentMap, FromCurrent)

	classifyNodes(g)
	floodImpact(g)
	classifyEdges(g)

	g.Stats = computeStats(g)
	return g
}

func newNode(id string, from Presence) *Node {
	return &Node{
		ID:       id,
		Name:     id,
		From:     from,
		Parents:  make(map[string]string),
		Children: make(map[string]string),
	}
}

func presenceOf(inBase, inCurrent bool) Presence {
	switch {
	case inBase && inCurrent:
		return FromBoth
	case inBase:
		return FromBase
	default:
		return FromCurrent
	}
}

func applyMetadata(node *Node, meta *manifest.NodeMetadata) {
	if meta.Name != "" {
		node.Name = meta.Name
	}
	if meta.ResourceType != "" {
		node.ResourceType = meta.ResourceType
	}
	if meta.PackageName != "" {
		node.PackageName = meta.PackageName
	}
}

// addEdges records every (parent, child) pair from one snapshot's adjacency.
// A pair already seen from the other snapshot upgrades the existing edge to
// FromBoth; both snapshots describe the same logical edge, and the adjacency
// maps on both endpoint nodes always reference it by the same key.
func addEdges(g *Graph, parentMap map[string][]string, from Presence) {
	for child, parents := range parentMap {
		for _, parent := range parents {
			key := EdgeKey(parent, child)
			if e, ok := g.Edges[key]; ok {
				if e.From != from {
					e.From = FromBoth
				}
				continue
			}
			g.Edges[key] = &Edge{
				ID:       key,
				ParentID: parent,
				ChildID:  child,
				From:     from,
			}
			g.Nodes[parent].Children[child] = key
			g.Nodes[child].Parents[parent] = key
		}
	}
}

// classifyNodes assigns added/removed/modified. A node present in only one
// snapshot is never modified or impacted; a node present in both is modified
// only when both sides carry a checksum and the checksums differ.
func classifyNodes(g *Graph) {
	for _, node := range g.Nodes {
		switch node.From {
		case FromBase:
			node.ChangeStatus = StatusRemoved
		case FromCurrent:
			node.ChangeStatus = StatusAdded
		default:
			if node.Base != nil && node.Current != nil &&
				node.Base.Checksum != "" && node.Current.Checksum != "" &&
				node.Base.Checksum != node.Current.Checksum {
				node.ChangeStatus = StatusModified
			}
		}
	}
}

// floodImpact marks every still-unclassified node reachable downstream of a
// changed node as impacted. Edge-only changes do not seed the flood.
func floodImpact(g *Graph) {
	var seeds []string
	for id, node := range g.Nodes {
		if node.ChangeStatus != "" {
			seeds = append(seeds, id)
		}
	}
	if len(seeds) == 0 {
		return
	}

	reached := Closure(seeds, func(id string) []string {
		return g.Nodes[id].ChildIDs()
	})
	for id := range reached {
		if node := g.Nodes[id]; node.ChangeStatus == "" {
			node.ChangeStatus = StatusImpacted
		}
	}
}

func classifyEdges(g *Graph) {
	for _, e := range g.Edges {
		switch e.From {
		case FromBase:
			e.ChangeStatus = StatusRemoved
		case FromCurrent:
			e.ChangeStatus = StatusAdded
		}
	}
}

func computeStats(g *Graph) GraphStats {
	stats := GraphStats{
		NodeCount: len(g.Nodes),
		EdgeCount: len(g.Edges),
	}
	for _, n := range g.Nodes {
		switch n.ChangeStatus {
		case StatusAdded:
			stats.AddedNodes++
		case StatusRemoved:
			stats.RemovedNodes++
		case StatusModified:
			stats.ModifiedNodes++
		case StatusImpacted:
			stats.ImpactedNodes++
		}
	}
	for _, e := range g.Edges {
		switch e.ChangeStatus {
		case StatusAdded:
			stats.AddedEdges++
		case StatusRemoved:
			stats.RemovedEdges++
		}
	}
	return stats
}
