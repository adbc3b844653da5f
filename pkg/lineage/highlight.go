package lineage

// HighlightPath marks everything connected to the focal node: its ancestor
// and descendant closures, and every edge whose two endpoints are both in
// that set. An empty focal id clears every highlight flag on the graph, a
// total reset regardless of what was previously set.
//
// The focal id not existing in the graph also clears; a stale selection from
// the rendering layer must not leave partial highlights behind.
func HighlightPath(g *Graph, focalID string) {
	for _, n := range g.Nodes {
		n.Highlighted = false
	}
	for _, e := range g.Edges {
		e.Highlighted = false
	}

	if focalID == "" {
		return
	}
	if _, ok := g.Nodes[focalID]; !ok {
		return
	}

	connected := g.Ancestors(focalID)
	for id := range g.Descendants(focalID) {
		connected[id] = true
	}

	for id := range connected {
		g.Nodes[id].Highlighted = true
	}
	for _, e := range g.Edges {
		if connected[e.ParentID] && connected[e.ChildID] {
			e.Highlighted = true
		}
	}
}

// HighlightedNodeIDs returns the ids of currently highlighted nodes.
func (g *Graph) HighlightedNodeIDs() []string {
	var ids []string
	for id, n := range g.Nodes {
		if n.Highlighted {
			ids = append(ids, id)
		}
	}
	return ids
}
