package lineage

import "testing"

func highlightFixture() *Graph {
	base := snap("b1", map[string][]string{
		"a": {}, "b": {"a"}, "c": {"b"}, "d": {"b"}, "e": {},
	}, nil)
	return Build(base, base)
}

func TestHighlightPath_SelectsConnectedSet(t *testing.T) {
	g := highlightFixture()

	HighlightPath(g, "c")

	want := map[string]bool{"a": true, "b": true, "c": true}
	for id, node := range g.Nodes {
		if node.Highlighted != want[id] {
			t.Errorf("node %s Highlighted = %v, want %v", id, node.Highlighted, want[id])
		}
	}

	// a->b and b->c connect highlighted endpoints; b->d does not.
	if !g.Edges[EdgeKey("a", "b")].Highlighted {
		t.Error("edge a_b should be highlighted")
	}
	if !g.Edges[EdgeKey("b", "c")].Highlighted {
		t.Error("edge b_c should be highlighted")
	}
	if g.Edges[EdgeKey("b", "d")].Highlighted {
		t.Error("edge b_d should not be highlighted")
	}
}

func TestHighlightPath_ClearIsTotal(t *testing.T) {
	g := highlightFixture()

	HighlightPath(g, "b")
	HighlightPath(g, "")

	for id, node := range g.Nodes {
		if node.Highlighted {
			t.Errorf("node %s still highlighted after clear", id)
		}
	}
	for id, edge := range g.Edges {
		if edge.Highlighted {
			t.Errorf("edge %s still highlighted after clear", id)
		}
	}
}

func TestHighlightPath_ReplacesPreviousSelection(t *testing.T) {
	g := highlightFixture()

	HighlightPath(g, "d")
	HighlightPath(g, "e")

	if g.Nodes["d"].Highlighted {
		t.Error("previous selection d still highlighted")
	}
	if !g.Nodes["e"].Highlighted {
		t.Error("e should be highlighted")
	}
}

func TestHighlightPath_UnknownNodeClears(t *testing.T) {
	g := highlightFixture()

	HighlightPath(g, "b")
	HighlightPath(g, "no_such_node")

	if ids := g.HighlightedNodeIDs(); len(ids) != 0 {
		t.Errorf("HighlightedNodeIDs = %v, want empty", ids)
	}
}
