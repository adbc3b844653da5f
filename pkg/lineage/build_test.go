package lineage

import (
	"testing"

	"github.com/driftscope/driftscope/pkg/manifest"
)

func snap(id string, parentMap map[string][]string, nodes map[string]*manifest.NodeMetadata) *manifest.Snapshot {
	if nodes == nil {
		nodes = map[string]*manifest.NodeMetadata{}
	}
	return &manifest.Snapshot{ID: id, Nodes: nodes, ParentMap: parentMap}
}

func meta(id, name, checksum string) *manifest.NodeMetadata {
	return &manifest.NodeMetadata{UniqueID: id, Name: name, Checksum: checksum}
}

func TestBuild_EdgeOnlyChange(t *testing.T) {
	// Only d's parent list changes; no node content changed. A structural
	// edge diff alone must not mark any node impacted.
	base := snap("b1", map[string][]string{
		"a": {}, "b": {"a"}, "c": {"a"}, "d": {"b"},
	}, nil)
	current := snap("c1", map[string][]string{
		"a": {}, "b": {"a"}, "c": {"a"}, "d": {"b", "c"},
	}, nil)

	g := Build(base, current)

	edge := g.Edges[EdgeKey("c", "d")]
	if edge == nil {
		t.Fatal("edge c_d not found")
	}
	if edge.From != FromCurrent {
		t.Errorf("edge c_d From = %q, want %q", edge.From, FromCurrent)
	}
	if edge.ChangeStatus != StatusAdded {
		t.Errorf("edge c_d ChangeStatus = %q, want %q", edge.ChangeStatus, StatusAdded)
	}

	for id, node := range g.Nodes {
		if node.ChangeStatus != "" {
			t.Errorf("node %s ChangeStatus = %q, want unset", id, node.ChangeStatus)
		}
		if node.From != FromBoth {
			t.Errorf("node %s From = %q, want %q", id, node.From, FromBoth)
		}
	}
}

func TestBuild_ChecksumAndRename(t *testing.T) {
	// a renamed to a2, c's checksum changed. Everything downstream of either
	// change floods as impacted unless it already has a status.
	base := snap("b1", map[string][]string{
		"a": {}, "b": {"a"}, "c": {"b"}, "d": {"c"},
	}, map[string]*manifest.NodeMetadata{
		"a": meta("a", "a", "a#v1"),
		"b": meta("b", "b", "b#v1"),
		"c": meta("c", "c", "c#v1"),
		"d": meta("d", "d", "d#v1"),
	})
	current := snap("c1", map[string][]string{
		"a2": {}, "b": {"a2"}, "c": {"b"}, "d": {"c"},
	}, map[string]*manifest.NodeMetadata{
		"a2": meta("a2", "a2", "a#v1"),
		"b":  meta("b", "b", "b#v1"),
		"c":  meta("c", "c", "c#v2"),
		"d":  meta("d", "d", "d#v1"),
	})

	g := Build(base, current)

	want := map[string]ChangeStatus{
		"a":  StatusRemoved,
		"a2": StatusAdded,
		"b":  StatusImpacted,
		"c":  StatusModified,
		"d":  StatusImpacted,
	}
	for id, status := range want {
		node := g.Nodes[id]
		if node == nil {
			t.Fatalf("node %s not found", id)
		}
		if node.ChangeStatus != status {
			t.Errorf("node %s ChangeStatus = %q, want %q", id, node.ChangeStatus, status)
		}
	}
}

func TestBuild_PresenceConsistency(t *testing.T) {
	base := snap("b1", map[string][]string{
		"m1": {"src"}, "m2": {"m1"},
	}, nil)
	current := snap("c1", map[string][]string{
		"m1": {"src"}, "m3": {"m1"},
	}, nil)

	g := Build(base, current)

	baseIDs := base.NodeIDs()
	currentIDs := current.NodeIDs()

	for id, node := range g.Nodes {
		wantBoth := baseIDs[id] && currentIDs[id]
		if (node.From == FromBoth) != wantBoth {
			t.Errorf("node %s From = %q, in base=%v in current=%v", id, node.From, baseIDs[id], currentIDs[id])
		}
	}

	// src appears only as a listed parent, never as a key. It still gets a node.
	src := g.Nodes["src"]
	if src == nil {
		t.Fatal("external node src not found")
	}
	if src.From != FromBoth {
		t.Errorf("src From = %q, want %q", src.From, FromBoth)
	}
	if src.Name != "src" {
		t.Errorf("src Name = %q, want id fallback %q", src.Name, "src")
	}

	for id, e := range g.Edges {
		inBase := containsEdge(base.ParentMap, e.ParentID, e.ChildID)
		inCurrent := containsEdge(current.ParentMap, e.ParentID, e.ChildID)
		if (e.From == FromBoth) != (inBase && inCurrent) {
			t.Errorf("edge %s From = %q, in base=%v in current=%v", id, e.From, inBase, inCurrent)
		}
	}
}

func containsEdge(parentMap map[string][]string, parent, child string) bool {
	for _, p := range parentMap[child] {
		if p == parent {
			return true
		}
	}
	return false
}

func TestBuild_StatusExclusivity(t *testing.T) {
	base := snap("b1", map[string][]string{
		"gone": {}, "kept": {"gone"}, "leaf": {"kept"},
	}, map[string]*manifest.NodeMetadata{
		"kept": meta("kept", "kept", "k#v1"),
	})
	current := snap("c1", map[string][]string{
		"fresh": {}, "kept": {"fresh"}, "leaf": {"kept"},
	}, map[string]*manifest.NodeMetadata{
		"kept": meta("kept", "kept", "k#v2"),
	})

	g := Build(base, current)

	for id, node := range g.Nodes {
		if node.From != FromBoth &&
			(node.ChangeStatus == StatusModified || node.ChangeStatus == StatusImpacted) {
			t.Errorf("node %s From = %q but ChangeStatus = %q", id, node.From, node.ChangeStatus)
		}
	}

	// kept changed checksum and sits downstream of both a removed and an
	// added node; modified must win over impacted.
	if got := g.Nodes["kept"].ChangeStatus; got != StatusModified {
		t.Errorf("kept ChangeStatus = %q, want %q", got, StatusModified)
	}
	if got := g.Nodes["leaf"].ChangeStatus; got != StatusImpacted {
		t.Errorf("leaf ChangeStatus = %q, want %q", got, StatusImpacted)
	}
}

func TestBuild_MissingChecksumIsNotModified(t *testing.T) {
	base := snap("b1", map[string][]string{"m": {}}, map[string]*manifest.NodeMetadata{
		"m": meta("m", "m", ""),
	})
	current := snap("c1", map[string][]string{"m": {}}, map[string]*manifest.NodeMetadata{
		"m": meta("m", "m", "m#v2"),
	})

	g := Build(base, current)
	if got := g.Nodes["m"].ChangeStatus; got != "" {
		t.Errorf("m ChangeStatus = %q, want unset (one side has no checksum)", got)
	}
}

func TestBuild_CurrentMetadataWins(t *testing.T) {
	base := snap("b1", map[string][]string{"m": {}}, map[string]*manifest.NodeMetadata{
		"m": {UniqueID: "m", Name: "old_name", ResourceType: "model", PackageName: "alpha"},
	})
	current := snap("c1", map[string][]string{"m": {}}, map[string]*manifest.NodeMetadata{
		"m": {UniqueID: "m", Name: "new_name", ResourceType: "model", PackageName: "beta"},
	})

	g := Build(base, current)
	node := g.Nodes["m"]
	if node.Name != "new_name" {
		t.Errorf("Name = %q, want %q", node.Name, "new_name")
	}
	if node.PackageName != "beta" {
		t.Errorf("PackageName = %q, want %q", node.PackageName, "beta")
	}
	if node.Base == nil || node.Current == nil {
		t.Error("both metadata sides should be attached")
	}
}

func TestBuild_Stats(t *testing.T) {
	base := snap("b1", map[string][]string{
		"a": {}, "b": {"a"},
	}, nil)
	current := snap("c1", map[string][]string{
		"b": {}, "c": {"b"},
	}, nil)

	g := Build(base, current)

	if g.Stats.NodeCount != 3 {
		t.Errorf("NodeCount = %d, want 3", g.Stats.NodeCount)
	}
	if g.Stats.AddedNodes != 1 || g.Stats.RemovedNodes != 1 {
		t.Errorf("AddedNodes = %d, RemovedNodes = %d, want 1 and 1", g.Stats.AddedNodes, g.Stats.RemovedNodes)
	}
	if g.Stats.AddedEdges != 1 || g.Stats.RemovedEdges != 1 {
		t.Errorf("AddedEdges = %d, RemovedEdges = %d, want 1 and 1", g.Stats.AddedEdges, g.Stats.RemovedEdges)
	}
	// b survives both sides but loses its parent and gains a child; it is
	// flooded from removed node a.
	if got := g.Nodes["b"].ChangeStatus; got != StatusImpacted {
		t.Errorf("b ChangeStatus = %q, want %q", got, StatusImpacted)
	}
}
