package lineage

import "github.com/driftscope/driftscope/pkg/schemadiff"

// NodeColumns returns the column-level schema diff for one node, or nil when
// the node is unknown or either side has no schema info.
func (g *Graph) NodeColumns(id string) *schemadiff.ColumnDiffSet {
	node, ok := g.Nodes[id]
	if !ok {
		return nil
	}

	if node.Base == nil || node.Current == nil {
		return nil
	}
	return schemadiff.MergeColumns(node.Base.Columns, node.Current.Columns)
}
