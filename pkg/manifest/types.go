// Package manifest defines the core data model for Driftscope.
// These types are the shared vocabulary across all modules.
// Changes to this file require review from all teams.
package manifest

import "time"

// Snapshot is a point-in-time dependency view of a dbt-style project,
// collected from one environment. Snapshots are immutable once created.
//
// ParentMap is the authoritative adjacency: child unique id -> parent unique
// ids. Nodes may be missing entries for ids that appear in ParentMap; such
// ids are external dependencies with no metadata available.
type Snapshot struct {
	ID          string                   `json:"id"`
	ProjectName string                   `json:"project_name,omitempty"`
	Environment string                   `json:"environment,omitempty"` // "base" or "current" by convention
	Nodes       map[string]*NodeMetadata `json:"nodes"`
	ParentMap   map[string][]string      `json:"parent_map"`
	Stats       SnapshotStats            `json:"stats"`
	CollectedAt time.Time                `json:"collected_at"`
}

// NodeMetadata describes a single node in a dependency snapshot.
type NodeMetadata struct {
	UniqueID     string   `json:"unique_id"`
	Name         string   `json:"name"`
	Checksum     string   `json:"checksum,omitempty"`
	ResourceType string   `json:"resource_type,omitempty"` // "model", "source", "seed", etc.
	PackageName  string   `json:"package_name,omitempty"`
	Columns      []Column `json:"columns,omitempty"` // nil means no schema info available
}

// Column is one column definition in a node's schema, in declared order.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// SnapshotStats holds summary statistics for a snapshot.
type SnapshotStats struct {
	NodeCount    int `json:"node_count"`
	EdgeCount    int `json:"edge_count"`
	PackageCount int `json:"package_count"`
}

// ComputeStats recalculates Stats from the adjacency and metadata.
func (s *Snapshot) ComputeStats() {
	edges := 0
	for _, parents := range s.ParentMap {
		edges += len(parents)
	}
	pkgs := make(map[string]bool)
	for _, n := range s.Nodes {
		if n.PackageName != "" {
			pkgs[n.PackageName] = true
		}
	}
	s.Stats = SnapshotStats{
		NodeCount:    len(s.ParentMap),
		EdgeCount:    edges,
		PackageCount: len(pkgs),
	}
}

// NodeIDs returns every unique id appearing in ParentMap, as a key or as a
// listed parent. Ids listed only as parents are external dependencies.
func (s *Snapshot) NodeIDs() map[string]bool {
	ids := make(map[string]bool, len(s.ParentMap))
	for child, parents := range s.ParentMap {
		ids[child] = true
		for _, p := range parents {
			ids[p] = true
		}
	}
	return ids
}
