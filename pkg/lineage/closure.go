package lineage

// Closure returns every id reachable from any seed via repeated application
// of neighbors, seeds included. Standard multi-source BFS with a visited set:
// each id is expanded at most once, so the result is idempotent and the walk
// terminates even on cyclic adjacency.
func Closure(seeds []string, neighbors func(id string) []string) map[string]bool {
	visited := make(map[string]bool, len(seeds))
	queue := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if !visited[s] {
			visited[s] = true
			queue = append(queue, s)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, n := range neighbors(id) {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}

	return visited
}

// Ancestors returns the upstream closure of a node, the node included.
func (g *Graph) Ancestors(id string) map[string]bool {
	if _, ok := g.Nodes[id]; !ok {
		return map[string]bool{}
	}
	return Closure([]string{id}, func(id string) []string {
		return g.Nodes[id].ParentIDs()
	})
}

// Descendants returns the downstream closure of a node, the node included.
func (g *Graph) Descendants(id string) map[string]bool {
	if _, ok := g.Nodes[id]; !ok {
		return map[string]bool{}
	}
	return Closure([]string{id}, func(id string) []string {
		return g.Nodes[id].ChildIDs()
	})
}
