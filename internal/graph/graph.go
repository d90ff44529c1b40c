package graph

import (
	"sort"
)

// Eligible builds the working set of tasks the player can still do: tasks
// gated at or below playerLevel that are not already completed. Every
// requirement edge of an eligible task is indexed in Dependents, including
// requirement ids that are not themselves eligible.
func Eligible(tasks []Task, playerLevel int, completed map[string]bool) *TaskGraph {
	g := &TaskGraph{
		Tasks:      make(map[string]*Task),
		Dependents: make(map[string][]string),
	}

	for i := range tasks {
		t := &tasks[i]
		if t.MinPlayerLevel > playerLevel || completed[t.ID] {
			continue
		}
		if _, dup := g.Tasks[t.ID]; dup {
			continue
		}
		g.Tasks[t.ID] = t
		g.Order = append(g.Order, t.ID)
	}

	for _, id := range g.Order {
		for _, req := range g.Tasks[id].Requires {
			g.Dependents[req] = append(g.Dependents[req], id)
		}
	}

	return g
}

// TaskCount returns the number of eligible tasks.
func (g *TaskGraph) TaskCount() int {
	return len(g.Tasks)
}

// Has reports whether id is in the eligible set.
func (g *TaskGraph) Has(id string) bool {
	_, ok := g.Tasks[id]
	return ok
}

// Indegrees counts, for each eligible task, the prerequisites that are
// themselves eligible and not completed. Prerequisites outside the eligible
// set count as satisfied.
func (g *TaskGraph) Indegrees(completed map[string]bool) map[string]int {
	indeg := make(map[string]int, len(g.Order))
	for _, id := range g.Order {
		n := 0
		for _, req := range g.Tasks[id].Requires {
			if g.Has(req) && !completed[req] {
				n++
			}
		}
		indeg[id] = n
	}
	return indeg
}

// InitialAvailable returns the eligible task ids with zero indegree, in
// catalog order.
func (g *TaskGraph) InitialAvailable(indeg map[string]int) []string {
	var avail []string
	for _, id := range g.Order {
		if indeg[id] == 0 {
			avail = append(avail, id)
		}
	}
	return avail
}

// Edges returns prerequisite -> dependent adjacency restricted to eligible
// tasks, sorted for deterministic traversal.
func (g *TaskGraph) Edges() map[string][]string {
	adj := make(map[string][]string)
	for _, id := range g.Order {
		for _, req := range g.Tasks[id].Requires {
			if g.Has(req) {
				adj[req] = append(adj[req], id)
			}
		}
	}
	for k := range adj {
		sort.Strings(adj[k])
	}
	return adj
}

// DetectCycle returns the cycle path if the eligible tasks contain one, or
// nil if they are acyclic. Uses DFS with coloring: white (unvisited), gray
// (in progress), black (done).
func (g *TaskGraph) DetectCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	adj := g.Edges()
	color := make(map[string]int)
	parent := make(map[string]string)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		for _, next := range adj[node] {
			if color[next] == gray {
				cycle := []string{next, node}
				cur := node
				for cur != next {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	ids := append([]string(nil), g.Order...)
	sort.Strings(ids)

	for _, id := range ids {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// AvailableNow counts tasks that are not completed, are level-gated at or
// below playerLevel, and have every requirement completed.
func AvailableNow(tasks []Task, playerLevel int, completed map[string]bool) int {
	n := 0
	for _, t := range tasks {
		if completed[t.ID] || t.MinPlayerLevel > playerLevel {
			continue
		}
		ready := true
		for _, req := range t.Requires {
			if !completed[req] {
				ready = false
				break
			}
		}
		if ready {
			n++
		}
	}
	return n
}
