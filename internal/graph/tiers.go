package graph

import "sort"

// Tiers layers the eligible tasks by how many unlock rounds they are away:
// tier 0 holds tasks available right now, tier 1 the tasks that unlock once
// all of tier 0 is done, and so on. Tasks stuck behind a cycle never reach
// indegree zero and are left out.
func (g *TaskGraph) Tiers(completed map[string]bool) [][]string {
	indeg := g.Indegrees(completed)
	adj := g.Edges()

	current := g.InitialAvailable(indeg)
	sort.Strings(current)

	var tiers [][]string
	for len(current) > 0 {
		tiers = append(tiers, current)

		var next []string
		for _, id := range current {
			for _, succ := range adj[id] {
				indeg[succ]--
				if indeg[succ] == 0 {
					next = append(next, succ)
				}
			}
		}
		sort.Strings(next)
		current = next
	}
	return tiers
}

// Blocked returns the eligible task ids that never become available because
// they sit on, or behind, a dependency cycle.
func (g *TaskGraph) Blocked(completed map[string]bool) []string {
	placed := make(map[string]bool)
	for _, tier := range g.Tiers(completed) {
		for _, id := range tier {
			placed[id] = true
		}
	}
	var blocked []string
	for _, id := range g.Order {
		if !placed[id] {
			blocked = append(blocked, id)
		}
	}
	sort.Strings(blocked)
	return blocked
}
