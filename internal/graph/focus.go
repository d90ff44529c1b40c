package graph

import "sort"

// FocusDistances runs a multi-source BFS from the focus targets across
// requirement edges. A target is at distance 0; each prerequisite hop adds
// one. Tasks with no path to any target are absent from the result.
func (g *TaskGraph) FocusDistances(targets map[string]bool) map[string]int {
	dist := make(map[string]int)
	if len(targets) == 0 {
		return dist
	}

	starts := make([]string, 0, len(targets))
	for id, ok := range targets {
		if ok {
			starts = append(starts, id)
		}
	}
	sort.Strings(starts)

	queue := make([]string, 0, len(starts))
	for _, id := range starts {
		dist[id] = 0
		queue = append(queue, id)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		t, ok := g.Tasks[current]
		if !ok {
			continue
		}
		for _, req := range t.Requires {
			if _, visited := dist[req]; !visited {
				dist[req] = dist[current] + 1
				queue = append(queue, req)
			}
		}
	}
	return dist
}
