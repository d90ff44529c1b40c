// Package optimizer groups a player's remaining quest objectives into
// map sweeps: an ordered visit plan that respects quest prerequisites.
package optimizer

import (
	"github.com/Oddey86/TarkovBuddy/internal/graph"
)

// Optimize computes the sweep plan for one request. It is a pure function
// of its input: identical requests produce identical results.
//
// Each round buckets every consumable objective of every available task by
// map, commits the best-scoring bucket as a sweep, and marks its objectives
// consumed. A task leaves the available set only once all its objectives
// are consumed, which is also the moment its dependents are unlocked.
func Optimize(req Request) *Result {
	g := graph.Eligible(req.Tasks, req.PlayerLevel, req.Completed)
	indeg := g.Indegrees(req.Completed)
	avail := newOrderedSet(g.InitialAvailable(indeg))
	focus := g.FocusDistances(req.FocusTargets)

	used := make(map[string]int) // objective key -> sweep index
	consumed := func(key string) bool {
		if req.CompletedObjectives[key] {
			return true
		}
		_, ok := used[key]
		return ok
	}

	// Each committed sweep consumes at least one objective or placeholder
	// key, so this bound is never reached on acyclic input.
	maxIter := 2*g.TaskCount() + objectiveCount(g)

	// collect buckets every usable objective of the available tasks. Tasks
	// with nothing left are retired first, and their unlocked dependents are
	// bucketed in the same call, so a round that only retires tasks does
	// not count toward maxIter.
	collect := func() *buckets {
		for {
			b := newBuckets()
			unlocked := false

			for _, id := range avail.Snapshot() {
				t := g.Tasks[id]

				if !hasConsumable(t, consumed) {
					avail.Remove(id)
					for _, dep := range g.Dependents[id] {
						if !g.Has(dep) || indeg[dep] == 0 {
							continue
						}
						indeg[dep]--
						if indeg[dep] == 0 {
							avail.Add(dep)
							unlocked = true
						}
					}
					continue
				}

				hadMap := false
				for _, o := range t.Objectives {
					if consumed(graph.ObjectiveKey(t.ID, o.ID)) {
						continue
					}
					usable := allowedOnly(o.MapsOrUnknown(), req.AllowedMaps)
					if len(usable) == 0 {
						continue
					}
					hadMap = true
					for _, m := range usable {
						b.Add(m, newStep(t, o, m))
					}
				}

				if !hadMap && req.AllowedMaps[graph.UnknownMap] {
					ph := placeholderStep(t)
					if !consumed(ph.Key()) {
						b.Add(graph.UnknownMap, ph)
					}
				}
			}

			if !b.Empty() || !unlocked {
				return b
			}
		}
	}

	var sweeps []Sweep
	for iter := 0; avail.Len() > 0 && iter < maxIter; iter++ {
		b := collect()
		if b.Empty() {
			break
		}

		bestMap := b.Best(func(steps []SweepStep) float64 {
			return score(steps, focus, req)
		})
		steps := b.Steps(bestMap)
		unique := uniqueTaskIDs(steps)

		sweeps = append(sweeps, Sweep{
			Map:           bestMap,
			Steps:         steps,
			UniqueTasks:   len(unique),
			EstimatedCost: estimateCost(unique, focus, req.Weights),
		})

		idx := len(sweeps) - 1
		for _, s := range steps {
			used[s.Key()] = idx
		}
	}

	return aggregate(sweeps)
}

func aggregate(sweeps []Sweep) *Result {
	r := &Result{Sweeps: sweeps}
	for _, s := range sweeps {
		r.TotalScore += s.EstimatedCost
		r.TotalTasks += s.UniqueTasks
	}
	r.Efficiency = float64(r.TotalTasks) / float64(max(1, len(sweeps)))
	return r
}

func objectiveCount(g *graph.TaskGraph) int {
	n := 0
	for _, t := range g.Tasks {
		n += len(t.Objectives)
	}
	return n
}

func hasConsumable(t *graph.Task, consumed func(string) bool) bool {
	for _, o := range t.Objectives {
		if !consumed(graph.ObjectiveKey(t.ID, o.ID)) {
			return true
		}
	}
	return false
}

func allowedOnly(maps []string, allowed map[string]bool) []string {
	var out []string
	for _, m := range maps {
		if allowed[m] {
			out = append(out, m)
		}
	}
	return out
}

func newStep(t *graph.Task, o graph.Objective, m string) SweepStep {
	return SweepStep{
		TaskID:        t.ID,
		TaskName:      t.Name,
		ObjectiveID:   o.ID,
		Description:   o.Description,
		Trader:        t.Trader,
		KappaRequired: t.KappaRequired,
		NeededKeys:    neededKeys(t),
		Map:           m,
	}
}

func placeholderStep(t *graph.Task) SweepStep {
	return SweepStep{
		TaskID:        t.ID,
		TaskName:      t.Name,
		Trader:        t.Trader,
		KappaRequired: t.KappaRequired,
		NeededKeys:    neededKeys(t),
		Map:           graph.UnknownMap,
		Placeholder:   true,
	}
}

func neededKeys(t *graph.Task) []string {
	if t.NeededKeys == nil {
		return []string{}
	}
	return append([]string(nil), t.NeededKeys...)
}

func uniqueTaskIDs(steps []SweepStep) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, s := range steps {
		if !seen[s.TaskID] {
			seen[s.TaskID] = true
			ids = append(ids, s.TaskID)
		}
	}
	return ids
}
