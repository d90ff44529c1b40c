package optimizer

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/Oddey86/TarkovBuddy/internal/graph"
)

func task(id string, requires []string, objectives ...graph.Objective) graph.Task {
	return graph.Task{
		ID:             id,
		Name:           "Task " + id,
		MinPlayerLevel: 1,
		Requires:       requires,
		Objectives:     objectives,
	}
}

func obj(id, desc string, maps ...string) graph.Objective {
	return graph.Objective{ID: id, Description: desc, Maps: maps}
}

func baseRequest(tasks ...graph.Task) Request {
	return Request{
		Tasks:       tasks,
		PlayerLevel: 1,
		Weights:     DefaultWeights(),
		AllowedMaps: map[string]bool{"Woods": true, "Customs": true, graph.UnknownMap: true},
	}
}

func stepKeys(s Sweep) []string {
	var keys []string
	for _, st := range s.Steps {
		keys = append(keys, st.Key())
	}
	return keys
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestOptimize_PrerequisiteSplitsSweeps(t *testing.T) {
	req := baseRequest(
		task("A", nil, obj("o1", "Survive", "Woods")),
		task("B", []string{"A"}, obj("o1", "Survive", "Woods")),
	)
	req.AllowedMaps = map[string]bool{"Woods": true, graph.UnknownMap: true}

	res := Optimize(req)

	if len(res.Sweeps) != 2 {
		t.Fatalf("expected 2 sweeps, got %d: %+v", len(res.Sweeps), res.Sweeps)
	}
	if got := stepKeys(res.Sweeps[0]); !reflect.DeepEqual(got, []string{"A:o1"}) {
		t.Errorf("expected first sweep [A:o1], got %v", got)
	}
	if got := stepKeys(res.Sweeps[1]); !reflect.DeepEqual(got, []string{"B:o1"}) {
		t.Errorf("expected second sweep [B:o1], got %v", got)
	}
	for i, s := range res.Sweeps {
		if s.Map != "Woods" {
			t.Errorf("sweep %d: expected Woods, got %s", i, s.Map)
		}
	}
}

func TestOptimize_CompletedPrerequisite(t *testing.T) {
	req := baseRequest(
		task("A", nil, obj("o1", "Survive", "Woods")),
		task("B", []string{"A"}, obj("o1", "Survive", "Woods")),
	)
	req.Completed = map[string]bool{"A": true}

	res := Optimize(req)

	if len(res.Sweeps) != 1 {
		t.Fatalf("expected 1 sweep, got %d", len(res.Sweeps))
	}
	if got := stepKeys(res.Sweeps[0]); !reflect.DeepEqual(got, []string{"B:o1"}) {
		t.Errorf("expected [B:o1], got %v", got)
	}
}

func TestOptimize_TaskWithoutObjectivesUnlocksDependents(t *testing.T) {
	req := baseRequest(
		task("empty", nil),
		task("next", []string{"empty"}, obj("o1", "Survive", "Customs")),
	)

	res := Optimize(req)

	for _, s := range res.Sweeps {
		for _, st := range s.Steps {
			if st.TaskID == "empty" {
				t.Fatalf("task without objectives should never appear, got %+v", st)
			}
		}
	}
	if len(res.Sweeps) != 1 || res.Sweeps[0].Steps[0].TaskID != "next" {
		t.Fatalf("expected dependent to be scheduled once unlocked, got %+v", res.Sweeps)
	}
}

func TestOptimize_CycleIsExcluded(t *testing.T) {
	req := baseRequest(
		task("A", []string{"B"}, obj("o1", "Survive", "Woods")),
		task("B", []string{"A"}, obj("o1", "Survive", "Woods")),
		task("C", nil, obj("o1", "Survive", "Customs")),
	)

	res := Optimize(req)

	for _, s := range res.Sweeps {
		for _, st := range s.Steps {
			if st.TaskID == "A" || st.TaskID == "B" {
				t.Errorf("cyclic task %s should not be scheduled", st.TaskID)
			}
		}
	}
	if len(res.Sweeps) != 1 {
		t.Errorf("expected only C to be scheduled, got %d sweeps", len(res.Sweeps))
	}
}

func TestOptimize_FocusBias(t *testing.T) {
	req := baseRequest(
		task("plain", nil, obj("o1", "Survive", "Customs")),
		task("target", nil, obj("o1", "Survive", "Woods")),
	)
	req.FocusTargets = map[string]bool{"target": true}

	res := Optimize(req)

	if len(res.Sweeps) != 2 {
		t.Fatalf("expected 2 sweeps, got %d", len(res.Sweeps))
	}
	if res.Sweeps[0].Map != "Woods" {
		t.Errorf("expected focus map Woods first, got %s", res.Sweeps[0].Map)
	}
}

func TestOptimize_TieGoesToFirstSeenMap(t *testing.T) {
	req := baseRequest(
		task("plain", nil, obj("o1", "Survive", "Customs")),
		task("other", nil, obj("o1", "Survive", "Woods")),
	)

	res := Optimize(req)

	if res.Sweeps[0].Map != "Customs" {
		t.Errorf("expected tie to resolve to Customs, got %s", res.Sweeps[0].Map)
	}
}

func TestOptimize_KappaBias(t *testing.T) {
	plain := task("plain", nil, obj("o1", "Survive", "Customs"))
	kappa := task("kappa", nil, obj("o1", "Survive", "Woods"))
	kappa.KappaRequired = true

	req := baseRequest(plain, kappa)
	req.Flags.KappaFocus = true

	res := Optimize(req)
	if res.Sweeps[0].Map != "Woods" {
		t.Errorf("expected kappa map Woods first, got %s", res.Sweeps[0].Map)
	}

	req.Flags.KappaFocus = false
	res = Optimize(req)
	if res.Sweeps[0].Map != "Customs" {
		t.Errorf("expected Customs first without kappa focus, got %s", res.Sweeps[0].Map)
	}
}

func TestOptimize_MissingKeyPenalty(t *testing.T) {
	req := baseRequest(
		task("locked", nil, obj("o1", "Use the Dorm room 114 key to open the room", "Customs")),
		task("open", nil, obj("o1", "Survive", "Woods")),
	)

	res := Optimize(req)
	if res.Sweeps[0].Map != "Woods" {
		t.Errorf("expected Woods first when key is missing, got %s", res.Sweeps[0].Map)
	}

	req.Inventory.Keys = []string{"dorm room 114 KEY"}
	res = Optimize(req)
	if res.Sweeps[0].Map != "Customs" {
		t.Errorf("expected Customs first when key is held, got %s", res.Sweeps[0].Map)
	}

	req.Inventory.Keys = nil
	req.Flags.IgnoreMissingKeys = true
	res = Optimize(req)
	if res.Sweeps[0].Map != "Customs" {
		t.Errorf("expected Customs first when missing keys are ignored, got %s", res.Sweeps[0].Map)
	}
}

func TestOptimize_MissingItemPenalty(t *testing.T) {
	req := baseRequest(
		task("fetch", nil, obj("o1", "Hand over 2 Gas analyzers", "Customs")),
		task("walk", nil, obj("o1", "Survive", "Woods")),
	)

	res := Optimize(req)
	if res.Sweeps[0].Map != "Woods" {
		t.Errorf("expected Woods first when item is missing, got %s", res.Sweeps[0].Map)
	}

	req.Inventory.Items = []string{"gas analyzer"}
	res = Optimize(req)
	if res.Sweeps[0].Map != "Customs" {
		t.Errorf("expected Customs first when item is held, got %s", res.Sweeps[0].Map)
	}
}

func TestOptimize_NegativeScoreStillScheduled(t *testing.T) {
	req := baseRequest(
		task("hard", nil,
			obj("o1", "Find the key", "Woods"),
			obj("o2", "Obtain the key", "Woods"),
		),
	)

	res := Optimize(req)
	if len(res.Sweeps) != 1 || len(res.Sweeps[0].Steps) != 2 {
		t.Fatalf("expected one sweep with both objectives, got %+v", res.Sweeps)
	}
}

func TestOptimize_MultiMapObjectiveConsumedOnce(t *testing.T) {
	req := baseRequest(
		task("T", nil, obj("o1", "Survive", "Woods", "Customs")),
		task("U", nil, obj("o1", "Survive", "Customs")),
	)

	res := Optimize(req)

	if len(res.Sweeps) != 1 {
		t.Fatalf("expected 1 sweep, got %d: %+v", len(res.Sweeps), res.Sweeps)
	}
	if res.Sweeps[0].Map != "Customs" {
		t.Errorf("expected Customs (2 tasks), got %s", res.Sweeps[0].Map)
	}
	if res.Sweeps[0].UniqueTasks != 2 {
		t.Errorf("expected 2 unique tasks, got %d", res.Sweeps[0].UniqueTasks)
	}
}

func TestOptimize_CompletedObjectivesSkipped(t *testing.T) {
	req := baseRequest(
		task("A", nil,
			obj("o1", "Survive", "Woods"),
			obj("o2", "Survive", "Customs"),
		),
	)
	req.CompletedObjectives = map[string]bool{"A:o1": true}

	res := Optimize(req)

	if len(res.Sweeps) != 1 || res.Sweeps[0].Map != "Customs" {
		t.Fatalf("expected a single Customs sweep, got %+v", res.Sweeps)
	}
}

func TestOptimize_UnknownPlaceholder(t *testing.T) {
	req := baseRequest(
		task("far", nil, obj("o1", "Survive", "Labs")),
	)

	res := Optimize(req)

	if len(res.Sweeps) != 1 {
		t.Fatalf("expected 1 placeholder sweep, got %d", len(res.Sweeps))
	}
	s := res.Sweeps[0]
	if s.Map != graph.UnknownMap || len(s.Steps) != 1 {
		t.Fatalf("expected a single Unknown step, got %+v", s)
	}
	if !s.Steps[0].Placeholder || s.Steps[0].ObjectiveID != "" {
		t.Errorf("expected placeholder step with no objective id, got %+v", s.Steps[0])
	}
}

func TestOptimize_MapAgnosticObjectiveGoesToUnknown(t *testing.T) {
	req := baseRequest(task("any", nil, obj("o1", "Reach level 10")))

	res := Optimize(req)

	if len(res.Sweeps) != 1 || res.Sweeps[0].Map != graph.UnknownMap {
		t.Fatalf("expected an Unknown sweep, got %+v", res.Sweeps)
	}
	if res.Sweeps[0].Steps[0].Placeholder {
		t.Error("map-agnostic objective should be a real step, not a placeholder")
	}
}

func TestOptimize_UnreachableObjectiveDropped(t *testing.T) {
	req := baseRequest(task("far", nil, obj("o1", "Survive", "Labs")))
	req.AllowedMaps = map[string]bool{"Woods": true}

	res := Optimize(req)

	if len(res.Sweeps) != 0 {
		t.Errorf("expected no sweeps, got %+v", res.Sweeps)
	}
}

func TestOptimize_EstimatedCost(t *testing.T) {
	var tasks []graph.Task
	for i := 0; i < 5; i++ {
		tasks = append(tasks, task(fmt.Sprintf("t%d", i), nil, obj("o1", "Survive", "Woods")))
	}

	req := baseRequest(tasks...)
	res := Optimize(req)
	if len(res.Sweeps) != 1 {
		t.Fatalf("expected 1 sweep, got %d", len(res.Sweeps))
	}
	if !approx(res.Sweeps[0].EstimatedCost, 80) {
		t.Errorf("expected cost 80 for 5 tasks, got %v", res.Sweeps[0].EstimatedCost)
	}

	req.FocusTargets = map[string]bool{"t0": true, "t1": true, "t2": true}
	res = Optimize(req)
	if !approx(res.Sweeps[0].EstimatedCost, 100*0.8*0.85) {
		t.Errorf("expected stacked discount, got %v", res.Sweeps[0].EstimatedCost)
	}

	req = baseRequest(tasks[:3]...)
	req.FocusTargets = map[string]bool{"t0": true}
	res = Optimize(req)
	if !approx(res.Sweeps[0].EstimatedCost, 100*0.9*0.93) {
		t.Errorf("expected 3-task and single-focus discount, got %v", res.Sweeps[0].EstimatedCost)
	}
}

func TestOptimize_Aggregates(t *testing.T) {
	req := baseRequest(
		task("A", nil,
			obj("o1", "Survive", "Woods"),
			obj("o2", "Survive", "Customs"),
		),
		task("B", nil, obj("o1", "Survive", "Woods")),
	)

	res := Optimize(req)

	// Woods {A, B}, then Customs {A}: A counts once per sweep.
	if len(res.Sweeps) != 2 {
		t.Fatalf("expected 2 sweeps, got %d", len(res.Sweeps))
	}
	if res.TotalTasks != 3 {
		t.Errorf("expected total tasks 3, got %d", res.TotalTasks)
	}
	if !approx(res.Efficiency, 1.5) {
		t.Errorf("expected efficiency 1.5, got %v", res.Efficiency)
	}
	if !approx(res.TotalScore, 200) {
		t.Errorf("expected total score 200, got %v", res.TotalScore)
	}
}

func TestOptimize_EmptyInput(t *testing.T) {
	res := Optimize(Request{})
	if len(res.Sweeps) != 0 || res.TotalTasks != 0 || res.Efficiency != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestOptimize_LevelGate(t *testing.T) {
	high := task("high", nil, obj("o1", "Survive", "Woods"))
	high.MinPlayerLevel = 20

	res := Optimize(baseRequest(high))
	if len(res.Sweeps) != 0 {
		t.Errorf("expected level-gated task to be skipped, got %+v", res.Sweeps)
	}
}

// chainFixture is a small quest web used for property checks.
func chainFixture() []graph.Task {
	return []graph.Task{
		task("a", nil, obj("o1", "Survive", "Woods"), obj("o2", "Find the stash", "Customs")),
		task("b", []string{"a"}, obj("o1", "Eliminate scavs", "Customs")),
		task("c", []string{"a"}, obj("o1", "Mark the truck", "Woods")),
		task("d", []string{"b", "c"}, obj("o1", "Hand over the key", "Woods", "Customs")),
		task("e", nil, obj("o1", "Reach the lighthouse")),
		task("f", []string{"e", "outside"}, obj("o1", "Survive", "Customs")),
		task("g", []string{"d"}),
		task("h", []string{"g"}, obj("o1", "Survive", "Woods")),
	}
}

func TestOptimize_Deterministic(t *testing.T) {
	req := baseRequest(chainFixture()...)
	req.FocusTargets = map[string]bool{"d": true}

	first := Optimize(req)
	second := Optimize(req)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results:\n%+v\n%+v", first, second)
	}
}

func TestOptimize_CompletenessAndNoDoubleConsumption(t *testing.T) {
	tasks := chainFixture()
	res := Optimize(baseRequest(tasks...))

	seenKey := make(map[string]int)
	seenTask := make(map[string]bool)
	for i, s := range res.Sweeps {
		for _, st := range s.Steps {
			if prev, dup := seenKey[st.Key()]; dup {
				t.Errorf("objective %s consumed in sweeps %d and %d", st.Key(), prev, i)
			}
			seenKey[st.Key()] = i
			seenTask[st.TaskID] = true
		}
	}

	for _, tk := range tasks {
		if len(tk.Objectives) == 0 {
			continue
		}
		if !seenTask[tk.ID] {
			t.Errorf("task %s never scheduled", tk.ID)
		}
	}
}

func TestOptimize_DependencyOrdering(t *testing.T) {
	tasks := chainFixture()
	res := Optimize(baseRequest(tasks...))

	// last sweep index at which each objective key was consumed
	lastSweep := make(map[string]int)
	firstSweep := make(map[string]int)
	for i, s := range res.Sweeps {
		for _, st := range s.Steps {
			lastSweep[st.TaskID] = i
			if _, ok := firstSweep[st.TaskID]; !ok {
				firstSweep[st.TaskID] = i
			}
		}
	}

	byID := make(map[string]graph.Task)
	for _, tk := range tasks {
		byID[tk.ID] = tk
	}

	for id, first := range firstSweep {
		for _, req := range byID[id].Requires {
			pre, ok := byID[req]
			if !ok || len(pre.Objectives) == 0 {
				continue
			}
			if lastSweep[req] > first {
				t.Errorf("task %s scheduled in sweep %d before prerequisite %s finished (sweep %d)",
					id, first, req, lastSweep[req])
			}
			if lastSweep[req] == first {
				t.Errorf("task %s shares sweep %d with unfinished prerequisite %s", id, first, req)
			}
		}
	}
}

func TestOptimize_SplitMapChainFullyScheduled(t *testing.T) {
	var tasks []graph.Task
	for i := 0; i < 4; i++ {
		var requires []string
		if i > 0 {
			requires = []string{fmt.Sprintf("t%d", i-1)}
		}
		tasks = append(tasks, task(fmt.Sprintf("t%d", i), requires,
			obj("o1", "Mark the sawmill", "Woods"),
			obj("o2", "Check the dorms", "Customs"),
		))
	}

	res := Optimize(baseRequest(tasks...))

	if len(res.Sweeps) != 8 {
		t.Fatalf("expected 8 sweeps (one per objective), got %d", len(res.Sweeps))
	}
	scheduled := make(map[string]int)
	for _, s := range res.Sweeps {
		for _, st := range s.Steps {
			scheduled[st.TaskID]++
		}
	}
	for _, tk := range tasks {
		if scheduled[tk.ID] != 2 {
			t.Errorf("task %s: expected both objectives scheduled, got %d", tk.ID, scheduled[tk.ID])
		}
	}
}

func TestOptimize_ManyObjectivesPerTaskFullyScheduled(t *testing.T) {
	maps := []string{"Woods", "Customs", "Factory", "Shoreline"}
	var tasks []graph.Task
	for i := 0; i < 3; i++ {
		var requires []string
		if i > 0 {
			requires = []string{fmt.Sprintf("t%d", i-1)}
		}
		var objs []graph.Objective
		for j, m := range maps {
			objs = append(objs, obj(fmt.Sprintf("o%d", j), "Visit "+m, m))
		}
		tasks = append(tasks, task(fmt.Sprintf("t%d", i), requires, objs...))
	}
	req := baseRequest(tasks...)
	req.AllowedMaps = DefaultAllowedMaps()

	res := Optimize(req)

	if len(res.Sweeps) != 12 {
		t.Fatalf("expected 12 sweeps, got %d", len(res.Sweeps))
	}
	last := res.Sweeps[len(res.Sweeps)-1]
	if last.Steps[0].TaskID != "t2" {
		t.Errorf("expected the last sweep to finish t2, got %+v", last.Steps)
	}
}

func TestOptimize_PlaceholderAfterEmptyIDObjective(t *testing.T) {
	req := baseRequest(task("a", nil,
		obj("", "Talk to the trader"),
		obj("w", "Survive", "Labs"),
	))

	res := Optimize(req)

	if len(res.Sweeps) != 2 {
		t.Fatalf("expected real step then placeholder, got %+v", res.Sweeps)
	}
	first, second := res.Sweeps[0].Steps[0], res.Sweeps[1].Steps[0]
	if first.Placeholder || first.ObjectiveID != "" {
		t.Errorf("expected the empty-id objective first, got %+v", first)
	}
	if !second.Placeholder {
		t.Errorf("expected a placeholder for the unreachable objective, got %+v", second)
	}
	if first.Key() == second.Key() {
		t.Errorf("placeholder key %q collides with objective key", second.Key())
	}
}

func TestOptimize_CompletedEmptyIDObjectiveKeepsPlaceholder(t *testing.T) {
	req := baseRequest(task("a", nil,
		obj("", "Talk to the trader"),
		obj("w", "Survive", "Labs"),
	))
	req.CompletedObjectives = map[string]bool{graph.ObjectiveKey("a", ""): true}

	res := Optimize(req)

	if len(res.Sweeps) != 1 || !res.Sweeps[0].Steps[0].Placeholder {
		t.Fatalf("expected a single placeholder sweep, got %+v", res.Sweeps)
	}
}
