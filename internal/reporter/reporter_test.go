package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/Oddey86/TarkovBuddy/internal/graph"
	"github.com/Oddey86/TarkovBuddy/internal/hideout"
	"github.com/Oddey86/TarkovBuddy/internal/optimizer"
	"github.com/Oddey86/TarkovBuddy/internal/planner"
)

func init() {
	color.NoColor = true
}

func makePlan() *planner.RoutePlan {
	return &planner.RoutePlan{
		ID:           "test-route",
		TotalSweeps:  2,
		TotalTasks:   3,
		Efficiency:   1.5,
		AvailableNow: 2,
		Config:       planner.PlanConfig{PlayerLevel: 12},
		Sweeps: []planner.PlannedSweep{
			{
				Index: 0, Map: "Customs", UniqueTasks: 2, EstimatedCost: 80,
				Steps: []optimizer.SweepStep{
					{TaskID: "a", TaskName: "Debut", Description: "Eliminate 5 Scavs", Map: "Customs"},
					{TaskID: "b", TaskName: "Checking", Description: "Find the watch", NeededKeys: []string{"Tarcone key"}, Map: "Customs"},
				},
			},
			{
				Index: 1, Map: "Factory", UniqueTasks: 1, EstimatedCost: 100, DependsOn: []int{0},
				Steps: []optimizer.SweepStep{
					{TaskID: "c", TaskName: "Shortage", Map: "Factory", Placeholder: true},
				},
			},
		},
		Tasks: map[string]*planner.PlannedTask{
			"a": {TaskID: "a", Name: "Debut", KappaRequired: true},
			"b": {TaskID: "b", Name: "Checking"},
			"c": {TaskID: "c", Name: "Shortage", IsFocus: true},
		},
	}
}

func TestPrintRoute(t *testing.T) {
	var buf bytes.Buffer
	New(makePlan()).PrintRoute(&buf)
	out := buf.String()

	for _, want := range []string{
		"Level 12",
		"2 raids, 3 task visits",
		"RAID 1  Customs",
		"RAID 2  Factory",
		"after raid 1",
		"[Debut] κ Eliminate 5 Scavs",
		"Tarcone key",
		"no map data",
		"★",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q\n%s", want, out)
		}
	}
	if !strings.Contains(out, "🏗️") || !strings.Contains(out, "🏭") {
		t.Error("output should carry map emojis")
	}
}

func TestPrintRoute_Empty(t *testing.T) {
	var buf bytes.Buffer
	New(&planner.RoutePlan{ID: "empty"}).PrintRoute(&buf)
	if !strings.Contains(buf.String(), "Nothing left to route") {
		t.Errorf("expected empty route message, got:\n%s", buf.String())
	}
}

func TestPrintRoute_TruncatesLongDescriptions(t *testing.T) {
	plan := makePlan()
	plan.Sweeps[0].Steps[0].Description = strings.Repeat("x", 120)
	var buf bytes.Buffer
	New(plan).PrintRoute(&buf)
	if strings.Contains(buf.String(), strings.Repeat("x", 71)) {
		t.Error("long descriptions should be truncated")
	}
}

func TestJSON(t *testing.T) {
	data, err := New(makePlan()).JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var decoded planner.RoutePlan
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != "test-route" || len(decoded.Sweeps) != 2 {
		t.Errorf("unexpected decoded plan %+v", decoded)
	}
}

func TestSummary(t *testing.T) {
	s := New(makePlan()).Summary()
	for _, want := range []string{"test-route", "Raids:      2", "3 distinct", "Kappa:      1   Focus: 1", "Customs×1", "Factory×1"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary should contain %q\n%s", want, s)
		}
	}
}

func TestMapCounts(t *testing.T) {
	plan := makePlan()
	plan.Sweeps = append(plan.Sweeps, planner.PlannedSweep{Index: 2, Map: "Customs"})
	counts := New(plan).MapCounts()
	if len(counts) != 2 || counts[0].Map != "Customs" || counts[0].Raids != 2 {
		t.Errorf("unexpected counts %+v", counts)
	}
}

func tierGraph() *graph.TaskGraph {
	tasks := []graph.Task{
		{ID: "a", Name: "Alpha", Trader: "Prapor", MinPlayerLevel: 1},
		{ID: "b", Name: "Bravo", MinPlayerLevel: 1, Requires: []string{"a"}, KappaRequired: true},
		{ID: "x", Name: "Xray", MinPlayerLevel: 1, Requires: []string{"y"}},
		{ID: "y", Name: "Yankee", MinPlayerLevel: 1, Requires: []string{"x"}},
	}
	return graph.Eligible(tasks, 10, nil)
}

func TestPrintTiers(t *testing.T) {
	g := tierGraph()
	focus := g.FocusDistances(map[string]bool{"b": true})

	var buf bytes.Buffer
	PrintTiers(&buf, g, g.Tiers(nil), g.Blocked(nil), focus)
	out := buf.String()

	for _, want := range []string{"Tier 1 (available)", "Tier 2 (after 1)", "[Alpha]", "└──→ Bravo", "2 tasks can never unlock", "cycle:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q\n%s", want, out)
		}
	}
}

func TestWriteDOT(t *testing.T) {
	g := tierGraph()
	focus := g.FocusDistances(map[string]bool{"b": true})

	var buf bytes.Buffer
	WriteDOT(&buf, g, focus)
	out := buf.String()

	if !strings.HasPrefix(out, "digraph tarkovbuddy {") || !strings.HasSuffix(out, "}\n") {
		t.Errorf("malformed DOT output:\n%s", out)
	}
	if !strings.Contains(out, `"a" -> "b" [color=red, penwidth=2];`) {
		t.Errorf("focus edge should be highlighted:\n%s", out)
	}
	if !strings.Contains(out, `"x" -> "y";`) || !strings.Contains(out, `"y" -> "x";`) {
		t.Errorf("cycle edges should be present:\n%s", out)
	}
	if !strings.Contains(out, `label="Alpha\nPrapor"`) {
		t.Errorf("label should include trader:\n%s", out)
	}
}

func TestPrintHideout(t *testing.T) {
	var buf bytes.Buffer
	PrintHideout(&buf, []hideout.Outstanding{
		{Item: hideout.Item{Name: "Bolts"}, Needed: 5, Collected: 1},
		{Item: hideout.Item{Name: "Screw nuts"}, Needed: 2, Collected: 2},
	})
	out := buf.String()
	if !strings.Contains(out, "1/5") || !strings.Contains(out, "2/2") {
		t.Errorf("unexpected hideout output:\n%s", out)
	}

	buf.Reset()
	PrintHideout(&buf, nil)
	if !strings.Contains(buf.String(), "Nothing outstanding") {
		t.Errorf("expected empty message, got:\n%s", buf.String())
	}
}
