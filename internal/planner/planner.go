package planner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Oddey86/TarkovBuddy/internal/graph"
	"github.com/Oddey86/TarkovBuddy/internal/optimizer"
)

// Generate wraps an optimizer result into a RoutePlan. req must be the
// request that produced result.
func Generate(req optimizer.Request, result *optimizer.Result) *RoutePlan {
	now := time.Now()
	plan := &RoutePlan{
		ID:           fmt.Sprintf("route-%s-%s", now.Format("2006-01-02-150405"), uuid.NewString()[:8]),
		CreatedAt:    now,
		TotalSweeps:  len(result.Sweeps),
		TotalTasks:   result.TotalTasks,
		TotalScore:   result.TotalScore,
		Efficiency:   result.Efficiency,
		AvailableNow: graph.AvailableNow(req.Tasks, req.PlayerLevel, req.Completed),
		Tasks:        make(map[string]*PlannedTask),
		Deps: TaskDeps{
			Requires:   make(map[string][]string),
			Dependents: make(map[string][]string),
		},
		Config: configFrom(req),
	}

	byID := make(map[string]*graph.Task, len(req.Tasks))
	for i := range req.Tasks {
		byID[req.Tasks[i].ID] = &req.Tasks[i]
	}

	for i, s := range result.Sweeps {
		ps := PlannedSweep{
			Index:         i,
			Map:           s.Map,
			Steps:         s.Steps,
			UniqueTasks:   s.UniqueTasks,
			EstimatedCost: s.EstimatedCost,
		}
		plan.Sweeps = append(plan.Sweeps, ps)

		for _, step := range s.Steps {
			pt, ok := plan.Tasks[step.TaskID]
			if !ok {
				pt = &PlannedTask{
					TaskID:        step.TaskID,
					Name:          step.TaskName,
					Trader:        step.Trader,
					KappaRequired: step.KappaRequired,
					IsFocus:       req.FocusTargets[step.TaskID],
				}
				plan.Tasks[step.TaskID] = pt
			}
			if n := len(pt.Sweeps); n == 0 || pt.Sweeps[n-1] != i {
				pt.Sweeps = append(pt.Sweeps, i)
			}
			if !contains(pt.Maps, s.Map) {
				pt.Maps = append(pt.Maps, s.Map)
			}
		}
	}

	// Dependency view restricted to routed tasks.
	for id := range plan.Tasks {
		t := byID[id]
		if t == nil {
			continue
		}
		for _, pre := range t.Requires {
			if _, ok := plan.Tasks[pre]; !ok || pre == id {
				continue
			}
			plan.Deps.Requires[id] = append(plan.Deps.Requires[id], pre)
			plan.Deps.Dependents[pre] = append(plan.Deps.Dependents[pre], id)
		}
	}
	for _, m := range []map[string][]string{plan.Deps.Requires, plan.Deps.Dependents} {
		for k := range m {
			sort.Strings(m[k])
		}
	}

	// A sweep depends on the sweep where each prerequisite finishes.
	for i := range plan.Sweeps {
		seen := make(map[int]bool)
		for _, step := range plan.Sweeps[i].Steps {
			for _, pre := range plan.Deps.Requires[step.TaskID] {
				sw := plan.Tasks[pre].Sweeps
				last := sw[len(sw)-1]
				if last < i && !seen[last] {
					seen[last] = true
					plan.Sweeps[i].DependsOn = append(plan.Sweeps[i].DependsOn, last)
				}
			}
		}
		sort.Ints(plan.Sweeps[i].DependsOn)
	}

	return plan
}

// Save writes plan as indented JSON, creating parent directories.
func Save(plan *RoutePlan, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create plan dir: %w", err)
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a plan written by Save.
func Load(path string) (*RoutePlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	var plan RoutePlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	return &plan, nil
}

func configFrom(req optimizer.Request) PlanConfig {
	return PlanConfig{
		PlayerLevel:  req.PlayerLevel,
		Weights:      req.Weights,
		Flags:        req.Flags,
		FocusTargets: sortedKeys(req.FocusTargets),
		AllowedMaps:  sortedKeys(req.AllowedMaps),
		Inventory:    req.Inventory,
	}
}

func sortedKeys(m map[string]bool) []string {
	var out []string
	for k, ok := range m {
		if ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
