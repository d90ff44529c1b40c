package planner

import (
	"time"

	"github.com/Oddey86/TarkovBuddy/internal/optimizer"
)

// TaskDeps holds per-task prerequisite and dependent lists, restricted to
// tasks that appear in the route.
type TaskDeps struct {
	Requires   map[string][]string `json:"requires"`
	Dependents map[string][]string `json:"dependents"`
}

// RoutePlan is an optimizer result wrapped with the inputs that produced it.
type RoutePlan struct {
	ID           string                  `json:"id"`
	CreatedAt    time.Time               `json:"created_at"`
	TotalSweeps  int                     `json:"total_sweeps"`
	TotalTasks   int                     `json:"total_tasks"`
	TotalScore   float64                 `json:"total_score"`
	Efficiency   float64                 `json:"efficiency"`
	AvailableNow int                     `json:"available_now"`
	Sweeps       []PlannedSweep          `json:"sweeps"`
	Tasks        map[string]*PlannedTask `json:"tasks"`
	Deps         TaskDeps                `json:"deps"`
	Config       PlanConfig              `json:"config"`
}

// PlannedSweep is one map visit of the route.
type PlannedSweep struct {
	Index         int                   `json:"index"`
	Map           string                `json:"map"`
	Steps         []optimizer.SweepStep `json:"steps"`
	UniqueTasks   int                   `json:"unique_tasks"`
	EstimatedCost float64               `json:"estimated_cost"`
	// DependsOn lists earlier sweeps that finish a prerequisite of a task
	// in this sweep.
	DependsOn []int `json:"depends_on,omitempty"`
}

// PlannedTask is the flat per-task view of the route.
type PlannedTask struct {
	TaskID        string   `json:"task_id"`
	Name          string   `json:"name"`
	Trader        string   `json:"trader,omitempty"`
	KappaRequired bool     `json:"kappa_required"`
	IsFocus       bool     `json:"is_focus"`
	Sweeps        []int    `json:"sweeps"`
	Maps          []string `json:"maps"`
}

// PlanConfig records the inputs of the optimization run.
type PlanConfig struct {
	PlayerLevel  int                 `json:"player_level"`
	Weights      optimizer.Weights   `json:"weights"`
	Flags        optimizer.Flags     `json:"flags"`
	FocusTargets []string            `json:"focus_targets,omitempty"`
	AllowedMaps  []string            `json:"allowed_maps"`
	Inventory    optimizer.Inventory `json:"inventory"`
}
