package optimizer

import "github.com/Oddey86/TarkovBuddy/internal/graph"

// AllMaps lists the in-game maps a route can visit.
var AllMaps = []string{
	"Factory", "Customs", "Woods", "Shoreline", "Interchange",
	"Reserve", "Labs", "Lighthouse", "Streets", "Ground Zero",
}

// DefaultAllowedMaps returns every map plus the Unknown sentinel.
func DefaultAllowedMaps() map[string]bool {
	m := make(map[string]bool, len(AllMaps)+1)
	for _, name := range AllMaps {
		m[name] = true
	}
	m[graph.UnknownMap] = true
	return m
}

// Weights tune the heuristic scoring. All values are non-negative.
type Weights struct {
	MapSwitchPenalty   float64 `json:"map_switch_penalty" yaml:"map_switch_penalty"`
	MissingKeyPenalty  float64 `json:"missing_key_penalty" yaml:"missing_key_penalty"`
	MissingItemPenalty float64 `json:"missing_item_penalty" yaml:"missing_item_penalty"`
}

// DefaultWeights returns the weights the route screen uses out of the box.
func DefaultWeights() Weights {
	return Weights{
		MapSwitchPenalty:   100,
		MissingKeyPenalty:  50,
		MissingItemPenalty: 30,
	}
}

// Flags toggle optional scoring biases.
type Flags struct {
	KappaFocus        bool `json:"kappa_focus" yaml:"kappa_focus"`
	IgnoreMissingKeys bool `json:"ignore_missing_keys" yaml:"ignore_missing_keys"`
}

// Inventory holds free-text key and item names, matched as substrings of
// objective descriptions.
type Inventory struct {
	Keys  []string `json:"keys" yaml:"keys"`
	Items []string `json:"items" yaml:"items"`
}

// Request is the full input of one optimization run.
type Request struct {
	Tasks               []graph.Task
	PlayerLevel         int
	Completed           map[string]bool
	Weights             Weights
	Flags               Flags
	FocusTargets        map[string]bool
	AllowedMaps         map[string]bool
	Inventory           Inventory
	CompletedObjectives map[string]bool // "taskId:objectiveId"
}

// SweepStep is one objective assigned to one map.
type SweepStep struct {
	TaskID        string   `json:"task_id"`
	TaskName      string   `json:"task_name"`
	ObjectiveID   string   `json:"objective_id,omitempty"`
	Description   string   `json:"description"`
	Trader        string   `json:"trader,omitempty"`
	KappaRequired bool     `json:"kappa_required"`
	NeededKeys    []string `json:"needed_keys"`
	Map           string   `json:"map"`
	// Placeholder marks the synthetic step emitted for a task whose
	// objectives have no allowed map. It carries no objective id.
	Placeholder bool `json:"placeholder,omitempty"`
}

// Key returns the composite objective key of the step. Placeholders use
// PlaceholderKey so they never collide with an objective that has an
// empty id.
func (s SweepStep) Key() string {
	if s.Placeholder {
		return PlaceholderKey(s.TaskID)
	}
	return graph.ObjectiveKey(s.TaskID, s.ObjectiveID)
}

// PlaceholderKey is the consumption key of a task's placeholder step.
func PlaceholderKey(taskID string) string {
	return taskID + "#placeholder"
}

// Sweep is a single visit to one map.
type Sweep struct {
	Map           string      `json:"map"`
	Steps         []SweepStep `json:"steps"`
	UniqueTasks   int         `json:"unique_tasks"`
	EstimatedCost float64     `json:"estimated_cost"`
}

// Result is the ordered visit plan plus aggregate statistics.
type Result struct {
	Sweeps     []Sweep `json:"sweeps"`
	TotalScore float64 `json:"total_score"`
	TotalTasks int     `json:"total_tasks"` // counts a task once per sweep it appears in
	Efficiency float64 `json:"efficiency"`
}
