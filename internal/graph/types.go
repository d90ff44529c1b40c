package graph

// UnknownMap is the sentinel map for objectives that carry no map data.
const UnknownMap = "Unknown"

// Objective is a single sub-step of a task.
type Objective struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Maps        []string `json:"maps,omitempty"` // empty means map-agnostic
}

// Task is one quest from the catalog, already mapped into strict shape.
type Task struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Trader         string      `json:"trader,omitempty"`
	MinPlayerLevel int         `json:"min_player_level"`
	KappaRequired  bool        `json:"kappa_required"`
	Requires       []string    `json:"requires"`
	Objectives     []Objective `json:"objectives"`
	NeededKeys     []string    `json:"needed_keys,omitempty"`
}

// TaskGraph is the eligible working set of tasks plus its reverse
// dependency index.
type TaskGraph struct {
	Tasks      map[string]*Task    // eligible tasks by id
	Order      []string            // eligible task ids in catalog order
	Dependents map[string][]string // requirement id -> eligible tasks that require it
}

// ObjectiveKey returns the global "taskId:objectiveId" key of an objective.
func ObjectiveKey(taskID, objectiveID string) string {
	return taskID + ":" + objectiveID
}

// MapsOrUnknown returns the objective's maps, or [UnknownMap] if it has none.
func (o Objective) MapsOrUnknown() []string {
	if len(o.Maps) == 0 {
		return []string{UnknownMap}
	}
	return o.Maps
}
