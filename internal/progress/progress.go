// Package progress persists what the player has done: completed quests and
// objectives, item hand-in counts, hideout levels, player level and the
// route planner settings. Every mutation is undoable per scope.
package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Oddey86/TarkovBuddy/internal/graph"
	"github.com/Oddey86/TarkovBuddy/internal/hideout"
	"github.com/Oddey86/TarkovBuddy/internal/optimizer"
)

const (
	stateFile   = "progress.json"
	historyFile = "history.json"
)

// Player level bounds accepted by SetPlayerLevel.
const (
	MinPlayerLevel = 1
	MaxPlayerLevel = 79
)

var (
	ErrInvalidLevel  = errors.New("player level out of range")
	ErrNothingToUndo = errors.New("nothing to undo")
)

// PlannerSettings are the route screen inputs remembered between runs.
type PlannerSettings struct {
	Weights      optimizer.Weights   `json:"weights"`
	Flags        optimizer.Flags     `json:"flags"`
	FocusTargets []string            `json:"focus_targets,omitempty"`
	AllowedMaps  []string            `json:"allowed_maps,omitempty"`
	Inventory    optimizer.Inventory `json:"inventory"`
}

// State is the persisted progress document. Id lists are kept sorted.
type State struct {
	PlayerLevel         int              `json:"player_level,omitempty"`
	CompletedQuests     []string         `json:"completed_quests,omitempty"`
	CompletedObjectives []string         `json:"completed_objectives,omitempty"` // "taskId:objectiveId"
	QuestItemCounts     map[string]int   `json:"quest_item_counts,omitempty"`
	HideoutItemCounts   map[string]int   `json:"hideout_item_counts,omitempty"`
	HideoutSelected     map[string]bool  `json:"hideout_selected_levels,omitempty"`
	HideoutCompleted    map[string]bool  `json:"hideout_completed_levels,omitempty"`
	Planner             *PlannerSettings `json:"planner,omitempty"`
}

// Store is a file-backed progress document.
type Store struct {
	mu      sync.Mutex
	path    string
	state   State
	history *History
}

// Open loads <dir>/progress.json, creating dir if needed. A nil history
// loads <dir>/history.json with the default limit.
func Open(dir string, history *History) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	if history == nil {
		h, err := LoadHistory(filepath.Join(dir, historyFile), DefaultHistoryLimit)
		if err != nil {
			log.Printf("warning: discarding undo history: %v", err)
			h = NewHistory(DefaultHistoryLimit)
			h.path = filepath.Join(dir, historyFile)
		}
		history = h
	}

	s := &Store{
		path:    filepath.Join(dir, stateFile),
		state:   State{PlayerLevel: MinPlayerLevel},
		history: history,
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("parse progress: %w", err)
	}
	if s.state.PlayerLevel < MinPlayerLevel {
		s.state.PlayerLevel = MinPlayerLevel
	}
	return s, nil
}

// State returns a copy of the current document.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// PlayerLevel returns the stored player level.
func (s *Store) PlayerLevel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.PlayerLevel
}

// CompletedSet returns completed quest ids as a set.
func (s *Store) CompletedSet() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toSet(s.state.CompletedQuests)
}

// CompletedObjectiveSet returns completed objective keys as a set.
func (s *Store) CompletedObjectiveSet() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toSet(s.state.CompletedObjectives)
}

// CompleteQuest marks a quest and any given prerequisites completed.
func (s *Store) CompleteQuest(id string, prerequisites ...string) error {
	return s.mutate(ScopeQuest, func(st *State) {
		set := toSet(st.CompletedQuests)
		set[id] = true
		for _, p := range prerequisites {
			set[p] = true
		}
		st.CompletedQuests = fromSet(set)
	})
}

// UncompleteQuest removes a quest from the completed list.
func (s *Store) UncompleteQuest(id string) error {
	return s.mutate(ScopeQuest, func(st *State) {
		set := toSet(st.CompletedQuests)
		delete(set, id)
		st.CompletedQuests = fromSet(set)
	})
}

// ToggleObjective flips one objective and reports its new state.
func (s *Store) ToggleObjective(taskID, objectiveID string) (bool, error) {
	key := graph.ObjectiveKey(taskID, objectiveID)
	var done bool
	err := s.mutate(ScopeQuest, func(st *State) {
		set := toSet(st.CompletedObjectives)
		if set[key] {
			delete(set, key)
		} else {
			set[key] = true
			done = true
		}
		st.CompletedObjectives = fromSet(set)
	})
	return done, err
}

// SetPlayerLevel stores the player level. Values outside
// MinPlayerLevel..MaxPlayerLevel are rejected with ErrInvalidLevel.
func (s *Store) SetPlayerLevel(level int) error {
	if level < MinPlayerLevel || level > MaxPlayerLevel {
		return fmt.Errorf("%d: %w", level, ErrInvalidLevel)
	}
	return s.mutate(ScopeQuest, func(st *State) {
		st.PlayerLevel = level
	})
}

// SetQuestItemCount stores a quest item hand-in count, clamped at zero.
func (s *Store) SetQuestItemCount(key string, count int) error {
	return s.mutate(ScopeQuestItems, func(st *State) {
		if st.QuestItemCounts == nil {
			st.QuestItemCounts = make(map[string]int)
		}
		st.QuestItemCounts[key] = max(0, count)
	})
}

// SetHideoutItemCount stores a hideout item count under a
// "station:level:item" key, clamped at zero.
func (s *Store) SetHideoutItemCount(key string, count int) error {
	return s.mutate(ScopeHideout, func(st *State) {
		if st.HideoutItemCounts == nil {
			st.HideoutItemCounts = make(map[string]int)
		}
		st.HideoutItemCounts[key] = max(0, count)
	})
}

// ToggleHideoutLevel flips whether a "station:level" is selected.
func (s *Store) ToggleHideoutLevel(key string) (bool, error) {
	var selected bool
	err := s.mutate(ScopeHideout, func(st *State) {
		if st.HideoutSelected == nil {
			st.HideoutSelected = make(map[string]bool)
		}
		selected = !st.HideoutSelected[key]
		st.HideoutSelected[key] = selected
	})
	return selected, err
}

// SelectHideoutLevels replaces the selection with the given level keys.
func (s *Store) SelectHideoutLevels(selected bool, keys []string) error {
	return s.mutate(ScopeHideout, func(st *State) {
		st.HideoutSelected = make(map[string]bool, len(keys))
		for _, k := range keys {
			st.HideoutSelected[k] = selected
		}
	})
}

// ToggleHideoutLevelCompleted flips whether a "station:level" is built.
func (s *Store) ToggleHideoutLevelCompleted(key string) (bool, error) {
	var done bool
	err := s.mutate(ScopeHideout, func(st *State) {
		if st.HideoutCompleted == nil {
			st.HideoutCompleted = make(map[string]bool)
		}
		done = !st.HideoutCompleted[key]
		st.HideoutCompleted[key] = done
	})
	return done, err
}

// HideoutSelection returns the hideout part of the document for
// hideout.Aggregate.
func (s *Store) HideoutSelection(includeCurrency bool) hideout.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.state.clone()
	return hideout.Selection{
		Selected:        c.HideoutSelected,
		Completed:       c.HideoutCompleted,
		Counts:          c.HideoutItemCounts,
		IncludeCurrency: includeCurrency,
	}
}

// Planner returns the remembered planner settings, or nil if none were saved.
func (s *Store) Planner() *PlannerSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone().Planner
}

// SetPlanner remembers planner settings.
func (s *Store) SetPlanner(p PlannerSettings) error {
	return s.mutate(ScopeOptimizer, func(st *State) {
		st.Planner = clonePlanner(&p)
	})
}

// Undo restores scope's fields to their value before the last mutation in
// that scope. Other scopes are left untouched.
func (s *Store) Undo(scope Scope) error {
	if !validScope(scope) {
		return fmt.Errorf("unknown undo scope %q", scope)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok, err := s.history.Pop(scope)
	if err != nil {
		log.Printf("warning: could not persist undo history: %v", err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", scope, ErrNothingToUndo)
	}

	next := s.state.clone()
	next.restore(scope, snap)
	if err := s.write(next); err != nil {
		if perr := s.history.Push(scope, snap); perr != nil {
			log.Printf("warning: could not persist undo history: %v", perr)
		}
		return err
	}
	s.state = next
	return nil
}

// UndoCount returns how many undo steps scope has.
func (s *Store) UndoCount(scope Scope) int {
	return s.history.Len(scope)
}

// ParseScope validates a scope name.
func ParseScope(name string) (Scope, error) {
	scope := Scope(name)
	if !validScope(scope) {
		return "", fmt.Errorf("unknown undo scope %q (want one of %v)", name, Scopes)
	}
	return scope, nil
}

// PrerequisiteClosure returns every task id that id transitively requires,
// sorted. Ids missing from the catalog are included but not expanded.
func PrerequisiteClosure(tasks []graph.Task, id string) []string {
	byID := make(map[string]*graph.Task, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = &tasks[i]
	}

	seen := make(map[string]bool)
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		t, ok := byID[cur]
		if !ok {
			continue
		}
		for _, req := range t.Requires {
			if req == id || seen[req] {
				continue
			}
			seen[req] = true
			queue = append(queue, req)
		}
	}
	return fromSet(seen)
}

func (s *Store) mutate(scope Scope, fn func(st *State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The change lands in memory and history only once it is on disk.
	next := s.state.clone()
	fn(&next)
	if err := s.write(next); err != nil {
		return err
	}
	if err := s.history.Push(scope, s.state.scoped(scope)); err != nil {
		log.Printf("warning: could not persist undo history: %v", err)
	}
	s.state = next
	return nil
}

func (s *Store) write(st State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

// scoped copies only the fields owned by scope.
func (st State) scoped(scope Scope) State {
	c := st.clone()
	var out State
	switch scope {
	case ScopeQuest:
		out.PlayerLevel = c.PlayerLevel
		out.CompletedQuests = c.CompletedQuests
		out.CompletedObjectives = c.CompletedObjectives
	case ScopeQuestItems:
		out.QuestItemCounts = c.QuestItemCounts
	case ScopeHideout:
		out.HideoutItemCounts = c.HideoutItemCounts
		out.HideoutSelected = c.HideoutSelected
		out.HideoutCompleted = c.HideoutCompleted
	case ScopeOptimizer:
		out.Planner = c.Planner
	}
	return out
}

func (st *State) restore(scope Scope, snap State) {
	switch scope {
	case ScopeQuest:
		st.PlayerLevel = max(MinPlayerLevel, snap.PlayerLevel)
		st.CompletedQuests = snap.CompletedQuests
		st.CompletedObjectives = snap.CompletedObjectives
	case ScopeQuestItems:
		st.QuestItemCounts = snap.QuestItemCounts
	case ScopeHideout:
		st.HideoutItemCounts = snap.HideoutItemCounts
		st.HideoutSelected = snap.HideoutSelected
		st.HideoutCompleted = snap.HideoutCompleted
	case ScopeOptimizer:
		st.Planner = snap.Planner
	}
}

func (st State) clone() State {
	return State{
		PlayerLevel:         st.PlayerLevel,
		CompletedQuests:     append([]string(nil), st.CompletedQuests...),
		CompletedObjectives: append([]string(nil), st.CompletedObjectives...),
		QuestItemCounts:     cloneMap(st.QuestItemCounts),
		HideoutItemCounts:   cloneMap(st.HideoutItemCounts),
		HideoutSelected:     cloneMap(st.HideoutSelected),
		HideoutCompleted:    cloneMap(st.HideoutCompleted),
		Planner:             clonePlanner(st.Planner),
	}
}

func clonePlanner(p *PlannerSettings) *PlannerSettings {
	if p == nil {
		return nil
	}
	c := *p
	c.FocusTargets = append([]string(nil), p.FocusTargets...)
	c.AllowedMaps = append([]string(nil), p.AllowedMaps...)
	c.Inventory.Keys = append([]string(nil), p.Inventory.Keys...)
	c.Inventory.Items = append([]string(nil), p.Inventory.Items...)
	return &c
}

func cloneMap[V any](m map[string]V) map[string]V {
	if m == nil {
		return nil
	}
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func validScope(scope Scope) bool {
	for _, s := range Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func fromSet(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id, ok := range set {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
