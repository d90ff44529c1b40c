package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Scope names an independent undo stack.
type Scope string

const (
	ScopeQuest      Scope = "quest"
	ScopeQuestItems Scope = "questItems"
	ScopeHideout    Scope = "hideout"
	ScopeOptimizer  Scope = "optimizer"
)

// Scopes lists every undo scope.
var Scopes = []Scope{ScopeQuest, ScopeQuestItems, ScopeHideout, ScopeOptimizer}

// DefaultHistoryLimit caps each scope's stack.
const DefaultHistoryLimit = 50

// History keeps bounded stacks of pre-mutation snapshots, one per scope.
// The oldest entry is dropped once a stack exceeds its limit.
type History struct {
	Limit  int               `json:"limit"`
	Stacks map[Scope][]State `json:"stacks"`

	mu   sync.Mutex
	path string
}

// NewHistory creates an in-memory history. A non-positive limit falls back
// to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{Limit: limit, Stacks: make(map[Scope][]State)}
}

// LoadHistory reads a history file, returning an empty history when the
// file does not exist. Subsequent pushes and pops are written back to path.
func LoadHistory(path string, limit int) (*History, error) {
	h := NewHistory(limit)
	h.path = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var stored History
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	for scope, stack := range stored.Stacks {
		if len(stack) > h.Limit {
			stack = stack[len(stack)-h.Limit:]
		}
		h.Stacks[scope] = stack
	}
	return h, nil
}

// Push records a snapshot for scope.
func (h *History) Push(scope Scope, snap State) error {
	h.mu.Lock()
	stack := append(h.Stacks[scope], snap)
	if len(stack) > h.Limit {
		stack = stack[len(stack)-h.Limit:]
	}
	h.Stacks[scope] = stack
	h.mu.Unlock()
	return h.save()
}

// Pop removes and returns the newest snapshot for scope.
func (h *History) Pop(scope Scope) (State, bool, error) {
	h.mu.Lock()
	stack := h.Stacks[scope]
	if len(stack) == 0 {
		h.mu.Unlock()
		return State{}, false, nil
	}
	snap := stack[len(stack)-1]
	h.Stacks[scope] = stack[:len(stack)-1]
	h.mu.Unlock()
	return snap, true, h.save()
}

// Len returns the number of undo steps available for scope.
func (h *History) Len(scope Scope) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.Stacks[scope])
}

// Clear empties one scope.
func (h *History) Clear(scope Scope) error {
	h.mu.Lock()
	delete(h.Stacks, scope)
	h.mu.Unlock()
	return h.save()
}

func (h *History) save() error {
	if h.path == "" {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return os.WriteFile(h.path, data, 0644)
}
