package server

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/Oddey86/TarkovBuddy/internal/graph"
	"github.com/Oddey86/TarkovBuddy/internal/optimizer"
)

// OptimizeRequest is the JSON body of POST /optimize. When Tasks is empty
// the server's catalog is used.
type OptimizeRequest struct {
	Tasks               []graph.Task        `json:"tasks,omitempty"`
	PlayerLevel         int                 `json:"player_level"`
	Completed           []string            `json:"completed"`
	CompletedObjectives []string            `json:"completed_objectives"`
	Weights             *optimizer.Weights  `json:"weights,omitempty"`
	Flags               optimizer.Flags     `json:"flags"`
	FocusTargets        []string            `json:"focus_targets"`
	AllowedMaps         []string            `json:"allowed_maps"`
	Inventory           optimizer.Inventory `json:"inventory"`
}

// Validate rejects requests the optimizer cannot serve.
func (r *OptimizeRequest) Validate() error {
	if r.PlayerLevel < 1 || r.PlayerLevel > 79 {
		return fmt.Errorf("player_level must be between 1 and 79, got %d", r.PlayerLevel)
	}
	if w := r.Weights; w != nil {
		if w.MapSwitchPenalty < 0 || w.MissingKeyPenalty < 0 || w.MissingItemPenalty < 0 {
			return fmt.Errorf("weights must be non-negative")
		}
	}
	return nil
}

// Resolve turns the wire request into an optimizer request over tasks.
// Missing weights and allowed maps take their defaults.
func (r *OptimizeRequest) Resolve(tasks []graph.Task) optimizer.Request {
	w := optimizer.DefaultWeights()
	if r.Weights != nil {
		w = *r.Weights
	}
	allowed := optimizer.DefaultAllowedMaps()
	if len(r.AllowedMaps) > 0 {
		allowed = toSet(r.AllowedMaps)
	}
	return optimizer.Request{
		Tasks:               tasks,
		PlayerLevel:         r.PlayerLevel,
		Completed:           toSet(r.Completed),
		Weights:             w,
		Flags:               r.Flags,
		FocusTargets:        toSet(r.FocusTargets),
		AllowedMaps:         allowed,
		Inventory:           r.Inventory,
		CompletedObjectives: toSet(r.CompletedObjectives),
	}
}

// Fingerprint hashes the resolved request. Set-valued inputs are sorted so
// that equivalent requests share a fingerprint.
func Fingerprint(req optimizer.Request) (uint64, error) {
	canon := struct {
		Tasks               []graph.Task        `json:"tasks"`
		PlayerLevel         int                 `json:"player_level"`
		Completed           []string            `json:"completed"`
		CompletedObjectives []string            `json:"completed_objectives"`
		Weights             optimizer.Weights   `json:"weights"`
		Flags               optimizer.Flags     `json:"flags"`
		FocusTargets        []string            `json:"focus_targets"`
		AllowedMaps         []string            `json:"allowed_maps"`
		Inventory           optimizer.Inventory `json:"inventory"`
	}{
		Tasks:               req.Tasks,
		PlayerLevel:         req.PlayerLevel,
		Completed:           sortedKeys(req.Completed),
		CompletedObjectives: sortedKeys(req.CompletedObjectives),
		Weights:             req.Weights,
		Flags:               req.Flags,
		FocusTargets:        sortedKeys(req.FocusTargets),
		AllowedMaps:         sortedKeys(req.AllowedMaps),
		Inventory:           req.Inventory,
	}
	data, err := json.Marshal(canon)
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}
	return xxhash.Sum64(data), nil
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		if s != "" {
			set[s] = true
		}
	}
	return set
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k, ok := range m {
		if ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
