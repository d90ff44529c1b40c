package optimizer

import (
	"regexp"
	"strings"
)

// focusReach is the hop count at which a task stops earning a focus bonus.
const focusReach = 5

var itemVerbs = regexp.MustCompile(`(?i)find|hand over|obtain|deliver|mark`)

// score rates one map bucket: distinct tasks, plus focus and kappa bonuses,
// minus key and item penalties read off the objective text.
func score(steps []SweepStep, focus map[string]int, req Request) float64 {
	unique := uniqueTaskIDs(steps)
	base := float64(len(unique))

	bonus := 0.0
	for _, id := range unique {
		if d, ok := focus[id]; ok {
			bonus += float64(max(0, focusReach-min(focusReach, d)))
		}
	}

	if req.Flags.KappaFocus {
		kappa := 0
		for _, s := range steps {
			if s.KappaRequired {
				kappa++
			}
		}
		bonus += 1.5 * float64(kappa)
	}

	penalties := 0.0
	for _, s := range steps {
		desc := strings.ToLower(s.Description)
		if strings.Contains(desc, "key") && !req.Flags.IgnoreMissingKeys && !mentionsAny(desc, req.Inventory.Keys) {
			penalties += req.Weights.MissingKeyPenalty / 50
		}
		if itemVerbs.MatchString(desc) && !mentionsAny(desc, req.Inventory.Items) {
			penalties += req.Weights.MissingItemPenalty / 100
		}
	}

	return base + bonus - penalties
}

// estimateCost discounts the map switch penalty for crowded sweeps and for
// sweeps that advance focus targets. Both discounts stack.
func estimateCost(unique []string, focus map[string]int, w Weights) float64 {
	cost := w.MapSwitchPenalty
	switch n := len(unique); {
	case n >= 5:
		cost *= 0.8
	case n >= 3:
		cost *= 0.9
	}

	chain := 0
	for _, id := range unique {
		if _, ok := focus[id]; ok {
			chain++
		}
	}
	switch {
	case chain >= 3:
		cost *= 0.85
	case chain >= 1:
		cost *= 0.93
	}
	return cost
}

// mentionsAny reports whether the lowercased text contains any non-blank
// needle, case-insensitively.
func mentionsAny(lower string, needles []string) bool {
	for _, n := range needles {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" && strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
