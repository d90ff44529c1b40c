package hideout

import (
	"fmt"
	"sort"
	"strings"
)

// Item is a catalog item referenced by a hideout requirement.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IconLink string `json:"icon_link,omitempty"`
}

// Requirement is one item cost of a station level.
type Requirement struct {
	Item  Item `json:"item"`
	Count int  `json:"count"`
}

// Level is a single upgrade level of a station.
type Level struct {
	Level        int           `json:"level"`
	Requirements []Requirement `json:"item_requirements"`
}

// Station is a hideout module with its upgrade levels.
type Station struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Levels []Level `json:"levels"`
}

// LevelKey identifies a station level, e.g. "lavatory:2".
func LevelKey(stationID string, level int) string {
	return fmt.Sprintf("%s:%d", stationID, level)
}

// ItemKey identifies one requirement of a station level.
func ItemKey(stationID string, level int, itemID string) string {
	return fmt.Sprintf("%s:%d:%s", stationID, level, itemID)
}

// IsCurrency reports whether an item name is one of the trader currencies.
func IsCurrency(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "rouble") ||
		strings.Contains(lower, "euro") ||
		strings.Contains(lower, "dollar")
}

// Outstanding is the aggregated remaining need for one item.
type Outstanding struct {
	Item      Item `json:"item"`
	Needed    int  `json:"needed"`
	Collected int  `json:"collected"`
}

// Remaining returns how many more are needed.
func (o Outstanding) Remaining() int {
	return max(0, o.Needed-o.Collected)
}

// Selection describes which levels the player is working toward and what
// they have already handed in.
type Selection struct {
	Selected  map[string]bool // level keys
	Completed map[string]bool // level keys
	Counts    map[string]int  // item keys
	// IncludeCurrency keeps roubles, euros and dollars in the totals.
	IncludeCurrency bool
}

// Aggregate sums item requirements over selected, not-completed levels.
// Results are sorted by remaining count, then by item name.
func Aggregate(stations []Station, sel Selection) []Outstanding {
	byItem := make(map[string]*Outstanding)
	var order []string

	for _, st := range stations {
		for _, lvl := range st.Levels {
			lk := LevelKey(st.ID, lvl.Level)
			if !sel.Selected[lk] || sel.Completed[lk] {
				continue
			}
			for _, req := range lvl.Requirements {
				if !sel.IncludeCurrency && IsCurrency(req.Item.Name) {
					continue
				}
				o, ok := byItem[req.Item.ID]
				if !ok {
					o = &Outstanding{Item: req.Item}
					byItem[req.Item.ID] = o
					order = append(order, req.Item.ID)
				}
				o.Needed += req.Count
				o.Collected += min(req.Count, sel.Counts[ItemKey(st.ID, lvl.Level, req.Item.ID)])
			}
		}
	}

	out := make([]Outstanding, 0, len(order))
	for _, id := range order {
		out = append(out, *byItem[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Remaining() != out[j].Remaining() {
			return out[i].Remaining() > out[j].Remaining()
		}
		return out[i].Item.Name < out[j].Item.Name
	})
	return out
}
