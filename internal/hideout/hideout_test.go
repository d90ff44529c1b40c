package hideout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bolts   = Item{ID: "bolts", Name: "Bolts"}
	screws  = Item{ID: "screws", Name: "Screw nuts"}
	roubles = Item{ID: "rub", Name: "Roubles"}
)

func fixtureStations() []Station {
	return []Station{
		{
			ID: "lav", Name: "Lavatory",
			Levels: []Level{
				{Level: 1, Requirements: []Requirement{{Item: bolts, Count: 2}, {Item: roubles, Count: 2000}}},
				{Level: 2, Requirements: []Requirement{{Item: screws, Count: 5}}},
			},
		},
		{
			ID: "ws", Name: "Workbench",
			Levels: []Level{
				{Level: 1, Requirements: []Requirement{{Item: bolts, Count: 3}}},
			},
		},
	}
}

func TestAggregateSumsSelectedLevels(t *testing.T) {
	sel := Selection{
		Selected: map[string]bool{"lav:1": true, "ws:1": true},
		Counts:   map[string]int{ItemKey("lav", 1, "bolts"): 1},
	}
	out := Aggregate(fixtureStations(), sel)

	require.Len(t, out, 1)
	assert.Equal(t, "Bolts", out[0].Item.Name)
	assert.Equal(t, 5, out[0].Needed)
	assert.Equal(t, 1, out[0].Collected)
	assert.Equal(t, 4, out[0].Remaining())
}

func TestAggregateSkipsCompletedAndUnselected(t *testing.T) {
	sel := Selection{
		Selected:  map[string]bool{"lav:1": true, "lav:2": true},
		Completed: map[string]bool{"lav:1": true},
	}
	out := Aggregate(fixtureStations(), sel)

	require.Len(t, out, 1)
	assert.Equal(t, "Screw nuts", out[0].Item.Name)
	assert.Equal(t, 5, out[0].Needed)
}

func TestAggregateCurrency(t *testing.T) {
	sel := Selection{Selected: map[string]bool{"lav:1": true}}
	assert.Len(t, Aggregate(fixtureStations(), sel), 1)

	sel.IncludeCurrency = true
	out := Aggregate(fixtureStations(), sel)
	require.Len(t, out, 2)
	assert.Equal(t, "Roubles", out[0].Item.Name, "largest remaining sorts first")
}

func TestAggregateCapsCollected(t *testing.T) {
	sel := Selection{
		Selected: map[string]bool{"ws:1": true},
		Counts:   map[string]int{ItemKey("ws", 1, "bolts"): 99},
	}
	out := Aggregate(fixtureStations(), sel)
	require.Len(t, out, 1)
	assert.Equal(t, 3, out[0].Collected)
	assert.Zero(t, out[0].Remaining())
}

func TestAggregateOrdering(t *testing.T) {
	sel := Selection{Selected: map[string]bool{"lav:1": true, "lav:2": true, "ws:1": true}}
	out := Aggregate(fixtureStations(), sel)
	require.Len(t, out, 2)
	assert.Equal(t, "Bolts", out[0].Item.Name)
	assert.Equal(t, "Screw nuts", out[1].Item.Name)
}

func TestKeysAndCurrency(t *testing.T) {
	assert.Equal(t, "lav:2", LevelKey("lav", 2))
	assert.Equal(t, "lav:2:bolts", ItemKey("lav", 2, "bolts"))
	assert.True(t, IsCurrency("Euros"))
	assert.True(t, IsCurrency("Dollars"))
	assert.False(t, IsCurrency("Bolts"))
}
