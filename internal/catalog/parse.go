package catalog

import (
	"log"

	"github.com/tidwall/gjson"

	"github.com/Oddey86/TarkovBuddy/internal/graph"
	"github.com/Oddey86/TarkovBuddy/internal/hideout"
)

// ParseTasks maps the loosely shaped "tasks" array of a catalog data object
// into strict task records. Missing fields get their defaults here so the
// planner never has to guess: no requirements, no maps, level 1.
func ParseTasks(data []byte) []graph.Task {
	var tasks []graph.Task
	gjson.GetBytes(data, "tasks").ForEach(func(_, q gjson.Result) bool {
		id := q.Get("id").String()
		if id == "" {
			log.Printf("warning: skipping catalog task without id: %.80s", q.Raw)
			return true
		}

		t := graph.Task{
			ID:             id,
			Name:           q.Get("name").String(),
			Trader:         q.Get("trader.name").String(),
			MinPlayerLevel: int(q.Get("minPlayerLevel").Int()),
			KappaRequired:  q.Get("kappaRequired").Bool(),
			Requires:       []string{},
			Objectives:     []graph.Objective{},
			NeededKeys:     []string{},
		}
		if t.MinPlayerLevel <= 0 {
			t.MinPlayerLevel = 1
		}

		q.Get("taskRequirements").ForEach(func(_, r gjson.Result) bool {
			if req := r.Get("task.id").String(); req != "" {
				t.Requires = append(t.Requires, req)
			}
			return true
		})

		q.Get("objectives").ForEach(func(_, o gjson.Result) bool {
			obj := graph.Objective{
				ID:          o.Get("id").String(),
				Description: o.Get("description").String(),
			}
			o.Get("maps").ForEach(func(_, m gjson.Result) bool {
				if name := m.Get("name").String(); name != "" {
					obj.Maps = append(obj.Maps, name)
				}
				return true
			})
			t.Objectives = append(t.Objectives, obj)
			return true
		})

		q.Get("neededKeys").ForEach(func(_, group gjson.Result) bool {
			group.Get("keys").ForEach(func(_, k gjson.Result) bool {
				if name := k.Get("name").String(); name != "" {
					t.NeededKeys = append(t.NeededKeys, name)
				}
				return true
			})
			return true
		})

		tasks = append(tasks, t)
		return true
	})
	return tasks
}

// ParseHideout maps the "hideoutStations" array of a data object.
func ParseHideout(data []byte) []hideout.Station {
	var stations []hideout.Station
	gjson.GetBytes(data, "hideoutStations").ForEach(func(_, s gjson.Result) bool {
		st := hideout.Station{
			ID:   s.Get("id").String(),
			Name: s.Get("name").String(),
		}
		s.Get("levels").ForEach(func(_, l gjson.Result) bool {
			lvl := hideout.Level{Level: int(l.Get("level").Int())}
			l.Get("itemRequirements").ForEach(func(_, r gjson.Result) bool {
				lvl.Requirements = append(lvl.Requirements, hideout.Requirement{
					Item: hideout.Item{
						ID:       r.Get("item.id").String(),
						Name:     r.Get("item.name").String(),
						IconLink: r.Get("item.iconLink").String(),
					},
					Count: int(r.Get("count").Int()),
				})
				return true
			})
			st.Levels = append(st.Levels, lvl)
			return true
		})
		stations = append(stations, st)
		return true
	})
	return stations
}
