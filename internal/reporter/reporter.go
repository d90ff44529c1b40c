package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Oddey86/TarkovBuddy/internal/planner"
	"github.com/Oddey86/TarkovBuddy/internal/ui"
)

// Reporter renders a route plan for the terminal or as JSON.
type Reporter struct {
	Plan *planner.RoutePlan
}

// New creates a new Reporter.
func New(plan *planner.RoutePlan) *Reporter {
	return &Reporter{Plan: plan}
}

// PrintRoute writes the sweeps in visiting order, one block per raid.
func (r *Reporter) PrintRoute(w io.Writer) {
	p := r.Plan
	fmt.Fprintf(w, "%s — %s %d — %d raids, %d task visits %s\n\n",
		ui.BoldCyan("🗺️ TarkovBuddy Route"),
		ui.Bold("Level"), p.Config.PlayerLevel,
		p.TotalSweeps, p.TotalTasks,
		ui.Dim(fmt.Sprintf("[%d available now]", p.AvailableNow)))

	if len(p.Sweeps) == 0 {
		fmt.Fprintf(w, "  %s\n", ui.Green("Nothing left to route."))
		return
	}

	for _, s := range p.Sweeps {
		deps := ui.Dim("independent")
		if len(s.DependsOn) > 0 {
			deps = ui.Dim("after raid " + joinInts(s.DependsOn, 1))
		}
		fmt.Fprintf(w, "  %s %s %d  %s  (%d tasks, cost %.1f, %s)\n",
			ui.MapEmoji(s.Map), ui.BoldWhite("RAID"), s.Index+1, ui.Bold(s.Map),
			s.UniqueTasks, s.EstimatedCost, deps)

		for _, step := range s.Steps {
			r.printStep(w, step.TaskID, step.TaskName, step.Description, step.NeededKeys, step.Placeholder)
		}
		fmt.Fprintln(w)
	}
}

func (r *Reporter) printStep(w io.Writer, taskID, name, desc string, keys []string, placeholder bool) {
	status := "available"
	if placeholder {
		status = "placeholder"
		desc = ui.Yellow("no map data, check this task manually")
	}

	marks := ""
	if pt := r.Plan.Tasks[taskID]; pt != nil {
		if pt.IsFocus {
			status = "focus"
		}
		if pt.KappaRequired {
			marks += " " + ui.BoldYellow("κ")
		}
	}

	if len(desc) > 70 {
		desc = desc[:67] + "..."
	}

	keyCol := ""
	if len(keys) > 0 {
		keyCol = "  " + ui.Dim("🔑 "+strings.Join(keys, ", "))
	}

	fmt.Fprintf(w, "    %s %s%s %s%s\n", ui.StatusIcon(status), ui.TaskPrefix(taskID, name), marks, desc, keyCol)
}

// JSON returns the plan as indented JSON.
func (r *Reporter) JSON() ([]byte, error) {
	return json.MarshalIndent(r.Plan, "", "  ")
}

// Summary returns a short per-map breakdown of the route.
func (r *Reporter) Summary() string {
	var b strings.Builder
	p := r.Plan

	visits := make(map[string]int)
	var order []string
	for _, s := range p.Sweeps {
		if _, ok := visits[s.Map]; !ok {
			order = append(order, s.Map)
		}
		visits[s.Map]++
	}

	kappa, focus := 0, 0
	for _, t := range p.Tasks {
		if t.KappaRequired {
			kappa++
		}
		if t.IsFocus {
			focus++
		}
	}

	fmt.Fprintf(&b, "\n%s %s\n", "🎯", ui.BoldCyan("Route Summary"))
	fmt.Fprintf(&b, "%s\n", ui.Cyan("═════════════════"))
	fmt.Fprintf(&b, "Plan:       %s\n", ui.Dim(p.ID))
	fmt.Fprintf(&b, "Raids:      %d\n", p.TotalSweeps)
	fmt.Fprintf(&b, "Tasks:      %d distinct, %d visits\n", len(p.Tasks), p.TotalTasks)
	fmt.Fprintf(&b, "Efficiency: %.2f\n", p.Efficiency)
	fmt.Fprintf(&b, "Score:      %.1f\n", p.TotalScore)
	if kappa > 0 || focus > 0 {
		fmt.Fprintf(&b, "Kappa:      %d   Focus: %d\n", kappa, focus)
	}

	if len(order) > 0 {
		fmt.Fprintf(&b, "Maps:      ")
		for _, m := range order {
			fmt.Fprintf(&b, " %s %s×%d", ui.MapEmoji(m), m, visits[m])
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}

// MapCounts returns the number of raids per map, sorted by map name.
func (r *Reporter) MapCounts() []MapCount {
	counts := make(map[string]int)
	for _, s := range r.Plan.Sweeps {
		counts[s.Map]++
	}
	out := make([]MapCount, 0, len(counts))
	for m, n := range counts {
		out = append(out, MapCount{Map: m, Raids: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Map < out[j].Map })
	return out
}

// MapCount is the number of raids routed to one map.
type MapCount struct {
	Map   string `json:"map"`
	Raids int    `json:"raids"`
}

func joinInts(ns []int, offset int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n + offset)
	}
	return strings.Join(parts, ", ")
}
