package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/Oddey86/TarkovBuddy/internal/graph"
	"github.com/Oddey86/TarkovBuddy/internal/hideout"
	"github.com/Oddey86/TarkovBuddy/internal/ui"
)

// PrintTiers writes the unlock layers of the eligible task graph. focus maps
// task ids to their distance from a focus target.
func PrintTiers(w io.Writer, g *graph.TaskGraph, tiers [][]string, blocked []string, focus map[string]int) {
	fmt.Fprintf(w, "🔗 %s\n", ui.BoldCyan("Quest Unlock Graph"))
	fmt.Fprintln(w, ui.Cyan("══════════════════"))
	fmt.Fprintln(w)

	adj := g.Edges()
	for i, tier := range tiers {
		fmt.Fprintf(w, "%s Tier %d (%s) %s\n", ui.Cyan("──"), i+1, ui.TierStatus(i), ui.Cyan("──────────────────────"))
		for _, id := range tier {
			t := g.Tasks[id]
			mark := " "
			if d, ok := focus[id]; ok {
				if d == 0 {
					mark = ui.BoldYellow("★")
				} else {
					mark = ui.Yellow(fmt.Sprint(d))
				}
			}
			fmt.Fprintf(w, "  %s %s %s\n", mark, ui.TaskPrefix(id, t.Name), ui.Dim(t.Trader))
			for _, dep := range adj[id] {
				fmt.Fprintf(w, "      %s %s\n", ui.Dim("└──→"), ui.Magenta(g.Tasks[dep].Name))
			}
		}
		fmt.Fprintln(w)
	}

	if len(blocked) > 0 {
		fmt.Fprintf(w, "%s %d tasks can never unlock:\n", ui.BoldRed("⊘"), len(blocked))
		for _, id := range blocked {
			fmt.Fprintf(w, "    %s %s\n", ui.StatusIcon("locked"), g.Tasks[id].Name)
		}
		if cycle := g.DetectCycle(); cycle != nil {
			fmt.Fprintf(w, "    %s %s\n", ui.Red("cycle:"), strings.Join(cycle, " → "))
		}
	}
}

// WriteDOT writes the eligible task graph in Graphviz format. Focus targets
// are drawn bold, kappa tasks in gold.
func WriteDOT(w io.Writer, g *graph.TaskGraph, focus map[string]int) {
	fmt.Fprintln(w, "digraph tarkovbuddy {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box, style=rounded];")
	fmt.Fprintln(w)

	for _, id := range g.Order {
		t := g.Tasks[id]
		label := strings.ReplaceAll(t.Name, `"`, `\"`)
		if t.Trader != "" {
			label += `\n` + t.Trader
		}
		attrs := fmt.Sprintf(`label="%s"`, label)
		if d, ok := focus[id]; ok && d == 0 {
			attrs += `, style="rounded,bold", color=red`
		} else if t.KappaRequired {
			attrs += `, color=goldenrod`
		}
		fmt.Fprintf(w, "  %q [%s];\n", id, attrs)
	}

	fmt.Fprintln(w)

	adj := g.Edges()
	for _, from := range g.Order {
		for _, to := range adj[from] {
			style := ""
			if _, ok := focus[from]; ok {
				if _, ok := focus[to]; ok {
					style = " [color=red, penwidth=2]"
				}
			}
			fmt.Fprintf(w, "  %q -> %q%s;\n", from, to, style)
		}
	}

	fmt.Fprintln(w, "}")
}

// PrintHideout writes outstanding hideout items, most needed first.
func PrintHideout(w io.Writer, items []hideout.Outstanding) {
	fmt.Fprintf(w, "🏠 %s\n", ui.BoldCyan("Hideout Shopping List"))
	fmt.Fprintln(w, ui.Cyan("═════════════════════"))

	if len(items) == 0 {
		fmt.Fprintf(w, "  %s\n", ui.Green("Nothing outstanding for the selected levels."))
		return
	}

	for _, o := range items {
		icon := ui.StatusIcon("available")
		if o.Remaining() == 0 {
			icon = ui.StatusIcon("completed")
		}
		name := o.Item.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		fmt.Fprintf(w, "  %s %-40s %s\n", icon, name,
			ui.Dim(fmt.Sprintf("%d/%d", o.Collected, o.Needed)))
	}
}
