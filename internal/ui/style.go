package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	Magenta     = color.New(color.FgMagenta).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// PrintLogo renders the colored logo to stderr.
func PrintLogo() {
	w := os.Stderr
	frame := color.New(color.FgGreen)
	grid := color.New(color.FgGreen, color.Faint)
	sep := color.New(color.FgGreen)
	brand := color.New(color.Bold, color.FgYellow)
	tag := color.New(color.Faint)

	fmt.Fprintln(w)
	frame.Fprintln(w, "   +------------------------------+")
	grid.Fprintln(w, "   |  .  x  .  .  x  .  .  x  .  |")
	sep.Fprintln(w, "   |==============================|")
	brand.Fprintln(w, "   |  T A R K O V  B U D D Y      |")
	sep.Fprintln(w, "   |==============================|")
	grid.Fprintln(w, "   |  x  .  .  x  .  .  x  .  .  |")
	frame.Fprintln(w, "   +------------------------------+")
	tag.Fprintf(w, "   %s Quest route planning\n", Dim("🗺️"))
	fmt.Fprintln(w)
}

var mapEmojis = map[string]string{
	"Factory":     "🏭",
	"Customs":     "🏗️",
	"Woods":       "🌲",
	"Shoreline":   "🏖️",
	"Interchange": "🏬",
	"Reserve":     "🏛️",
	"Labs":        "🔬",
	"Lighthouse":  "🗼",
	"Streets":     "🏙️",
	"Ground Zero": "⚡",
	"Unknown":     "❓",
}

// MapEmoji returns the icon for a map, or a generic map icon.
func MapEmoji(name string) string {
	if e, ok := mapEmojis[name]; ok {
		return e
	}
	return "🗺️"
}

// taskColors is a palette of distinct bold colors for differentiating tasks.
var taskColors = []func(a ...interface{}) string{
	BoldMagenta,
	BoldCyan,
	BoldYellow,
	BoldGreen,
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

// taskColorIndex hashes a task ID to a palette index.
func taskColorIndex(taskID string) int {
	var h uint32
	for _, c := range taskID {
		h = h*31 + uint32(c)
	}
	return int(h % uint32(len(taskColors)))
}

// TaskPrefix returns a colored [name] label. The same id always gets the
// same color.
func TaskPrefix(taskID, name string) string {
	c := taskColors[taskColorIndex(taskID)]
	return Dim("[") + c(name) + Dim("]")
}

// StatusIcon returns a colored icon for a task state.
func StatusIcon(status string) string {
	switch status {
	case "completed":
		return Green("✓")
	case "available":
		return Cyan("●")
	case "focus":
		return BoldYellow("★")
	case "placeholder":
		return Yellow("?")
	case "locked":
		return Dim("⊘")
	default:
		return Dim("◌")
	}
}

// TierStatus returns a colored tier label: tier 0 is playable now.
func TierStatus(tier int) string {
	if tier == 0 {
		return Green("available")
	}
	return Dim(fmt.Sprintf("after %d", tier))
}
