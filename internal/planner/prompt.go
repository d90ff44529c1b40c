package planner

import (
	"bytes"
	"os"
	"strings"
	"text/template"
)

const defaultPromptTemplate = `You are a raid coordinator briefing a player on their next quest route.

## Route
Player level {{.Config.PlayerLevel}}, {{.TotalSweeps}} raids covering {{.TotalTasks}} task visits.
{{- if .Config.FocusTargets}}
Focus targets: {{join .Config.FocusTargets ", "}}
{{- end}}
{{range .Sweeps}}
### Raid {{inc .Index}}: {{.Map}} ({{.UniqueTasks}} tasks)
{{- range .Steps}}
- {{.TaskName}}{{if .Trader}} [{{.Trader}}]{{end}}: {{if .Placeholder}}no map data, check the task manually{{else}}{{.Description}}{{end}}
{{- if .NeededKeys}} (keys: {{join .NeededKeys ", "}}){{end}}
{{- end}}
{{end}}
## Instructions
1. Summarize each raid in two or three sentences.
2. Call out keys or items the player should bring.
3. Keep the raids in the given order; later raids unlock from earlier ones.
`

// RenderPrompt renders the briefing prompt for a plan using either a custom
// template file or the default.
func RenderPrompt(plan *RoutePlan, templatePath string) (string, error) {
	tmplStr := defaultPromptTemplate
	if templatePath != "" {
		content, err := os.ReadFile(templatePath)
		if err != nil {
			return "", err
		}
		tmplStr = string(content)
	}

	tmpl, err := template.New("prompt").Funcs(template.FuncMap{
		"join": strings.Join,
		"inc":  func(i int) int { return i + 1 },
	}).Parse(tmplStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, plan); err != nil {
		return "", err
	}
	return buf.String(), nil
}
