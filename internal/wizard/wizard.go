package wizard

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// RoutineSpec holds all fields collected during the interactive wizard.
type RoutineSpec struct {
	Name     string
	Elements []string
	Phases   []string
}

const routineYAMLTemplate = `name: {{ .Name }}
elements:
{{- range .Elements }}
  - id: {{ . }}
    name: {{ . }}
    start: 0.0
    duration: 1.0
{{- end }}
{{- if .Phases }}
phase_markers:
{{- range .Phases }}
  - name: {{ . }}
    time: 0.0
{{- end }}
{{- end }}
`

// RunRoutineWizard runs an interactive huh form to collect routine metadata.
// If initialName is non-empty, it pre-populates the name field.
func RunRoutineWizard(in io.Reader, out io.Writer, initialName string) (*RoutineSpec, error) {
	var (
		name        = initialName
		elementsRaw string
		phasesRaw   string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Routine name").
				Description("A short name for this routine").
				Placeholder("qualifying-routine").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Element ids").
				Description("Comma-separated ids, in performance order").
				Placeholder("flair-1, travel-1, dismount").
				Value(&elementsRaw).
				Validate(func(s string) error {
					if len(splitAndTrim(s)) == 0 {
						return fmt.Errorf("at least one element is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Phase markers").
				Description("Comma-separated phase names, or empty for none").
				Placeholder("mount, dismount").
				Value(&phasesRaw),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return &RoutineSpec{
		Name:     strings.TrimSpace(name),
		Elements: splitAndTrim(elementsRaw),
		Phases:   splitAndTrim(phasesRaw),
	}, nil
}

// GenerateRoutineYAML renders a routine file from the given spec. Timing
// fields are zeroed placeholders for the author to fill in.
func GenerateRoutineYAML(spec *RoutineSpec) (string, error) {
	tmpl, err := template.New("routine").Parse(routineYAMLTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
