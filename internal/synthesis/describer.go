// Package synthesis defines the handoff to the external narrative
// collaborator. The engine never inspects the returned prose; everything
// here is deterministic request construction.
package synthesis

import (
	"context"
	"fmt"
	"strings"

	"github.com/kinemetric/pommel/internal/models"
)

// Style selects the register the collaborator should write in.
type Style string

const (
	StyleTechnical   Style = "technical"
	StyleArtistic    Style = "artistic"
	StyleCompetitive Style = "competitive"
)

// ParseStyle converts a string flag value to a Style.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "technical":
		return StyleTechnical, nil
	case "artistic":
		return StyleArtistic, nil
	case "competitive":
		return StyleCompetitive, nil
	default:
		return StyleTechnical, fmt.Errorf("invalid style %q: must be technical, artistic, or competitive", s)
	}
}

// Describer is the opaque external collaborator: it accepts assembled
// parameters and returns free-form narrative text.
type Describer interface {
	Describe(ctx context.Context, req *Request) (string, error)
}

// Request is the sole input the collaborator consumes.
type Request struct {
	Style      Style
	FocusAreas []string
	Parameters *models.AssembledParameters
}

// NewRequest builds a synthesis request. Empty focus means all areas.
func NewRequest(params *models.AssembledParameters, style Style, focus []string) *Request {
	return &Request{Style: style, FocusAreas: focus, Parameters: params}
}

// Prompt renders the request as the deterministic structured text the
// collaborator receives. Identical parameters always render identically.
func (r *Request) Prompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "routine: %s\n", r.Parameters.Routine)
	fmt.Fprintf(&b, "style: %s\n", r.Style)
	if len(r.FocusAreas) > 0 {
		fmt.Fprintf(&b, "focus: %s\n", strings.Join(r.FocusAreas, ", "))
	}

	b.WriteString("classifications:\n")
	for _, cl := range r.Parameters.Classifications {
		fmt.Fprintf(&b, "  - %s %s=%s (%.2f via %s)\n", cl.ElementID, cl.Axis, cl.ConceptID, cl.Confidence, cl.RuleID)
	}
	b.WriteString("facts:\n")
	for _, f := range r.Parameters.Facts {
		scope := "routine"
		if f.ElementID != "" {
			scope = f.ElementID
		} else if f.Span != nil {
			scope = f.Span.FirstID + ".." + f.Span.LastID
		}
		if f.Null {
			fmt.Fprintf(&b, "  - %s %s: null\n", scope, f.Name)
			continue
		}
		fmt.Fprintf(&b, "  - %s %s: %.4f", scope, f.Name, f.Value)
		if f.ConceptID != "" {
			fmt.Fprintf(&b, " (%s)", f.ConceptID)
		}
		b.WriteString("\n")
	}
	if len(r.Parameters.Notes) > 0 {
		b.WriteString("bridge notes:\n")
		for _, n := range r.Parameters.Notes {
			fmt.Fprintf(&b, "  - %s %s: kept %s, dropped %s\n", n.ElementID, n.Axis, n.Kept.ConceptID, n.Dropped.ConceptID)
		}
	}
	if len(r.Parameters.Gaps) > 0 {
		fmt.Fprintf(&b, "unclassified axes: %d\n", len(r.Parameters.Gaps))
	}
	return b.String()
}
