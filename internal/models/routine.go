package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Position is one support point in apparatus coordinates. X runs along the
// horse length normalized to [0,1] (0 = left end, 1 = right end), Y is height
// above the apparatus surface in the same normalized scale.
type Position struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	// Support optionally names the hand support used at this point, e.g.
	// "between_pommels", "single_pommel", "leather_only".
	Support string `yaml:"support,omitempty" json:"support,omitempty"`
}

// FormMetadata carries the already-extracted execution observations for one
// element. All of it comes from the ingestion side; nothing here is measured
// by this engine.
type FormMetadata struct {
	// LegPosition is the observed leg configuration: "together", "split" or
	// "straddle".
	LegPosition string `yaml:"leg_position" json:"leg_position"`
	// ExtensionRatio estimates how close the body is to full extension, in [0,1].
	ExtensionRatio float64 `yaml:"extension_ratio" json:"extension_ratio"`
	// Amplitude estimates swing/leg height relative to the ideal, in [0,1].
	Amplitude float64 `yaml:"amplitude" json:"amplitude"`

	// Execution flags. False means the fault was not observed.
	LegsBent   bool `yaml:"legs_bent,omitempty" json:"legs_bent,omitempty"`
	ToesFlexed bool `yaml:"toes_flexed,omitempty" json:"toes_flexed,omitempty"`
	Brushed    bool `yaml:"brushed,omitempty" json:"brushed,omitempty"`
	Hit        bool `yaml:"hit,omitempty" json:"hit,omitempty"`
}

// RoutineElement is one discrete movement unit. Immutable once ingested.
type RoutineElement struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	// Start and Duration are in seconds from routine start.
	Start     float64       `yaml:"start" json:"start"`
	Duration  float64       `yaml:"duration" json:"duration"`
	Positions []Position    `yaml:"positions,omitempty" json:"positions,omitempty"`
	Form      *FormMetadata `yaml:"form,omitempty" json:"form,omitempty"`
}

// End returns the element's end time in seconds.
func (e *RoutineElement) End() float64 { return e.Start + e.Duration }

// HasTiming reports whether the element carries usable timing data.
func (e *RoutineElement) HasTiming() bool { return e.Duration > 0 }

// HasPositions reports whether the element carries any position data.
func (e *RoutineElement) HasPositions() bool { return len(e.Positions) > 0 }

// CenterX returns the mean X coordinate of the element's positions.
// The second return is false when no positions are present.
func (e *RoutineElement) CenterX() (float64, bool) {
	if len(e.Positions) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, p := range e.Positions {
		sum += p.X
	}
	return sum / float64(len(e.Positions)), true
}

// PhaseMarker is an expected phase boundary supplied with the input, e.g.
// "mount", "midpoint", "dismount".
type PhaseMarker struct {
	Name string  `yaml:"name" json:"name"`
	Time float64 `yaml:"time" json:"time"`
}

// Routine is one complete described routine: the sole input to a
// classification pass.
type Routine struct {
	Name         string           `yaml:"name" json:"name"`
	Elements     []RoutineElement `yaml:"elements" json:"elements"`
	PhaseMarkers []PhaseMarker    `yaml:"phase_markers,omitempty" json:"phase_markers,omitempty"`
}

// LoadRoutine reads and validates a routine from a YAML file.
func LoadRoutine(path string) (*Routine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRoutine(data)
}

// ParseRoutine parses and validates a routine from YAML bytes.
func ParseRoutine(data []byte) (*Routine, error) {
	var r Routine
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing routine: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks structural requirements: unique non-empty element ids and
// non-negative timing.
func (r *Routine) Validate() error {
	if len(r.Elements) == 0 {
		return fmt.Errorf("routine %q has no elements", r.Name)
	}
	seen := make(map[string]bool, len(r.Elements))
	for i, el := range r.Elements {
		if el.ID == "" {
			return fmt.Errorf("element at index %d has an empty id", i)
		}
		if seen[el.ID] {
			return fmt.Errorf("duplicate element id %q", el.ID)
		}
		seen[el.ID] = true
		if el.Name == "" {
			return fmt.Errorf("element %q has an empty name", el.ID)
		}
		if el.Start < 0 || el.Duration < 0 {
			return fmt.Errorf("element %q has negative timing", el.ID)
		}
	}
	return nil
}

// Element returns the element with the given id.
func (r *Routine) Element(id string) (*RoutineElement, bool) {
	for i := range r.Elements {
		if r.Elements[i].ID == id {
			return &r.Elements[i], true
		}
	}
	return nil, false
}

// Duration returns the total routine span in seconds, from the earliest start
// to the latest end.
func (r *Routine) Duration() float64 {
	if len(r.Elements) == 0 {
		return 0
	}
	start := r.Elements[0].Start
	end := r.Elements[0].End()
	for _, el := range r.Elements[1:] {
		if el.Start < start {
			start = el.Start
		}
		if el.End() > end {
			end = el.End()
		}
	}
	return end - start
}
