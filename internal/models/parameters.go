package models

import "fmt"

// Axis is one of the four independent classification dimensions.
type Axis string

const (
	AxisElementGroup    Axis = "element_group"
	AxisZone            Axis = "zone"
	AxisTemporalQuality Axis = "temporal_quality"
	AxisFormDescriptor  Axis = "form_descriptor"
)

// AllAxes lists the axes in bridge-priority order, highest priority first.
var AllAxes = []Axis{AxisElementGroup, AxisZone, AxisTemporalQuality, AxisFormDescriptor}

var axisRank = map[Axis]int{
	AxisElementGroup:    0,
	AxisZone:            1,
	AxisTemporalQuality: 2,
	AxisFormDescriptor:  3,
}

// Rank returns the axis's bridge priority; lower outranks higher.
func (a Axis) Rank() int {
	r, ok := axisRank[a]
	if !ok {
		return len(axisRank)
	}
	return r
}

// Valid reports whether a is a known axis.
func (a Axis) Valid() bool {
	_, ok := axisRank[a]
	return ok
}

// ParseAxis converts a string to an Axis.
func ParseAxis(s string) (Axis, error) {
	a := Axis(s)
	if !a.Valid() {
		return "", fmt.Errorf("invalid axis %q: must be element_group, zone, temporal_quality, or form_descriptor", s)
	}
	return a, nil
}

// SourceKind identifies which stage produced a claim.
type SourceKind string

const (
	SourceClassifier SourceKind = "classifier"
	SourceSpatial    SourceKind = "spatial"
	SourceTemporal   SourceKind = "temporal"
	SourceForm       SourceKind = "form"
)

var sourceRank = map[SourceKind]int{
	SourceClassifier: 0,
	SourceSpatial:    1,
	SourceTemporal:   2,
	SourceForm:       3,
}

// Rank orders sources for bridge tie-breaks when two claims share an axis;
// the classifier outranks every analyzer.
func (s SourceKind) Rank() int {
	r, ok := sourceRank[s]
	if !ok {
		return len(sourceRank)
	}
	return r
}

// Classification is one accepted (element, concept) assignment.
type Classification struct {
	ElementID  string  `json:"element_id"`
	ConceptID  string  `json:"concept_id"`
	Axis       Axis    `json:"axis"`
	Confidence float64 `json:"confidence"`
	RuleID     string  `json:"rule_id"`
}

// Span identifies a contiguous run of elements by first and last id.
type Span struct {
	FirstID string `json:"first_id"`
	LastID  string `json:"last_id"`
}

// AnalysisFact is one derived, axis-tagged metric. ElementID and Span are
// both empty for routine-level facts.
type AnalysisFact struct {
	Name      string         `json:"name"`
	Analyzer  SourceKind     `json:"analyzer"`
	Axis      Axis           `json:"axis"`
	ElementID string         `json:"element_id,omitempty"`
	Span      *Span          `json:"span,omitempty"`
	ConceptID string         `json:"concept_id,omitempty"`
	Value     float64        `json:"value"`
	Null      bool           `json:"null,omitempty"`
	Detail    map[string]any `json:"detail,omitempty"`
}

// Claim names one side of a resolved contradiction: the source stage, the
// rule id or fact name that produced it, and the concept it asserted.
type Claim struct {
	Source    SourceKind `json:"source"`
	Ref       string     `json:"ref"`
	ConceptID string     `json:"concept_id"`
}

// BridgeNote records one contradiction the assembler resolved. No
// contradiction is dropped without one of these.
type BridgeNote struct {
	ElementID string `json:"element_id"`
	Axis      Axis   `json:"axis"`
	Kept      Claim  `json:"kept"`
	Dropped   Claim  `json:"dropped"`
	Reason    string `json:"reason"`
}

// AxisGap records that an element received no accepted classification on an
// axis. This is a valid outcome, not an error.
type AxisGap struct {
	ElementID string `json:"element_id"`
	Axis      Axis   `json:"axis"`
}

// AssembledParameters is the engine's sole output: the cross-referenced
// parameter structure handed to the synthesis collaborator. Immutable once
// produced; owned by the caller after return.
type AssembledParameters struct {
	Routine         string           `json:"routine"`
	Classifications []Classification `json:"classifications"`
	Facts           []AnalysisFact   `json:"facts"`
	Notes           []BridgeNote     `json:"notes"`
	Gaps            []AxisGap        `json:"gaps,omitempty"`
}
