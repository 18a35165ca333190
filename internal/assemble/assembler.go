// Package assemble merges classifications and analyzer facts into the final
// AssembledParameters, resolving cross-source contradictions with the fixed
// bridge priority order.
package assemble

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/kinemetric/pommel/internal/models"
	"github.com/kinemetric/pommel/internal/taxonomy"
)

// AssemblyError reports a caller-contract violation: an input collection
// referenced an element id that is not part of the routine. This is a
// programming error, never a data-quality issue, and is never retried.
type AssemblyError struct {
	ElementID string
	Source    string
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembly: unknown element id %q referenced by %s", e.ElementID, e.Source)
}

// Assembler composes the four stages' outputs into one coherent structure.
type Assembler struct {
	reg *taxonomy.Registry
}

// New creates an assembler backed by the given registry.
func New(reg *taxonomy.Registry) *Assembler {
	return &Assembler{reg: reg}
}

// claim is one concept assertion about an element, from either the
// classifier or an analyzer, ranked for bridge resolution.
type claim struct {
	source    models.SourceKind
	ref       string // rule id or fact name
	conceptID string
	axis      models.Axis
	clIndex   int // index into classifications, -1 for facts
	factIndex int // index into merged facts, -1 for classifications
}

func (c claim) outranks(other claim) bool {
	if c.axis.Rank() != other.axis.Rank() {
		return c.axis.Rank() < other.axis.Rank()
	}
	return c.source.Rank() < other.source.Rank()
}

func (c claim) toModel() models.Claim {
	return models.Claim{Source: c.source, Ref: c.ref, ConceptID: c.conceptID}
}

// Assemble merges the stage outputs for one routine. Facts are kept in
// analyzer order (spatial, temporal, form); classifications are reordered by
// element order, axis priority, confidence, and registration order.
func (a *Assembler) Assemble(r *models.Routine, classifications []models.Classification, spatial, temporal, form []models.AnalysisFact) (*models.AssembledParameters, error) {
	elemOrder := make(map[string]int, len(r.Elements))
	for i, el := range r.Elements {
		elemOrder[el.ID] = i
	}

	for _, cl := range classifications {
		if _, ok := elemOrder[cl.ElementID]; !ok {
			return nil, &AssemblyError{ElementID: cl.ElementID, Source: "classification " + cl.RuleID}
		}
	}
	facts := make([]models.AnalysisFact, 0, len(spatial)+len(temporal)+len(form))
	facts = append(facts, spatial...)
	facts = append(facts, temporal...)
	facts = append(facts, form...)
	for _, f := range facts {
		if f.ElementID != "" {
			if _, ok := elemOrder[f.ElementID]; !ok {
				return nil, &AssemblyError{ElementID: f.ElementID, Source: "fact " + f.Name}
			}
		}
		if f.Span != nil {
			for _, id := range [2]string{f.Span.FirstID, f.Span.LastID} {
				if _, ok := elemOrder[id]; !ok {
					return nil, &AssemblyError{ElementID: id, Source: "fact " + f.Name}
				}
			}
		}
	}

	notes, droppedCl, droppedFact := a.resolve(classifications, facts)

	params := &models.AssembledParameters{Routine: r.Name, Notes: notes}

	kept := make([]models.Classification, 0, len(classifications))
	for i, cl := range classifications {
		if !droppedCl[i] {
			kept = append(kept, cl)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if elemOrder[kept[i].ElementID] != elemOrder[kept[j].ElementID] {
			return elemOrder[kept[i].ElementID] < elemOrder[kept[j].ElementID]
		}
		if kept[i].Axis.Rank() != kept[j].Axis.Rank() {
			return kept[i].Axis.Rank() < kept[j].Axis.Rank()
		}
		if kept[i].Confidence != kept[j].Confidence {
			return kept[i].Confidence > kept[j].Confidence
		}
		return a.reg.Order(kept[i].ConceptID) < a.reg.Order(kept[j].ConceptID)
	})
	params.Classifications = kept

	params.Facts = make([]models.AnalysisFact, 0, len(facts))
	for i, f := range facts {
		if !droppedFact[i] {
			params.Facts = append(params.Facts, f)
		}
	}

	params.Gaps = gaps(r, kept)
	return params, nil
}

// resolve detects contradictory claims about the same element and resolves
// each by the bridge priority: axis rank first (ElementGroup > Zone >
// TemporalQuality > FormDescriptor), classifier before analyzers on equal
// axes. Every resolution produces exactly one note.
func (a *Assembler) resolve(classifications []models.Classification, facts []models.AnalysisFact) ([]models.BridgeNote, map[int]bool, map[int]bool) {
	var notes []models.BridgeNote
	droppedCl := make(map[int]bool)
	droppedFact := make(map[int]bool)

	byElement := make(map[string][]claim)
	for i, cl := range classifications {
		byElement[cl.ElementID] = append(byElement[cl.ElementID], claim{
			source:    models.SourceClassifier,
			ref:       cl.RuleID,
			conceptID: cl.ConceptID,
			axis:      cl.Axis,
			clIndex:   i,
			factIndex: -1,
		})
	}
	for i, f := range facts {
		if f.ElementID == "" || f.ConceptID == "" {
			continue
		}
		byElement[f.ElementID] = append(byElement[f.ElementID], claim{
			source:    f.Analyzer,
			ref:       f.Name,
			conceptID: f.ConceptID,
			axis:      f.Axis,
			clIndex:   -1,
			factIndex: i,
		})
	}

	elementIDs := make([]string, 0, len(byElement))
	for id := range byElement {
		elementIDs = append(elementIDs, id)
	}
	sort.Strings(elementIDs)

	for _, id := range elementIDs {
		claims := byElement[id]
		for i := 0; i < len(claims); i++ {
			for j := i + 1; j < len(claims); j++ {
				ci, cj := claims[i], claims[j]
				if a.alreadyDropped(ci, droppedCl, droppedFact) || a.alreadyDropped(cj, droppedCl, droppedFact) {
					continue
				}
				if ci.conceptID == cj.conceptID || !a.reg.Excludes(ci.conceptID, cj.conceptID) {
					continue
				}
				winner, loser := ci, cj
				if cj.outranks(ci) {
					winner, loser = cj, ci
				}
				if loser.clIndex >= 0 {
					droppedCl[loser.clIndex] = true
				} else {
					droppedFact[loser.factIndex] = true
				}
				notes = append(notes, models.BridgeNote{
					ElementID: id,
					Axis:      winner.axis,
					Kept:      winner.toModel(),
					Dropped:   loser.toModel(),
					Reason: fmt.Sprintf("%s %q excluded by %s %q; kept higher-priority source",
						loser.source, loser.conceptID, winner.source, winner.conceptID),
				})
				slog.Debug("bridge resolved contradiction",
					"element", id, "kept", winner.conceptID, "dropped", loser.conceptID)
			}
		}
	}
	return notes, droppedCl, droppedFact
}

func (a *Assembler) alreadyDropped(c claim, droppedCl, droppedFact map[int]bool) bool {
	if c.clIndex >= 0 {
		return droppedCl[c.clIndex]
	}
	return droppedFact[c.factIndex]
}

// gaps records, per element, every axis with no accepted classification.
func gaps(r *models.Routine, kept []models.Classification) []models.AxisGap {
	covered := make(map[string]map[models.Axis]bool, len(r.Elements))
	for _, cl := range kept {
		if covered[cl.ElementID] == nil {
			covered[cl.ElementID] = make(map[models.Axis]bool)
		}
		covered[cl.ElementID][cl.Axis] = true
	}
	var out []models.AxisGap
	for _, el := range r.Elements {
		for _, axis := range models.AllAxes {
			if !covered[el.ID][axis] {
				out = append(out, models.AxisGap{ElementID: el.ID, Axis: axis})
			}
		}
	}
	return out
}
