// Package classify maps observed routine elements to taxonomy concepts,
// applying the deterministic per-axis disambiguation rules.
package classify

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/kinemetric/pommel/internal/models"
	"github.com/kinemetric/pommel/internal/taxonomy"
)

// ClassificationError reports that an element lacked the minimum data to
// evaluate any rule on one axis. It never means "no rule matched": absence of
// a match is a valid outcome, not an error.
type ClassificationError struct {
	ElementID string
	Axis      models.Axis
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("element %q: no usable data for any rule on axis %q", e.ElementID, e.Axis)
}

// ElementErrors aggregates per-element classification errors for one routine
// pass. The pass itself continues past them.
type ElementErrors []*ClassificationError

func (e ElementErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Classifier evaluates every recognition rule of every concept against
// elements. It holds only a reference to the read-only registry, so a single
// instance is safe for concurrent use.
type Classifier struct {
	reg *taxonomy.Registry
}

// New creates a classifier backed by the given registry.
func New(reg *taxonomy.Registry) *Classifier {
	return &Classifier{reg: reg}
}

// candidate is a matched (concept, rule) pair before disambiguation.
type candidate struct {
	conceptID  string
	axis       models.Axis
	ruleID     string
	confidence float64
	order      int // concept registration index
}

// Classify maps one element to its accepted classifications, ordered by
// descending confidence and then by concept registration order. The returned
// error, if any, is a *ClassificationError for an axis whose rules were all
// inapplicable; classifications for the remaining axes are still returned.
func (c *Classifier) Classify(el *models.RoutineElement) ([]models.Classification, error) {
	var accepted []candidate
	var errs ElementErrors

	for _, axis := range models.AllAxes {
		cands, err := c.classifyAxis(el, axis)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		accepted = append(accepted, cands...)
	}

	accepted = c.enforceImplies(el, accepted)

	sort.SliceStable(accepted, func(i, j int) bool {
		if accepted[i].confidence != accepted[j].confidence {
			return accepted[i].confidence > accepted[j].confidence
		}
		return accepted[i].order < accepted[j].order
	})

	out := make([]models.Classification, 0, len(accepted))
	for _, cand := range accepted {
		out = append(out, models.Classification{
			ElementID:  el.ID,
			ConceptID:  cand.conceptID,
			Axis:       cand.axis,
			Confidence: cand.confidence,
			RuleID:     cand.ruleID,
		})
	}
	if len(errs) > 0 {
		return out, errs
	}
	return out, nil
}

// classifyAxis runs every rule on one axis and resolves excludes conflicts.
func (c *Classifier) classifyAxis(el *models.RoutineElement, axis models.Axis) ([]candidate, *ClassificationError) {
	evals := c.reg.Evaluators(axis)
	if len(evals) == 0 {
		return nil, nil
	}

	// Best matching rule per concept: a rule matches at its fixed weight or
	// not at all.
	best := make(map[string]candidate)
	anyApplicable := false
	for i := range evals {
		ev := &evals[i]
		if !ev.Applicable(el) {
			continue
		}
		anyApplicable = true
		if !ev.Matches(el) {
			continue
		}
		cand := candidate{
			conceptID:  ev.ConceptID,
			axis:       axis,
			ruleID:     ev.RuleID,
			confidence: ev.Weight,
			order:      c.reg.Order(ev.ConceptID),
		}
		if prev, ok := best[ev.ConceptID]; !ok || cand.confidence > prev.confidence {
			best[ev.ConceptID] = cand
		}
	}
	if !anyApplicable {
		return nil, &ClassificationError{ElementID: el.ID, Axis: axis}
	}

	matched := make([]candidate, 0, len(best))
	for _, cand := range best {
		matched = append(matched, cand)
	}
	// Higher confidence first; registration order breaks ties so the earliest
	// registered concept survives an equal-confidence exclusion.
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].confidence != matched[j].confidence {
			return matched[i].confidence > matched[j].confidence
		}
		return matched[i].order < matched[j].order
	})

	var accepted []candidate
	for _, cand := range matched {
		excluded := false
		for _, a := range accepted {
			if c.reg.Excludes(cand.conceptID, a.conceptID) {
				excluded = true
				slog.Debug("dropped excluded classification",
					"element", el.ID, "axis", axis,
					"dropped", cand.conceptID, "kept", a.conceptID)
				break
			}
		}
		if !excluded {
			accepted = append(accepted, cand)
		}
	}
	return accepted, nil
}

// enforceImplies drops classifications whose implied prerequisite concept is
// not itself accepted, iterating until stable since a dropped concept may be
// another's prerequisite.
func (c *Classifier) enforceImplies(el *models.RoutineElement, accepted []candidate) []candidate {
	for {
		present := make(map[string]bool, len(accepted))
		for _, cand := range accepted {
			present[cand.conceptID] = true
		}

		kept := accepted[:0]
		dropped := false
		for _, cand := range accepted {
			missing := ""
			for _, req := range c.reg.Requires(cand.conceptID) {
				if !present[req] {
					missing = req
					break
				}
			}
			if missing != "" {
				dropped = true
				slog.Debug("dropped classification with unmet prerequisite",
					"element", el.ID, "concept", cand.conceptID, "requires", missing)
				continue
			}
			kept = append(kept, cand)
		}
		accepted = kept
		if !dropped {
			return accepted
		}
	}
}

// ClassifyRoutine classifies every element of a routine in order. Element
// errors are collected and returned alongside the classifications; they do
// not abort the pass.
func (c *Classifier) ClassifyRoutine(r *models.Routine) ([]models.Classification, ElementErrors) {
	var all []models.Classification
	var errs ElementErrors
	for i := range r.Elements {
		cls, err := c.Classify(&r.Elements[i])
		all = append(all, cls...)
		if ee, ok := err.(ElementErrors); ok {
			errs = append(errs, ee...)
		}
	}
	return all, errs
}
