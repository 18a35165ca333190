package analysis

import (
	"github.com/kinemetric/pommel/internal/models"
	"github.com/kinemetric/pommel/internal/stats"
)

// Execution fault weights, scaled from the FIG-style deduction table
// (0.3 and 0.1 point deductions).
const (
	faultBentKnees  = 0.3
	faultFlexedFeet = 0.1
	faultBrushing   = 0.1
	faultHitting    = 0.3
)

// expectedLegPositions maps an element group concept to the leg positions
// that conform to it. Legs together is the baseline requirement; separation
// is reserved for scissors and flair work.
var expectedLegPositions = map[string]map[string]bool{
	"eg.scissors":  {"split": true, "straddle": true},
	"eg.circles":   {"together": true, "straddle": true},
	"eg.travels":   {"together": true},
	"eg.spindles":  {"together": true},
	"eg.dismounts": {"together": true},
}

// FormScorer derives extension, leg-position conformity, amplitude, and
// precision facts from per-element form metadata. Nothing is measured here;
// missing metadata yields a null fact for that element only.
type FormScorer struct{}

// NewForm creates a form scorer.
func NewForm() *FormScorer {
	return &FormScorer{}
}

// Analyze derives the form facts for a routine. Elements with form metadata
// produce exactly one extension, leg-position, amplitude, and precision fact
// each; the routine-level aggregates follow.
func (a *FormScorer) Analyze(r *models.Routine, classifications []models.Classification) []models.AnalysisFact {
	group := make(map[string]string) // element id -> element group concept
	for _, cl := range classifications {
		if cl.Axis != models.AxisElementGroup {
			continue
		}
		if _, ok := group[cl.ElementID]; !ok {
			group[cl.ElementID] = cl.ConceptID
		}
	}

	var facts []models.AnalysisFact
	var extension, legs, amplitude, precision []float64
	for i := range r.Elements {
		el := &r.Elements[i]
		if el.Form == nil {
			facts = append(facts, models.AnalysisFact{
				Name:      "form.metadata",
				Analyzer:  models.SourceForm,
				Axis:      models.AxisFormDescriptor,
				ElementID: el.ID,
				Null:      true,
			})
			continue
		}

		ext := stats.Clamp01(el.Form.ExtensionRatio)
		leg, legConcept := legConformity(el.Form.LegPosition, group[el.ID])
		amp := stats.Clamp01(el.Form.Amplitude)
		prec := precisionScore(el.Form)

		extension = append(extension, ext)
		legs = append(legs, leg)
		amplitude = append(amplitude, amp)
		precision = append(precision, prec)

		facts = append(facts,
			models.AnalysisFact{
				Name: "form.extension", Analyzer: models.SourceForm,
				Axis: models.AxisFormDescriptor, ElementID: el.ID, Value: ext,
			},
			models.AnalysisFact{
				Name: "form.leg-position", Analyzer: models.SourceForm,
				Axis: models.AxisFormDescriptor, ElementID: el.ID,
				ConceptID: legConcept, Value: leg,
			},
			models.AnalysisFact{
				Name: "form.amplitude", Analyzer: models.SourceForm,
				Axis: models.AxisFormDescriptor, ElementID: el.ID, Value: amp,
			},
			models.AnalysisFact{
				Name: "form.precision", Analyzer: models.SourceForm,
				Axis: models.AxisFormDescriptor, ElementID: el.ID, Value: prec,
			},
		)
	}

	if len(extension) > 0 {
		for _, agg := range []struct {
			name   string
			values []float64
		}{
			{"form.extension.mean", extension},
			{"form.leg-position.mean", legs},
			{"form.amplitude.mean", amplitude},
			{"form.precision.mean", precision},
		} {
			facts = append(facts, models.AnalysisFact{
				Name:     agg.name,
				Analyzer: models.SourceForm,
				Axis:     models.AxisFormDescriptor,
				Value:    stats.Mean(agg.values),
			})
		}
	}
	return facts
}

// legConformity scores the observed leg position against the expectation for
// the element's group, and names the observed leg-form concept so the
// assembler can cross-check it against the classifier.
func legConformity(observed, groupConcept string) (float64, string) {
	concept := ""
	switch observed {
	case "together":
		concept = "fd.legs_together"
	case "split", "straddle":
		concept = "fd.legs_split"
	}

	expected, ok := expectedLegPositions[groupConcept]
	if !ok {
		// No group classification: legs together is the baseline requirement.
		expected = map[string]bool{"together": true}
	}
	if observed == "" {
		return 0, concept
	}
	if expected[observed] {
		return 1, concept
	}
	return 0.4, concept
}

// precisionScore starts clean and subtracts the observed execution faults.
func precisionScore(f *models.FormMetadata) float64 {
	score := 1.0
	if f.LegsBent {
		score -= faultBentKnees
	}
	if f.ToesFlexed {
		score -= faultFlexedFeet
	}
	if f.Brushed {
		score -= faultBrushing
	}
	if f.Hit {
		score -= faultHitting
	}
	return stats.Clamp01(score)
}
