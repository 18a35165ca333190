// Package analysis holds the three independent analyzers: spatial, temporal,
// and form. Each reads only routine elements and accepted classifications,
// mutates nothing, and produces AnalysisFacts. Identical input always yields
// identical facts.
package analysis

import (
	"github.com/kinemetric/pommel/internal/models"
)

// DefaultSimilarityThreshold is the minimum normalized path similarity for a
// trajectory-pattern fact.
const DefaultSimilarityThreshold = 0.85

// apparatus sections in left-to-right order; iteration order keeps the
// emitted facts deterministic.
var sectionZones = []struct {
	conceptID string
	min, max  float64
}{
	{"zone.end_left", 0.0, 0.33},
	{"zone.saddle", 0.33, 0.67},
	{"zone.end_right", 0.67, 1.01},
}

// SpatialAnalyzer derives zone-usage and trajectory-pattern facts.
type SpatialAnalyzer struct {
	// SimilarityThreshold gates trajectory-pattern facts.
	SimilarityThreshold float64
}

// NewSpatial creates a spatial analyzer with the default similarity
// threshold.
func NewSpatial() *SpatialAnalyzer {
	return &SpatialAnalyzer{SimilarityThreshold: DefaultSimilarityThreshold}
}

// Analyze derives the spatial facts for a routine.
func (a *SpatialAnalyzer) Analyze(r *models.Routine, classifications []models.Classification) []models.AnalysisFact {
	var facts []models.AnalysisFact
	facts = append(facts, a.elementZones(r)...)
	facts = append(facts, a.zoneUsage(r, classifications)...)
	facts = append(facts, a.trajectories(r)...)
	if f, ok := groupCoverage(classifications); ok {
		facts = append(facts, f)
	}
	return facts
}

// competitive routines draw from five element groups; variety is scored
// against that full set.
const elementGroupCount = 5

// groupCoverage emits a routine-level variety fact: the fraction of element
// groups the routine's accepted classifications draw from.
func groupCoverage(classifications []models.Classification) (models.AnalysisFact, bool) {
	groups := make(map[string]bool)
	for _, cl := range classifications {
		if cl.Axis == models.AxisElementGroup {
			groups[cl.ConceptID] = true
		}
	}
	if len(groups) == 0 {
		return models.AnalysisFact{}, false
	}
	return models.AnalysisFact{
		Name:     "structure.group-coverage",
		Analyzer: models.SourceSpatial,
		Axis:     models.AxisElementGroup,
		Value:    float64(len(groups)) / elementGroupCount,
		Detail:   map[string]any{"groups": len(groups)},
	}, true
}

// elementZones emits one geometric zone fact per element with position data.
// These are derived from geometry alone, independently of the classifier, so
// the assembler can cross-check the two sources.
func (a *SpatialAnalyzer) elementZones(r *models.Routine) []models.AnalysisFact {
	var facts []models.AnalysisFact
	for i := range r.Elements {
		el := &r.Elements[i]
		x, ok := el.CenterX()
		if !ok {
			continue
		}
		for _, z := range sectionZones {
			if x >= z.min && x < z.max {
				facts = append(facts, models.AnalysisFact{
					Name:      "spatial.zone",
					Analyzer:  models.SourceSpatial,
					Axis:      models.AxisZone,
					ElementID: el.ID,
					ConceptID: z.conceptID,
					Value:     1,
				})
				break
			}
		}
	}
	return facts
}

// zoneUsage emits the fraction of routine time spent per apparatus section,
// plus a routine-level coverage fact. An element's section comes from its
// accepted Zone classification when one names a section, falling back to
// geometry.
func (a *SpatialAnalyzer) zoneUsage(r *models.Routine, classifications []models.Classification) []models.AnalysisFact {
	section := make(map[string]bool, len(sectionZones))
	for _, z := range sectionZones {
		section[z.conceptID] = true
	}
	classified := make(map[string]string) // element id -> section concept
	for _, cl := range classifications {
		if cl.Axis != models.AxisZone || !section[cl.ConceptID] {
			continue
		}
		if _, ok := classified[cl.ElementID]; !ok {
			classified[cl.ElementID] = cl.ConceptID
		}
	}

	usage := make(map[string]float64, len(sectionZones))
	total := 0.0
	for i := range r.Elements {
		el := &r.Elements[i]
		zone := classified[el.ID]
		if zone == "" {
			x, ok := el.CenterX()
			if !ok {
				continue
			}
			for _, z := range sectionZones {
				if x >= z.min && x < z.max {
					zone = z.conceptID
					break
				}
			}
		}
		if zone == "" {
			continue
		}
		usage[zone] += el.Duration
		total += el.Duration
	}
	if total == 0 {
		return nil
	}

	var facts []models.AnalysisFact
	covered := 0
	for _, z := range sectionZones {
		d := usage[z.conceptID]
		if d == 0 {
			continue
		}
		covered++
		facts = append(facts, models.AnalysisFact{
			Name:      "spatial.zone-usage",
			Analyzer:  models.SourceSpatial,
			Axis:      models.AxisZone,
			ConceptID: z.conceptID,
			Value:     d / total,
		})
	}
	// Full apparatus coverage needs all three sections.
	facts = append(facts, models.AnalysisFact{
		Name:     "spatial.zone-coverage",
		Analyzer: models.SourceSpatial,
		Axis:     models.AxisZone,
		Value:    float64(covered) / float64(len(sectionZones)),
	})
	return facts
}

// trajectories emits a pattern fact per element whose path matches the
// library, and a span fact for each run of consecutive elements repeating
// the same pattern.
func (a *SpatialAnalyzer) trajectories(r *models.Routine) []models.AnalysisFact {
	var facts []models.AnalysisFact

	type hit struct {
		pattern string
		sim     float64
	}
	hits := make([]*hit, len(r.Elements))
	for i := range r.Elements {
		el := &r.Elements[i]
		pattern, sim, ok := matchPattern(el.Positions, a.SimilarityThreshold)
		if !ok {
			continue
		}
		hits[i] = &hit{pattern: pattern, sim: sim}
		facts = append(facts, models.AnalysisFact{
			Name:      "spatial.trajectory",
			Analyzer:  models.SourceSpatial,
			Axis:      models.AxisZone,
			ElementID: el.ID,
			Value:     sim,
			Detail:    map[string]any{"pattern": pattern},
		})
	}

	// Runs of the same pattern across consecutive elements.
	for i := 0; i < len(hits); {
		if hits[i] == nil {
			i++
			continue
		}
		j := i + 1
		simSum := hits[i].sim
		for j < len(hits) && hits[j] != nil && hits[j].pattern == hits[i].pattern {
			simSum += hits[j].sim
			j++
		}
		if j-i >= 2 {
			facts = append(facts, models.AnalysisFact{
				Name:     "spatial.trajectory-repeat",
				Analyzer: models.SourceSpatial,
				Axis:     models.AxisZone,
				Span:     &models.Span{FirstID: r.Elements[i].ID, LastID: r.Elements[j-1].ID},
				Value:    simSum / float64(j-i),
				Detail:   map[string]any{"pattern": hits[i].pattern, "length": j - i},
			})
		}
		i = j
	}
	return facts
}
