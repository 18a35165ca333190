package analysis

import (
	"math"
	"sort"

	"github.com/kinemetric/pommel/internal/models"
	"github.com/kinemetric/pommel/internal/stats"
)

const (
	// DefaultIdleThreshold is the gap length in seconds above which the
	// routine is considered discontinuous.
	DefaultIdleThreshold = 0.3
	// DefaultTempoWindow is the windowed-tempo window length in seconds.
	DefaultTempoWindow = 10.0
	// phaseTolerance is the boundary-to-marker distance in seconds at which
	// phase alignment reaches zero.
	phaseTolerance = 1.0
	// metronomicCV is the inter-onset coefficient-of-variation below which a
	// routine reads as metronomic.
	metronomicCV = 0.15
)

// TemporalAnalyzer derives rhythm, tempo, continuity, and phase-timing facts
// from element timestamps and durations.
type TemporalAnalyzer struct {
	IdleThreshold float64
	TempoWindow   float64
}

// NewTemporal creates a temporal analyzer with default thresholds.
func NewTemporal() *TemporalAnalyzer {
	return &TemporalAnalyzer{IdleThreshold: DefaultIdleThreshold, TempoWindow: DefaultTempoWindow}
}

// Analyze derives the temporal facts for a routine.
func (a *TemporalAnalyzer) Analyze(r *models.Routine) []models.AnalysisFact {
	timed := timedElements(r)
	if len(timed) == 0 {
		return nil
	}

	var facts []models.AnalysisFact
	facts = append(facts, a.rhythm(r, timed)...)
	facts = append(facts, a.tempo(r, timed)...)
	facts = append(facts, a.continuity(r, timed)...)
	facts = append(facts, a.phases(r, timed)...)
	return facts
}

// timedElements returns the elements with usable timing, ordered by start.
func timedElements(r *models.Routine) []*models.RoutineElement {
	var out []*models.RoutineElement
	for i := range r.Elements {
		if r.Elements[i].HasTiming() {
			out = append(out, &r.Elements[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// rhythm emits the inter-onset variance fact and the detected rhythm-pattern
// fact. Needs at least three timed elements (two gaps).
func (a *TemporalAnalyzer) rhythm(r *models.Routine, timed []*models.RoutineElement) []models.AnalysisFact {
	if len(timed) < 3 {
		return nil
	}
	gaps := make([]float64, 0, len(timed)-1)
	for i := 1; i < len(timed); i++ {
		gaps = append(gaps, timed[i].Start-timed[i-1].Start)
	}
	duration := r.Duration()
	if duration == 0 {
		return nil
	}

	facts := []models.AnalysisFact{{
		Name:     "temporal.rhythm-variance",
		Analyzer: models.SourceTemporal,
		Axis:     models.AxisTemporalQuality,
		Value:    stats.Variance(gaps) / duration,
	}}

	cv := stats.CoefficientOfVariation(gaps)
	concept := "tq.syncopated"
	switch {
	case cv < metronomicCV:
		concept = "tq.metronomic"
	case monotonic(gaps, -1):
		concept = "tq.accelerating"
	case monotonic(gaps, 1):
		concept = "tq.decelerating"
	}
	facts = append(facts, models.AnalysisFact{
		Name:      "temporal.rhythm",
		Analyzer:  models.SourceTemporal,
		Axis:      models.AxisTemporalQuality,
		ConceptID: concept,
		Value:     stats.Clamp01(1 - cv),
	})
	return facts
}

// monotonic reports whether values strictly follow the given direction
// (+1 increasing, -1 decreasing).
func monotonic(values []float64, dir int) bool {
	for i := 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		if dir > 0 && d <= 0 {
			return false
		}
		if dir < 0 && d >= 0 {
			return false
		}
	}
	return len(values) > 1
}

// tempo emits the overall elements-per-second fact plus one fact per window.
func (a *TemporalAnalyzer) tempo(r *models.Routine, timed []*models.RoutineElement) []models.AnalysisFact {
	duration := r.Duration()
	if duration == 0 {
		return nil
	}
	facts := []models.AnalysisFact{{
		Name:     "temporal.tempo",
		Analyzer: models.SourceTemporal,
		Axis:     models.AxisTemporalQuality,
		Value:    float64(len(timed)) / duration,
	}}

	if a.TempoWindow <= 0 || duration <= a.TempoWindow {
		return facts
	}
	origin := timed[0].Start
	windows := int(math.Ceil(duration / a.TempoWindow))
	for w := 0; w < windows; w++ {
		lo := origin + float64(w)*a.TempoWindow
		hi := lo + a.TempoWindow
		var first, last *models.RoutineElement
		count := 0
		for _, el := range timed {
			if el.Start >= lo && el.Start < hi {
				if first == nil {
					first = el
				}
				last = el
				count++
			}
		}
		if count == 0 {
			continue
		}
		facts = append(facts, models.AnalysisFact{
			Name:     "temporal.tempo-window",
			Analyzer: models.SourceTemporal,
			Axis:     models.AxisTemporalQuality,
			Span:     &models.Span{FirstID: first.ID, LastID: last.ID},
			Value:    float64(count) / a.TempoWindow,
			Detail:   map[string]any{"window": w},
		})
	}
	return facts
}

// continuity emits the fraction of the routine free of idle gaps longer than
// the threshold.
func (a *TemporalAnalyzer) continuity(r *models.Routine, timed []*models.RoutineElement) []models.AnalysisFact {
	duration := r.Duration()
	if duration == 0 {
		return nil
	}
	idle := 0.0
	breaks := 0
	cursor := timed[0].End()
	for _, el := range timed[1:] {
		if gap := el.Start - cursor; gap > a.IdleThreshold {
			idle += gap
			breaks++
		}
		if el.End() > cursor {
			cursor = el.End()
		}
	}
	return []models.AnalysisFact{{
		Name:     "temporal.continuity",
		Analyzer: models.SourceTemporal,
		Axis:     models.AxisTemporalQuality,
		Value:    stats.Clamp01(1 - idle/duration),
		Detail:   map[string]any{"breaks": breaks},
	}}
}

// phases emits one alignment fact per phase marker: how closely the nearest
// element boundary lands on the marker. Routines without markers yield no
// phase facts.
func (a *TemporalAnalyzer) phases(r *models.Routine, timed []*models.RoutineElement) []models.AnalysisFact {
	if len(r.PhaseMarkers) == 0 {
		return nil
	}
	var facts []models.AnalysisFact
	for _, marker := range r.PhaseMarkers {
		nearest := math.Inf(1)
		for _, el := range timed {
			for _, boundary := range [2]float64{el.Start, el.End()} {
				if d := math.Abs(boundary - marker.Time); d < nearest {
					nearest = d
				}
			}
		}
		facts = append(facts, models.AnalysisFact{
			Name:     "temporal.phase-alignment",
			Analyzer: models.SourceTemporal,
			Axis:     models.AxisTemporalQuality,
			Value:    stats.Clamp01(1 - nearest/phaseTolerance),
			Detail:   map[string]any{"marker": marker.Name},
		})
	}
	return facts
}
