package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kinemetric/pommel/internal/models"
)

func factsNamed(facts []models.AnalysisFact, name string) []models.AnalysisFact {
	var out []models.AnalysisFact
	for _, f := range facts {
		if f.Name == name {
			out = append(out, f)
		}
	}
	return out
}

// circlePositions traces a circle of the given radius around (cx, cy).
func circlePositions(cx, cy, radius float64, n int) []models.Position {
	pts := make([]models.Position, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = models.Position{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)}
	}
	return pts
}

func TestSpatial_ElementZones(t *testing.T) {
	a := NewSpatial()
	r := &models.Routine{Name: "r", Elements: []models.RoutineElement{
		{ID: "e1", Name: "flair", Duration: 1, Positions: []models.Position{{X: 0.2}}},
		{ID: "e2", Name: "flair", Duration: 1, Positions: []models.Position{{X: 0.5}}},
		{ID: "e3", Name: "flair", Duration: 1}, // no positions, no zone fact
	}}

	zones := factsNamed(a.Analyze(r, nil), "spatial.zone")
	require.Len(t, zones, 2)
	require.Equal(t, "zone.end_left", zones[0].ConceptID)
	require.Equal(t, "e1", zones[0].ElementID)
	require.Equal(t, "zone.saddle", zones[1].ConceptID)
	require.Equal(t, models.SourceSpatial, zones[0].Analyzer)
	require.Equal(t, models.AxisZone, zones[0].Axis)
}

func TestSpatial_ZoneUsage(t *testing.T) {
	a := NewSpatial()
	r := &models.Routine{Name: "r", Elements: []models.RoutineElement{
		{ID: "e1", Name: "flair", Duration: 2, Positions: []models.Position{{X: 0.2}}},
		{ID: "e2", Name: "flair", Start: 2, Duration: 2, Positions: []models.Position{{X: 0.5}}},
		{ID: "e3", Name: "travel", Start: 4, Duration: 4, Positions: []models.Position{{X: 0.8}}},
	}}

	facts := a.Analyze(r, nil)
	usage := factsNamed(facts, "spatial.zone-usage")
	require.Len(t, usage, 3)
	byZone := map[string]float64{}
	for _, f := range usage {
		byZone[f.ConceptID] = f.Value
	}
	require.InDelta(t, 0.25, byZone["zone.end_left"], 1e-9)
	require.InDelta(t, 0.25, byZone["zone.saddle"], 1e-9)
	require.InDelta(t, 0.5, byZone["zone.end_right"], 1e-9)

	coverage := factsNamed(facts, "spatial.zone-coverage")
	require.Len(t, coverage, 1)
	require.InDelta(t, 1.0, coverage[0].Value, 1e-9, "all three sections visited")
}

func TestSpatial_ZoneUsagePrefersClassification(t *testing.T) {
	a := NewSpatial()
	r := &models.Routine{Name: "r", Elements: []models.RoutineElement{
		{ID: "e1", Name: "flair", Duration: 2, Positions: []models.Position{{X: 0.2}}},
	}}
	// The classifier put e1 in the saddle; geometry says left end. Usage
	// follows the accepted classification.
	cls := []models.Classification{{ElementID: "e1", ConceptID: "zone.saddle", Axis: models.AxisZone, Confidence: 0.85}}

	usage := factsNamed(a.Analyze(r, cls), "spatial.zone-usage")
	require.Len(t, usage, 1)
	require.Equal(t, "zone.saddle", usage[0].ConceptID)
}

func TestSpatial_TrajectoryCircular(t *testing.T) {
	a := NewSpatial()
	r := &models.Routine{Name: "r", Elements: []models.RoutineElement{
		{ID: "e1", Name: "circle", Duration: 1, Positions: circlePositions(0.5, 0.3, 0.1, 12)},
	}}

	traj := factsNamed(a.Analyze(r, nil), "spatial.trajectory")
	require.Len(t, traj, 1)
	require.Equal(t, "e1", traj[0].ElementID)
	require.Equal(t, "circular", traj[0].Detail["pattern"])
	require.GreaterOrEqual(t, traj[0].Value, a.SimilarityThreshold)
}

func TestSpatial_TrajectoryRepeatSpan(t *testing.T) {
	a := NewSpatial()
	r := &models.Routine{Name: "r", Elements: []models.RoutineElement{
		{ID: "e1", Name: "circle", Duration: 1, Positions: circlePositions(0.5, 0.3, 0.1, 12)},
		{ID: "e2", Name: "circle", Start: 1, Duration: 1, Positions: circlePositions(0.5, 0.3, 0.12, 12)},
		{ID: "e3", Name: "circle", Start: 2, Duration: 1, Positions: circlePositions(0.5, 0.3, 0.1, 12)},
	}}

	repeats := factsNamed(a.Analyze(r, nil), "spatial.trajectory-repeat")
	require.Len(t, repeats, 1)
	require.Equal(t, &models.Span{FirstID: "e1", LastID: "e3"}, repeats[0].Span)
	require.Equal(t, 3, repeats[0].Detail["length"])
}

func TestSpatial_ShortPathNoTrajectory(t *testing.T) {
	a := NewSpatial()
	r := &models.Routine{Name: "r", Elements: []models.RoutineElement{
		{ID: "e1", Name: "flair", Duration: 1, Positions: []models.Position{{X: 0.4}, {X: 0.6}}},
	}}

	require.Empty(t, factsNamed(a.Analyze(r, nil), "spatial.trajectory"),
		"two points cannot support a pattern claim")
}

func TestSpatial_NoTimingNoUsage(t *testing.T) {
	a := NewSpatial()
	r := &models.Routine{Name: "r", Elements: []models.RoutineElement{
		{ID: "e1", Name: "flair", Positions: []models.Position{{X: 0.5}}},
	}}

	facts := a.Analyze(r, nil)
	require.Empty(t, factsNamed(facts, "spatial.zone-usage"), "zero total duration yields no usage split")
	require.NotEmpty(t, factsNamed(facts, "spatial.zone"), "geometric zone facts need no timing")
}

func TestSpatial_GroupCoverage(t *testing.T) {
	a := NewSpatial()
	r := &models.Routine{Name: "r", Elements: []models.RoutineElement{
		{ID: "e1", Name: "flair", Duration: 1},
		{ID: "e2", Name: "travel", Duration: 1},
	}}
	cls := []models.Classification{
		{ElementID: "e1", ConceptID: "eg.circles", Axis: models.AxisElementGroup},
		{ElementID: "e2", ConceptID: "eg.travels", Axis: models.AxisElementGroup},
		{ElementID: "e2", ConceptID: "zone.saddle", Axis: models.AxisZone},
	}

	coverage := factsNamed(a.Analyze(r, cls), "structure.group-coverage")
	require.Len(t, coverage, 1)
	require.InDelta(t, 2.0/5.0, coverage[0].Value, 1e-9)
	require.Equal(t, 2, coverage[0].Detail["groups"])
	require.Empty(t, coverage[0].ElementID, "variety is a routine-level fact")
}

func TestSpatial_GroupCoverageNeedsClassifications(t *testing.T) {
	a := NewSpatial()
	r := &models.Routine{Name: "r", Elements: []models.RoutineElement{
		{ID: "e1", Name: "flair", Duration: 1},
	}}

	require.Empty(t, factsNamed(a.Analyze(r, nil), "structure.group-coverage"))
}
