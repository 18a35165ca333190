package assemble

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kinemetric/pommel/internal/models"
	"github.com/kinemetric/pommel/internal/taxonomy"
)

func twoElementRoutine() *models.Routine {
	return &models.Routine{Name: "r", Elements: []models.RoutineElement{
		{ID: "e1", Name: "flair", Duration: 1.2},
		{ID: "e2", Name: "travel", Start: 1.2, Duration: 2},
	}}
}

func TestAssemble_CleanMerge(t *testing.T) {
	a := New(taxonomy.Default())
	r := twoElementRoutine()

	cls := []models.Classification{
		{ElementID: "e1", ConceptID: "eg.circles", Axis: models.AxisElementGroup, Confidence: 0.95, RuleID: "eg.circles.name"},
		{ElementID: "e2", ConceptID: "eg.travels", Axis: models.AxisElementGroup, Confidence: 0.95, RuleID: "eg.travels.name"},
	}
	spatial := []models.AnalysisFact{
		{Name: "spatial.trajectory", Analyzer: models.SourceSpatial, Axis: models.AxisZone, ElementID: "e1", Value: 0.93, Detail: map[string]any{"pattern": "circular"}},
	}
	temporal := []models.AnalysisFact{
		{Name: "temporal.tempo", Analyzer: models.SourceTemporal, Axis: models.AxisTemporalQuality, Value: 0.625},
	}

	params, err := a.Assemble(r, cls, spatial, temporal, nil)
	require.NoError(t, err)
	require.Equal(t, "r", params.Routine)
	require.Len(t, params.Classifications, 2)
	require.Len(t, params.Facts, 2)
	require.Empty(t, params.Notes, "nothing contradicts, so nothing is bridged")
}

func TestAssemble_BridgePriorityKeepsClassifier(t *testing.T) {
	a := New(taxonomy.Default())
	r := twoElementRoutine()

	// The classifier put e1 in the saddle; the spatial analyzer's geometric
	// zone fact says left end. The sections exclude each other and the
	// classifier outranks analyzers on the same axis.
	cls := []models.Classification{
		{ElementID: "e1", ConceptID: "zone.saddle", Axis: models.AxisZone, Confidence: 0.85, RuleID: "zone.saddle.band"},
	}
	spatial := []models.AnalysisFact{
		{Name: "spatial.zone", Analyzer: models.SourceSpatial, Axis: models.AxisZone, ElementID: "e1", ConceptID: "zone.end_left", Value: 1},
	}

	params, err := a.Assemble(r, cls, spatial, nil, nil)
	require.NoError(t, err)

	require.Len(t, params.Classifications, 1, "the classification survives")
	require.Equal(t, "zone.saddle", params.Classifications[0].ConceptID)
	require.Empty(t, params.Facts, "the contradicting fact is dropped")

	require.Len(t, params.Notes, 1, "exactly one note per resolved contradiction")
	note := params.Notes[0]
	require.Equal(t, "e1", note.ElementID)
	require.Equal(t, models.AxisZone, note.Axis)
	require.Equal(t, models.SourceClassifier, note.Kept.Source)
	require.Equal(t, "zone.saddle", note.Kept.ConceptID)
	require.Equal(t, "zone.saddle.band", note.Kept.Ref)
	require.Equal(t, models.SourceSpatial, note.Dropped.Source)
	require.Equal(t, "zone.end_left", note.Dropped.ConceptID)
	require.Equal(t, "spatial.zone", note.Dropped.Ref)
	require.NotEmpty(t, note.Reason)
}

func TestAssemble_HigherAxisOutranks(t *testing.T) {
	def := taxonomy.Definition{
		Name: "cross",
		Concepts: []taxonomy.Concept{
			{ID: "eg.a", Axis: models.AxisElementGroup},
			{ID: "fd.b", Axis: models.AxisFormDescriptor},
		},
		Relations: []taxonomy.Relation{
			{From: "eg.a", To: "fd.b", Kind: taxonomy.RelationExcludes},
		},
	}
	reg, err := taxonomy.New(def)
	require.NoError(t, err)
	a := New(reg)
	r := twoElementRoutine()

	// A form-descriptor classification against an element-group fact: the
	// element-group claim wins despite coming from an analyzer.
	cls := []models.Classification{
		{ElementID: "e1", ConceptID: "fd.b", Axis: models.AxisFormDescriptor, Confidence: 0.9, RuleID: "some.rule"},
	}
	form := []models.AnalysisFact{
		{Name: "form.derived", Analyzer: models.SourceForm, Axis: models.AxisElementGroup, ElementID: "e1", ConceptID: "eg.a", Value: 1},
	}

	params, err := a.Assemble(r, cls, nil, nil, form)
	require.NoError(t, err)
	require.Empty(t, params.Classifications)
	require.Len(t, params.Facts, 1)
	require.Len(t, params.Notes, 1)
	require.Equal(t, "eg.a", params.Notes[0].Kept.ConceptID, "axis priority runs before source priority")
}

func TestAssemble_UnknownElementInClassification(t *testing.T) {
	a := New(taxonomy.Default())
	cls := []models.Classification{
		{ElementID: "ghost", ConceptID: "eg.circles", Axis: models.AxisElementGroup, Confidence: 0.95, RuleID: "eg.circles.name"},
	}

	_, err := a.Assemble(twoElementRoutine(), cls, nil, nil, nil)
	var asmErr *AssemblyError
	require.ErrorAs(t, err, &asmErr)
	require.Equal(t, "ghost", asmErr.ElementID)
}

func TestAssemble_UnknownElementInFact(t *testing.T) {
	a := New(taxonomy.Default())

	facts := []models.AnalysisFact{
		{Name: "form.extension", Analyzer: models.SourceForm, Axis: models.AxisFormDescriptor, ElementID: "ghost", Value: 0.5},
	}
	_, err := a.Assemble(twoElementRoutine(), nil, nil, nil, facts)
	var asmErr *AssemblyError
	require.ErrorAs(t, err, &asmErr)

	spanFacts := []models.AnalysisFact{
		{Name: "spatial.trajectory-repeat", Analyzer: models.SourceSpatial, Axis: models.AxisZone, Span: &models.Span{FirstID: "e1", LastID: "ghost"}, Value: 0.9},
	}
	_, err = a.Assemble(twoElementRoutine(), nil, spanFacts, nil, nil)
	require.ErrorAs(t, err, &asmErr)
	require.Equal(t, "ghost", asmErr.ElementID)
}

func TestAssemble_ClassificationOrdering(t *testing.T) {
	a := New(taxonomy.Default())
	r := twoElementRoutine()

	// Deliberately scrambled input order.
	cls := []models.Classification{
		{ElementID: "e2", ConceptID: "tq.moderate", Axis: models.AxisTemporalQuality, Confidence: 0.75, RuleID: "tq.moderate.duration"},
		{ElementID: "e1", ConceptID: "zone.saddle", Axis: models.AxisZone, Confidence: 0.85, RuleID: "zone.saddle.band"},
		{ElementID: "e2", ConceptID: "eg.travels", Axis: models.AxisElementGroup, Confidence: 0.95, RuleID: "eg.travels.name"},
		{ElementID: "e1", ConceptID: "eg.circles", Axis: models.AxisElementGroup, Confidence: 0.95, RuleID: "eg.circles.name"},
	}
	params, err := a.Assemble(r, cls, nil, nil, nil)
	require.NoError(t, err)

	var got []string
	for _, cl := range params.Classifications {
		got = append(got, cl.ElementID+"/"+cl.ConceptID)
	}
	require.Equal(t, []string{
		"e1/eg.circles",
		"e1/zone.saddle",
		"e2/eg.travels",
		"e2/tq.moderate",
	}, got, "element order first, then axis priority")
}

func TestAssemble_GapsPerElementAndAxis(t *testing.T) {
	a := New(taxonomy.Default())
	r := twoElementRoutine()

	cls := []models.Classification{
		{ElementID: "e1", ConceptID: "eg.circles", Axis: models.AxisElementGroup, Confidence: 0.95, RuleID: "eg.circles.name"},
	}
	params, err := a.Assemble(r, cls, nil, nil, nil)
	require.NoError(t, err)

	// e1 misses three axes, e2 all four.
	require.Len(t, params.Gaps, 7)
	require.Equal(t, models.AxisGap{ElementID: "e1", Axis: models.AxisZone}, params.Gaps[0])
	require.Equal(t, models.AxisGap{ElementID: "e2", Axis: models.AxisElementGroup}, params.Gaps[3])
}
