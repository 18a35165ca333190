package taxonomy

import (
	"sync"

	"github.com/kinemetric/pommel/internal/models"
)

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the built-in FIG-derived registry. It is constructed once
// and shared; the data is compile-time constant, so construction cannot fail.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := New(DefaultDefinition())
		if err != nil {
			panic("built-in taxonomy is invalid: " + err.Error())
		}
		defaultReg = reg
	})
	return defaultReg
}

// DefaultDefinition returns the built-in taxonomy definition: the five FIG
// element groups, the three apparatus zones plus support configurations,
// tempo and rhythm qualities, and the form descriptor vocabulary.
func DefaultDefinition() Definition {
	concepts := []Concept{
		// Element groups (FIG EG I-V).
		{
			ID: "eg.scissors", Axis: models.AxisElementGroup, Label: "Scissors & Single-Leg Work",
			Rules: []Rule{
				{ID: "eg.scissors.name", Kind: KindName, Weight: 0.95, Config: map[string]any{
					"tokens": []string{"scissor", "basic_scissor", "double_scissor", "traveling_scissor", "scissor_to_handstand", "single_leg_cut"},
				}},
			},
		},
		{
			ID: "eg.circles", Axis: models.AxisElementGroup, Label: "Circles & Flairs",
			Rules: []Rule{
				{ID: "eg.circles.name", Kind: KindName, Weight: 0.95, Config: map[string]any{
					"tokens": []string{"circle", "double_leg_circle", "flair", "thomas_flair", "russian"},
				}},
				// Spindles read as circle work at lower confidence; the
				// excludes edge against eg.spindles resolves the overlap.
				{ID: "eg.circles.spindle", Kind: KindName, Weight: 0.6, Config: map[string]any{
					"tokens": []string{"spindle"},
				}},
			},
		},
		{
			ID: "eg.travels", Axis: models.AxisElementGroup, Label: "Travels",
			Rules: []Rule{
				{ID: "eg.travels.name", Kind: KindName, Weight: 0.95, Config: map[string]any{
					"tokens": []string{"travel", "magyar", "sivado", "roth", "wu_guonian"},
				}},
				{ID: "eg.travels.displacement", Kind: KindDisplacement, Weight: 0.7, Config: map[string]any{
					"min": 0.4,
				}},
			},
		},
		{
			ID: "eg.spindles", Axis: models.AxisElementGroup, Label: "Spindles & Handstands",
			Rules: []Rule{
				{ID: "eg.spindles.name", Kind: KindName, Weight: 0.9, Config: map[string]any{
					"tokens": []string{"spindle", "full_spindle", "kehr", "sohn", "bezugo", "handstand"},
				}},
			},
		},
		{
			ID: "eg.dismounts", Axis: models.AxisElementGroup, Label: "Dismounts",
			Rules: []Rule{
				{ID: "eg.dismounts.name", Kind: KindName, Weight: 0.95, Config: map[string]any{
					"tokens": []string{"dismount", "russian_dismount", "handstand_dismount"},
				}},
			},
		},

		// Apparatus sections. X bands follow the 160cm horse split into
		// thirds, normalized to [0,1].
		{
			ID: "zone.end_left", Axis: models.AxisZone, Label: "Left End",
			Rules: []Rule{
				{ID: "zone.end_left.band", Kind: KindZoneBand, Weight: 0.85, Config: map[string]any{"min": 0.0, "max": 0.33}},
			},
		},
		{
			ID: "zone.saddle", Axis: models.AxisZone, Label: "Saddle",
			Rules: []Rule{
				{ID: "zone.saddle.band", Kind: KindZoneBand, Weight: 0.85, Config: map[string]any{"min": 0.33, "max": 0.67}},
			},
		},
		{
			ID: "zone.end_right", Axis: models.AxisZone, Label: "Right End",
			Rules: []Rule{
				{ID: "zone.end_right.band", Kind: KindZoneBand, Weight: 0.85, Config: map[string]any{"min": 0.67, "max": 1.01}},
			},
		},

		// Support configurations share the Zone axis but carry no excludes
		// edges against the sections, so an element may hold both a section
		// and a support classification.
		{
			ID: "zone.between_pommels", Axis: models.AxisZone, Label: "Between Pommels",
			Rules: []Rule{
				{ID: "zone.between_pommels.support", Kind: KindSupport, Weight: 0.8, Config: map[string]any{"supports": []string{"between_pommels"}}},
			},
		},
		{
			ID: "zone.single_pommel", Axis: models.AxisZone, Label: "Single Pommel",
			Rules: []Rule{
				{ID: "zone.single_pommel.support", Kind: KindSupport, Weight: 0.8, Config: map[string]any{"supports": []string{"single_pommel"}}},
			},
		},
		{
			ID: "zone.leather_only", Axis: models.AxisZone, Label: "Leather Only",
			Rules: []Rule{
				{ID: "zone.leather_only.support", Kind: KindSupport, Weight: 0.8, Config: map[string]any{"supports": []string{"leather", "leather_only"}}},
			},
		},
		{
			ID: "zone.mixed_support", Axis: models.AxisZone, Label: "One Pommel One Leather",
			Rules: []Rule{
				{ID: "zone.mixed_support.support", Kind: KindSupport, Weight: 0.8, Config: map[string]any{"supports": []string{"one_pommel_one_leather", "mixed"}}},
			},
		},

		// Velocity qualities, from single-circle timing norms (a circle runs
		// 1-2s, scissors 2-3s, deliberate work longer).
		{
			ID: "tq.fast", Axis: models.AxisTemporalQuality, Label: "Fast Velocity",
			Rules: []Rule{
				{ID: "tq.fast.duration", Kind: KindDurationRange, Weight: 0.75, Config: map[string]any{"min": 0.0, "max": 1.5}},
			},
		},
		{
			ID: "tq.moderate", Axis: models.AxisTemporalQuality, Label: "Moderate Velocity",
			Rules: []Rule{
				{ID: "tq.moderate.duration", Kind: KindDurationRange, Weight: 0.75, Config: map[string]any{"min": 1.5, "max": 3.0}},
			},
		},
		{
			ID: "tq.controlled", Axis: models.AxisTemporalQuality, Label: "Controlled Velocity",
			Rules: []Rule{
				{ID: "tq.controlled.duration", Kind: KindDurationRange, Weight: 0.75, Config: map[string]any{"min": 3.0}},
			},
		},

		// Rhythm patterns have no per-element recognition rules; the temporal
		// analyzer derives them for the routine as a whole.
		{ID: "tq.metronomic", Axis: models.AxisTemporalQuality, Label: "Metronomic Rhythm"},
		{ID: "tq.accelerating", Axis: models.AxisTemporalQuality, Label: "Accelerating Rhythm"},
		{ID: "tq.decelerating", Axis: models.AxisTemporalQuality, Label: "Decelerating Rhythm"},
		{ID: "tq.syncopated", Axis: models.AxisTemporalQuality, Label: "Syncopated Rhythm"},

		// Form descriptors.
		{
			ID: "fd.extended", Axis: models.AxisFormDescriptor, Label: "Extended Body",
			Rules: []Rule{
				{ID: "fd.extended.ratio", Kind: KindExtensionRange, Weight: 0.8, Config: map[string]any{"min": 0.85}},
			},
		},
		{
			ID: "fd.piked", Axis: models.AxisFormDescriptor, Label: "Piked Body",
			Rules: []Rule{
				{ID: "fd.piked.ratio", Kind: KindExtensionRange, Weight: 0.8, Config: map[string]any{"min": 0.0, "max": 0.6}},
			},
		},
		{
			ID: "fd.legs_together", Axis: models.AxisFormDescriptor, Label: "Legs Together",
			Rules: []Rule{
				{ID: "fd.legs_together.position", Kind: KindLegPosition, Weight: 0.7, Config: map[string]any{"positions": []string{"together"}}},
			},
		},
		{
			ID: "fd.legs_split", Axis: models.AxisFormDescriptor, Label: "Legs Separated",
			Rules: []Rule{
				{ID: "fd.legs_split.position", Kind: KindLegPosition, Weight: 0.7, Config: map[string]any{"positions": []string{"split", "straddle"}}},
			},
		},
		{
			ID: "fd.high_amplitude", Axis: models.AxisFormDescriptor, Label: "High Amplitude",
			Rules: []Rule{
				{ID: "fd.high_amplitude.min", Kind: KindAmplitudeMin, Weight: 0.75, Config: map[string]any{"min": 0.8}},
			},
		},
		{
			ID: "fd.floating", Axis: models.AxisFormDescriptor, Label: "Floating Hips",
			Rules: []Rule{
				{ID: "fd.floating.min", Kind: KindAmplitudeMin, Weight: 0.7, Config: map[string]any{"min": 0.9}},
			},
		},
	}

	var relations []Relation
	relations = append(relations, excludeAll("eg.scissors", "eg.circles", "eg.travels", "eg.spindles", "eg.dismounts")...)
	relations = append(relations, excludeAll("zone.end_left", "zone.saddle", "zone.end_right")...)
	relations = append(relations, excludeAll("zone.between_pommels", "zone.single_pommel", "zone.leather_only", "zone.mixed_support")...)
	relations = append(relations, excludeAll("tq.fast", "tq.moderate", "tq.controlled")...)
	relations = append(relations, excludeAll("tq.metronomic", "tq.accelerating", "tq.decelerating", "tq.syncopated")...)
	relations = append(relations,
		Relation{From: "fd.extended", To: "fd.piked", Kind: RelationExcludes},
		Relation{From: "fd.legs_together", To: "fd.legs_split", Kind: RelationExcludes},
		Relation{From: "fd.high_amplitude", To: "fd.extended", Kind: RelationImplies},
		Relation{From: "fd.floating", To: "fd.high_amplitude", Kind: RelationImplies},
		Relation{From: "eg.circles", To: "tq.metronomic", Kind: RelationCoOccurs},
		Relation{From: "eg.scissors", To: "fd.legs_split", Kind: RelationCoOccurs},
	)

	return Definition{
		Name:      "fig-pommel-aesthetics",
		Concepts:  concepts,
		Relations: relations,
	}
}

// excludeAll links every pair in ids with a mutual excludes relation.
func excludeAll(ids ...string) []Relation {
	var out []Relation
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			out = append(out, Relation{From: ids[i], To: ids[j], Kind: RelationExcludes})
		}
	}
	return out
}
