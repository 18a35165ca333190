package taxonomy

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/kinemetric/pommel/internal/models"
)

// RuleKind identifies one of the closed set of recognition predicate kinds.
// Rules are data, not code: a kind plus its decoded parameters. Keeping the
// set closed makes the registry's invariant checks exhaustive.
type RuleKind string

const (
	// KindName matches the element's raw name token against a list.
	KindName RuleKind = "name"
	// KindZoneBand matches when the element's mean X falls inside [min, max).
	KindZoneBand RuleKind = "zone_band"
	// KindSupport matches when any position names one of the given supports.
	KindSupport RuleKind = "support"
	// KindDurationRange matches when duration falls inside [min, max).
	// A zero max means unbounded.
	KindDurationRange RuleKind = "duration_range"
	// KindDisplacement matches when |last.X - first.X| is at least min.
	KindDisplacement RuleKind = "displacement"
	// KindExtensionRange matches the form extension ratio against [min, max).
	// A zero max means unbounded.
	KindExtensionRange RuleKind = "extension_range"
	// KindAmplitudeMin matches when the form amplitude is at least min.
	KindAmplitudeMin RuleKind = "amplitude_min"
	// KindLegPosition matches the form leg position against a list.
	KindLegPosition RuleKind = "leg_position"
)

// Rule is one recognition rule attached to a concept. A rule either matches
// with confidence equal to its fixed weight, or it does not match; there are
// no partial scores at classification time.
type Rule struct {
	ID     string         `yaml:"id" json:"id"`
	Kind   RuleKind       `yaml:"kind" json:"kind"`
	Weight float64        `yaml:"weight" json:"weight"`
	Config map[string]any `yaml:"config,omitempty" json:"config,omitempty"`
}

// matcher is a compiled rule predicate.
type matcher interface {
	// applicable reports whether the element carries the data this rule reads.
	applicable(el *models.RoutineElement) bool
	// matches evaluates the predicate. Only meaningful when applicable.
	matches(el *models.RoutineElement) bool
}

// compileRule decodes a rule's parameters into its matcher. Unknown kinds and
// malformed parameters are construction-time failures.
func compileRule(r Rule) (matcher, error) {
	switch r.Kind {
	case KindName:
		var v struct {
			Tokens []string `mapstructure:"tokens"`
		}
		if err := mapstructure.Decode(r.Config, &v); err != nil {
			return nil, err
		}
		if len(v.Tokens) == 0 {
			return nil, fmt.Errorf("name rule needs at least one token")
		}
		tokens := make(map[string]bool, len(v.Tokens))
		for _, t := range v.Tokens {
			tokens[strings.ToLower(t)] = true
		}
		return &nameMatcher{tokens: tokens}, nil
	case KindZoneBand:
		var v struct {
			Min float64 `mapstructure:"min"`
			Max float64 `mapstructure:"max"`
		}
		if err := mapstructure.Decode(r.Config, &v); err != nil {
			return nil, err
		}
		if v.Max <= v.Min {
			return nil, fmt.Errorf("zone_band rule needs min < max")
		}
		return &zoneBandMatcher{min: v.Min, max: v.Max}, nil
	case KindSupport:
		var v struct {
			Supports []string `mapstructure:"supports"`
		}
		if err := mapstructure.Decode(r.Config, &v); err != nil {
			return nil, err
		}
		if len(v.Supports) == 0 {
			return nil, fmt.Errorf("support rule needs at least one support name")
		}
		names := make(map[string]bool, len(v.Supports))
		for _, s := range v.Supports {
			names[strings.ToLower(s)] = true
		}
		return &supportMatcher{names: names}, nil
	case KindDurationRange:
		var v struct {
			Min float64 `mapstructure:"min"`
			Max float64 `mapstructure:"max"`
		}
		if err := mapstructure.Decode(r.Config, &v); err != nil {
			return nil, err
		}
		return &durationRangeMatcher{min: v.Min, max: v.Max}, nil
	case KindDisplacement:
		var v struct {
			Min float64 `mapstructure:"min"`
		}
		if err := mapstructure.Decode(r.Config, &v); err != nil {
			return nil, err
		}
		if v.Min <= 0 {
			return nil, fmt.Errorf("displacement rule needs min > 0")
		}
		return &displacementMatcher{min: v.Min}, nil
	case KindExtensionRange:
		var v struct {
			Min float64 `mapstructure:"min"`
			Max float64 `mapstructure:"max"`
		}
		if err := mapstructure.Decode(r.Config, &v); err != nil {
			return nil, err
		}
		return &extensionRangeMatcher{min: v.Min, max: v.Max}, nil
	case KindAmplitudeMin:
		var v struct {
			Min float64 `mapstructure:"min"`
		}
		if err := mapstructure.Decode(r.Config, &v); err != nil {
			return nil, err
		}
		return &amplitudeMinMatcher{min: v.Min}, nil
	case KindLegPosition:
		var v struct {
			Positions []string `mapstructure:"positions"`
		}
		if err := mapstructure.Decode(r.Config, &v); err != nil {
			return nil, err
		}
		if len(v.Positions) == 0 {
			return nil, fmt.Errorf("leg_position rule needs at least one position")
		}
		allowed := make(map[string]bool, len(v.Positions))
		for _, p := range v.Positions {
			allowed[strings.ToLower(p)] = true
		}
		return &legPositionMatcher{allowed: allowed}, nil
	default:
		return nil, fmt.Errorf("%q is not a valid rule kind", r.Kind)
	}
}

type nameMatcher struct{ tokens map[string]bool }

func (m *nameMatcher) applicable(el *models.RoutineElement) bool { return el.Name != "" }
func (m *nameMatcher) matches(el *models.RoutineElement) bool {
	return m.tokens[strings.ToLower(el.Name)]
}

type zoneBandMatcher struct{ min, max float64 }

func (m *zoneBandMatcher) applicable(el *models.RoutineElement) bool { return el.HasPositions() }
func (m *zoneBandMatcher) matches(el *models.RoutineElement) bool {
	x, ok := el.CenterX()
	return ok && x >= m.min && x < m.max
}

type supportMatcher struct{ names map[string]bool }

func (m *supportMatcher) applicable(el *models.RoutineElement) bool { return el.HasPositions() }
func (m *supportMatcher) matches(el *models.RoutineElement) bool {
	for _, p := range el.Positions {
		if m.names[strings.ToLower(p.Support)] {
			return true
		}
	}
	return false
}

type durationRangeMatcher struct{ min, max float64 }

func (m *durationRangeMatcher) applicable(el *models.RoutineElement) bool { return el.HasTiming() }
func (m *durationRangeMatcher) matches(el *models.RoutineElement) bool {
	if el.Duration < m.min {
		return false
	}
	return m.max == 0 || el.Duration < m.max
}

type displacementMatcher struct{ min float64 }

func (m *displacementMatcher) applicable(el *models.RoutineElement) bool {
	return len(el.Positions) >= 2
}
func (m *displacementMatcher) matches(el *models.RoutineElement) bool {
	d := el.Positions[len(el.Positions)-1].X - el.Positions[0].X
	if d < 0 {
		d = -d
	}
	return d >= m.min
}

type extensionRangeMatcher struct{ min, max float64 }

func (m *extensionRangeMatcher) applicable(el *models.RoutineElement) bool { return el.Form != nil }
func (m *extensionRangeMatcher) matches(el *models.RoutineElement) bool {
	r := el.Form.ExtensionRatio
	if r < m.min {
		return false
	}
	return m.max == 0 || r < m.max
}

type amplitudeMinMatcher struct{ min float64 }

func (m *amplitudeMinMatcher) applicable(el *models.RoutineElement) bool { return el.Form != nil }
func (m *amplitudeMinMatcher) matches(el *models.RoutineElement) bool {
	return el.Form.Amplitude >= m.min
}

type legPositionMatcher struct{ allowed map[string]bool }

func (m *legPositionMatcher) applicable(el *models.RoutineElement) bool {
	return el.Form != nil && el.Form.LegPosition != ""
}
func (m *legPositionMatcher) matches(el *models.RoutineElement) bool {
	return m.allowed[strings.ToLower(el.Form.LegPosition)]
}
