package taxonomy

import (
	"fmt"

	"github.com/kinemetric/pommel/internal/models"
)

// TaxonomyError reports a malformed registry definition. It is fatal at
// startup: a process holding no valid registry must refuse classification
// requests.
type TaxonomyError struct {
	Subject string // offending concept, relation endpoint, or rule id
	Reason  string
}

func (e *TaxonomyError) Error() string {
	if e.Subject == "" {
		return "taxonomy: " + e.Reason
	}
	return fmt.Sprintf("taxonomy: %s: %s", e.Subject, e.Reason)
}

// Evaluator is one compiled (concept, rule) pair the classifier runs against
// an element.
type Evaluator struct {
	ConceptID string
	Axis      models.Axis
	RuleID    string
	Weight    float64
	m         matcher
}

// Applicable reports whether the element carries the data the rule reads.
func (ev *Evaluator) Applicable(el *models.RoutineElement) bool { return ev.m.applicable(el) }

// Matches evaluates the rule predicate against the element.
func (ev *Evaluator) Matches(el *models.RoutineElement) bool { return ev.m.matches(el) }

// Registry is the immutable concept catalog. It is constructed once, shared
// process-wide, and never mutated afterward.
type Registry struct {
	name       string
	concepts   []Concept
	order      map[string]int        // concept id -> registration index
	relations  map[string][]Relation // concept id -> relations touching it
	excludes   map[[2]string]bool    // undirected exclusion pairs
	requires   map[string][]string   // concept id -> implied prerequisite ids
	evaluators map[models.Axis][]Evaluator
}

// New constructs a registry from a definition, validating every invariant.
// Any violation is returned as a *TaxonomyError and the registry must not be
// used.
func New(def Definition) (*Registry, error) {
	r := &Registry{
		name:       def.Name,
		concepts:   make([]Concept, 0, len(def.Concepts)),
		order:      make(map[string]int, len(def.Concepts)),
		relations:  make(map[string][]Relation),
		excludes:   make(map[[2]string]bool),
		requires:   make(map[string][]string),
		evaluators: make(map[models.Axis][]Evaluator),
	}

	ruleIDs := make(map[string]bool)
	for _, c := range def.Concepts {
		if c.ID == "" {
			return nil, &TaxonomyError{Reason: "concept with empty id"}
		}
		if _, dup := r.order[c.ID]; dup {
			return nil, &TaxonomyError{Subject: c.ID, Reason: "duplicate concept id"}
		}
		if !c.Axis.Valid() {
			return nil, &TaxonomyError{Subject: c.ID, Reason: fmt.Sprintf("unknown axis %q", c.Axis)}
		}
		r.order[c.ID] = len(r.concepts)
		r.concepts = append(r.concepts, c)

		for _, rule := range c.Rules {
			if rule.ID == "" {
				return nil, &TaxonomyError{Subject: c.ID, Reason: "rule with empty id"}
			}
			if ruleIDs[rule.ID] {
				return nil, &TaxonomyError{Subject: rule.ID, Reason: "duplicate rule id"}
			}
			ruleIDs[rule.ID] = true
			if rule.Weight <= 0 || rule.Weight > 1 {
				return nil, &TaxonomyError{Subject: rule.ID, Reason: fmt.Sprintf("rule weight %v outside (0,1]", rule.Weight)}
			}
			m, err := compileRule(rule)
			if err != nil {
				return nil, &TaxonomyError{Subject: rule.ID, Reason: err.Error()}
			}
			r.evaluators[c.Axis] = append(r.evaluators[c.Axis], Evaluator{
				ConceptID: c.ID,
				Axis:      c.Axis,
				RuleID:    rule.ID,
				Weight:    rule.Weight,
				m:         m,
			})
		}
	}

	// Track same-axis implies pairs so the exclude/implies invariant can be
	// checked regardless of edge order and direction.
	implied := make(map[[2]string]bool)
	for _, rel := range def.Relations {
		if !rel.Kind.Valid() {
			return nil, &TaxonomyError{Subject: rel.From, Reason: fmt.Sprintf("unknown relation kind %q", rel.Kind)}
		}
		fromIdx, ok := r.order[rel.From]
		if !ok {
			return nil, &TaxonomyError{Subject: rel.From, Reason: "relation references undefined concept"}
		}
		toIdx, ok := r.order[rel.To]
		if !ok {
			return nil, &TaxonomyError{Subject: rel.To, Reason: "relation references undefined concept"}
		}
		sameAxis := r.concepts[fromIdx].Axis == r.concepts[toIdx].Axis
		pair := pairKey(rel.From, rel.To)

		switch rel.Kind {
		case RelationExcludes:
			if sameAxis && implied[pair] {
				return nil, &TaxonomyError{Subject: rel.From, Reason: fmt.Sprintf("concepts %q and %q linked by both implies and excludes", rel.From, rel.To)}
			}
			r.excludes[pair] = true
		case RelationImplies:
			if sameAxis && r.excludes[pair] {
				return nil, &TaxonomyError{Subject: rel.From, Reason: fmt.Sprintf("concepts %q and %q linked by both implies and excludes", rel.From, rel.To)}
			}
			if sameAxis {
				implied[pair] = true
			}
			r.requires[rel.From] = append(r.requires[rel.From], rel.To)
		}
		r.relations[rel.From] = append(r.relations[rel.From], rel)
		if rel.To != rel.From {
			r.relations[rel.To] = append(r.relations[rel.To], rel)
		}
	}

	return r, nil
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// Name returns the definition name the registry was built from.
func (r *Registry) Name() string { return r.name }

// Lookup returns the concepts on an axis in registration order.
func (r *Registry) Lookup(axis models.Axis) []Concept {
	var out []Concept
	for _, c := range r.concepts {
		if c.Axis == axis {
			out = append(out, c)
		}
	}
	return out
}

// Concept returns the concept with the given id.
func (r *Registry) Concept(id string) (Concept, bool) {
	idx, ok := r.order[id]
	if !ok {
		return Concept{}, false
	}
	return r.concepts[idx], true
}

// RelationsOf returns every relation touching the given concept.
func (r *Registry) RelationsOf(id string) []Relation {
	return r.relations[id]
}

// Excludes reports whether two concepts are linked by an excludes relation,
// in either direction.
func (r *Registry) Excludes(a, b string) bool {
	return r.excludes[pairKey(a, b)]
}

// Requires returns the prerequisite concepts implied by the given concept.
func (r *Registry) Requires(id string) []string {
	return r.requires[id]
}

// Order returns the registration index of a concept, used as the
// deterministic tie-break. Unknown ids sort last.
func (r *Registry) Order(id string) int {
	idx, ok := r.order[id]
	if !ok {
		return len(r.concepts)
	}
	return idx
}

// Evaluators returns the compiled rules for an axis in registration order.
func (r *Registry) Evaluators(axis models.Axis) []Evaluator {
	return r.evaluators[axis]
}
