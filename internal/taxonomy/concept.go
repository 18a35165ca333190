package taxonomy

import "github.com/kinemetric/pommel/internal/models"

// RelationKind is the kind of a directed edge between two concepts.
type RelationKind string

const (
	RelationImplies  RelationKind = "implies"
	RelationExcludes RelationKind = "excludes"
	RelationCoOccurs RelationKind = "co-occurs-with"
)

// Valid reports whether k is a known relation kind.
func (k RelationKind) Valid() bool {
	switch k {
	case RelationImplies, RelationExcludes, RelationCoOccurs:
		return true
	}
	return false
}

// Relation is a directed edge between two concepts.
type Relation struct {
	From string       `yaml:"from" json:"from"`
	To   string       `yaml:"to" json:"to"`
	Kind RelationKind `yaml:"kind" json:"kind"`
}

// Concept is one categorical concept on one axis. Concepts are defined once
// at registry construction and never mutated.
type Concept struct {
	ID    string      `yaml:"id" json:"id"`
	Axis  models.Axis `yaml:"axis" json:"axis"`
	Label string      `yaml:"label" json:"label"`
	// Rules are the recognition predicates for this concept. A concept with
	// no rules is never matched by the classifier but can still be referenced
	// by analyzer facts and relations.
	Rules []Rule `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// Definition is the declarative registry seed: the logical schema a registry
// is constructed from, whether built in or loaded from a file.
type Definition struct {
	Name      string     `yaml:"name" json:"name"`
	Concepts  []Concept  `yaml:"concepts" json:"concepts"`
	Relations []Relation `yaml:"relations,omitempty" json:"relations,omitempty"`
}
