// Package model holds entity type definitions, the registry that resolves
// them by name, and the Entity attribute container materialized from query
// results.
package model

import (
	"fmt"
	"strings"
)

// PrimaryKey is the attribute under which a node identity is exposed.
const PrimaryKey = "_id"

// Attribute names maintained by timestamps and soft deletes.
const (
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
	DeletedAt = "deleted_at"
)

// Cardinality distinguishes to-one from to-many relations.
type Cardinality int

const (
	ToMany Cardinality = iota
	ToOne
)

func (c Cardinality) String() string {
	if c == ToOne {
		return "one"
	}
	return "many"
}

// MarshalText implements encoding.TextMarshaler.
func (c Cardinality) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts "one" or "many".
func (c *Cardinality) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "one", "to_one", "toone":
		*c = ToOne
	case "", "many", "to_many", "tomany":
		*c = ToMany
	default:
		return fmt.Errorf("unknown cardinality %q", text)
	}
	return nil
}

// Relation declares an edge from the owning schema to a target schema.
// Reverse means the edge points from the target to the owner.
type Relation struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"`
	Target      string      `yaml:"target"`
	Reverse     bool        `yaml:"reverse"`
	Cardinality Cardinality `yaml:"cardinality"`
}

// Schema is a node type definition.
type Schema struct {
	Name        string     `yaml:"name"`
	Labels      []string   `yaml:"labels"`
	SoftDeletes bool       `yaml:"soft_deletes"`
	Timestamps  bool       `yaml:"timestamps"`
	Relations   []Relation `yaml:"relations"`
}

// Label returns the labels joined by ":", defaulting to the schema name.
func (s *Schema) Label() string {
	if len(s.Labels) == 0 {
		return s.Name
	}
	return strings.Join(s.Labels, ":")
}

// Relation looks up a declared relation by name.
func (s *Schema) Relation(name string) (Relation, bool) {
	for _, r := range s.Relations {
		if r.Name == name {
			return r, true
		}
	}
	return Relation{}, false
}

// HasOne declares a to-one relation and returns s for chaining.
func (s *Schema) HasOne(name, edgeType, target string) *Schema {
	s.Relations = append(s.Relations, Relation{Name: name, Type: edgeType, Target: target, Cardinality: ToOne})
	return s
}

// HasMany declares a to-many relation and returns s for chaining.
func (s *Schema) HasMany(name, edgeType, target string) *Schema {
	s.Relations = append(s.Relations, Relation{Name: name, Type: edgeType, Target: target, Cardinality: ToMany})
	return s
}

// BelongsToMany declares a to-many relation whose edges point at s.
func (s *Schema) BelongsToMany(name, edgeType, target string) *Schema {
	s.Relations = append(s.Relations, Relation{Name: name, Type: edgeType, Target: target, Reverse: true, Cardinality: ToMany})
	return s
}
