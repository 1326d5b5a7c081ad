package model

import (
	"encoding/json"
	"maps"
	"strconv"
)

// Entity is an instance of a schema: an attribute map, loaded relations and
// lifecycle flags. It is not safe for concurrent mutation.
type Entity struct {
	schema     *Schema
	variable   string
	id         string
	labels     []string
	attributes map[string]any
	relations  map[string]any
	edgeProps  map[string]any
	persisted  bool
	deleted    bool
}

// NewEntity returns an empty, unpersisted entity bound to variable.
func NewEntity(s *Schema, variable string) *Entity {
	return &Entity{
		schema:     s,
		variable:   variable,
		attributes: make(map[string]any),
		relations:  make(map[string]any),
	}
}

// Hydrate builds a persisted entity from a stored node.
func Hydrate(s *Schema, variable, id string, labels []string, props map[string]any) *Entity {
	e := NewEntity(s, variable)
	e.labels = labels
	maps.Copy(e.attributes, props)
	e.SetID(id)
	e.persisted = true
	return e
}

// Schema returns the entity's type definition.
func (e *Entity) Schema() *Schema { return e.schema }

// Variable returns the query variable the entity is bound to.
func (e *Entity) Variable() string { return e.variable }

// Label returns the schema label expression (A:B).
func (e *Entity) Label() string { return e.schema.Label() }

// Labels returns the labels reported by the database, if loaded.
func (e *Entity) Labels() []string { return e.labels }

// ID returns the node identity, empty when not persisted yet.
func (e *Entity) ID() string { return e.id }

// HasID reports whether the entity carries a node identity.
func (e *Entity) HasID() bool { return e.id != "" }

// SetID sets the identity and mirrors it into the primary-key attribute.
func (e *Entity) SetID(id string) {
	e.id = id
	if id == "" {
		delete(e.attributes, PrimaryKey)
		return
	}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		e.attributes[PrimaryKey] = n
	} else {
		e.attributes[PrimaryKey] = id
	}
}

// Get returns an attribute.
func (e *Entity) Get(key string) (any, bool) {
	v, ok := e.attributes[key]
	return v, ok
}

// GetString returns an attribute as a string, or "" when absent or not a string.
func (e *Entity) GetString(key string) string {
	s, _ := e.attributes[key].(string)
	return s
}

// Set writes an attribute and marks the entity dirty.
func (e *Entity) Set(key string, value any) error {
	if e.deleted {
		return ErrDeletedEntity
	}
	e.attributes[key] = value
	e.persisted = false
	return nil
}

// Fill replaces every attribute except the primary key.
func (e *Entity) Fill(data map[string]any) error {
	if e.deleted {
		return ErrDeletedEntity
	}
	pk, hasPK := e.attributes[PrimaryKey]
	e.attributes = make(map[string]any, len(data)+1)
	maps.Copy(e.attributes, data)
	if hasPK {
		e.attributes[PrimaryKey] = pk
	}
	e.persisted = false
	return nil
}

// Attributes returns a copy of the attribute map.
func (e *Entity) Attributes() map[string]any {
	return maps.Clone(e.attributes)
}

// Properties returns the attributes that are stored on the node, i.e.
// everything but the primary key.
func (e *Entity) Properties() map[string]any {
	out := maps.Clone(e.attributes)
	delete(out, PrimaryKey)
	return out
}

// Related returns a loaded relation value: a collection, a single entity,
// nil for an empty to-one, or a count under "<name>Count".
func (e *Entity) Related(name string) (any, bool) {
	v, ok := e.relations[name]
	return v, ok
}

// SetRelation stores a loaded relation value.
func (e *Entity) SetRelation(name string, value any) {
	e.relations[name] = value
}

// Relations returns a copy of the loaded relations.
func (e *Entity) Relations() map[string]any {
	return maps.Clone(e.relations)
}

// RelationProperties returns the properties of the edge this entity was
// reached through, if any.
func (e *Entity) RelationProperties() map[string]any {
	return e.edgeProps
}

// SetRelationProperties records the properties of the edge this entity was
// reached through.
func (e *Entity) SetRelationProperties(props map[string]any) {
	e.edgeProps = props
}

// IsPersisted reports whether the attributes match the stored node.
func (e *Entity) IsPersisted() bool { return e.persisted }

// MarkPersisted flags the entity as in sync with the database.
func (e *Entity) MarkPersisted() { e.persisted = true }

// IsDeleted reports whether the entity has been deleted.
func (e *Entity) IsDeleted() bool { return e.deleted }

// MarkDeleted freezes the entity against further writes.
func (e *Entity) MarkDeleted() { e.deleted = true }

// MarshalJSON encodes attributes merged with loaded relations, the edge
// properties under __relationProperties and the label under _label.
func (e *Entity) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.attributes)+len(e.relations)+2)
	maps.Copy(out, e.attributes)
	maps.Copy(out, e.relations)
	if len(e.edgeProps) > 0 {
		out["__relationProperties"] = e.edgeProps
	}
	out["_label"] = e.Label()
	return json.Marshal(out)
}
