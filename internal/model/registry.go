package model

import (
	stderrors "errors"
	"sync"

	"github.com/zorxCorp/guaphy/internal/errors"
)

var (
	// ErrWrongModel is the cause when an entity of the wrong schema is used
	// with a relation.
	ErrWrongModel = stderrors.New("entity schema does not match relation target")

	// ErrDeletedEntity is returned when writing to a deleted entity.
	ErrDeletedEntity = stderrors.New("cannot set properties on a deleted entity")
)

// Registry resolves schemas by name. It is built once at startup and passed
// to everything that needs type resolution.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
	order   []string
	namer   Namer
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithNamer overrides the variable generator.
func WithNamer(n Namer) RegistryOption {
	return func(r *Registry) {
		r.namer = n
	}
}

// NewRegistry returns an empty registry using a CounterNamer by default.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		schemas: make(map[string]*Schema),
		namer:   NewCounterNamer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds schemas. Names must be non-empty and unique.
func (r *Registry) Register(schemas ...*Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range schemas {
		if s == nil || s.Name == "" {
			return errors.ConfigError("schema name is required")
		}
		if _, exists := r.schemas[s.Name]; exists {
			return errors.ConfigErrorf("schema %q is already registered", s.Name)
		}
		r.schemas[s.Name] = s
		r.order = append(r.order, s.Name)
	}
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(schemas ...*Schema) *Registry {
	if err := r.Register(schemas...); err != nil {
		panic(err)
	}
	return r
}

// Schema returns the schema registered under name.
func (r *Registry) Schema(name string) (*Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[name]
	if !ok {
		return nil, errors.ConfigErrorf("schema %q is not registered", name)
	}
	return s, nil
}

// Schemas returns all schemas in registration order.
func (r *Registry) Schemas() []*Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Schema, len(r.order))
	for i, name := range r.order {
		out[i] = r.schemas[name]
	}
	return out
}

// Namer returns the registry's variable generator.
func (r *Registry) Namer() Namer {
	return r.namer
}

// Resolve finds relation name on s and the schema it targets.
func (r *Registry) Resolve(s *Schema, name string) (Relation, *Schema, error) {
	rel, ok := s.Relation(name)
	if !ok {
		return Relation{}, nil, errors.ConfigErrorf("relation %q is not declared on %s", name, s.Name).
			WithContext("schema", s.Name)
	}

	target, err := r.Schema(rel.Target)
	if err != nil {
		return Relation{}, nil, errors.ConfigErrorf("relation %q on %s targets unregistered schema %q", name, s.Name, rel.Target).
			WithContext("schema", s.Name)
	}
	return rel, target, nil
}

// Validate checks that every relation target is registered.
func (r *Registry) Validate() error {
	for _, s := range r.Schemas() {
		for _, rel := range s.Relations {
			if rel.Type == "" {
				return errors.ConfigErrorf("relation %q on %s has no edge type", rel.Name, s.Name)
			}
			if _, _, err := r.Resolve(s, rel.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// New returns a fresh entity of the named schema with a generated variable.
func (r *Registry) New(name string) (*Entity, error) {
	s, err := r.Schema(name)
	if err != nil {
		return nil, err
	}
	return r.Entity(s), nil
}

// Entity returns a fresh entity of s with a generated variable.
func (r *Registry) Entity(s *Schema) *Entity {
	return NewEntity(s, r.namer.Variable(s.Name))
}

// RelationVariable names a new edge variable between two schemas.
func (r *Registry) RelationVariable(from, to *Schema) string {
	return RelationVariable(r.namer, from.Name, to.Name)
}
