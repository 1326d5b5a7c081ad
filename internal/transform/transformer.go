// Package transform maps raw Neo4j records back into entities and plain
// values.
package transform

import (
	"strconv"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/zorxCorp/guaphy/internal/collection"
	"github.com/zorxCorp/guaphy/internal/model"
)

// MaxSafeInteger is the largest integer a float64 represents exactly.
// Larger magnitudes are returned as decimal strings.
const MaxSafeInteger = 1<<53 - 1

// RelationPropertyAlias carries the edge of a single-relation fetch.
const RelationPropertyAlias = "__relationProperty"

// Alias suffixes produced by an eager-load step.
const (
	CollectionSuffix         = "_collection"
	RelationPropertiesSuffix = "_relationProperties"
)

// Eager describes one eager-loaded relation: the relation name on the root
// schema and the target variable its aliases are built from.
type Eager struct {
	Name     string
	Alias    string
	Relation model.Relation
	Target   *model.Schema
}

// Transformer converts records for one query. With a nil root every record
// becomes a map of converted values.
type Transformer struct {
	root  *model.Entity
	eager []Eager
	namer model.Namer
}

// New returns a transformer mapping into root's schema. Hydrated entities get
// fresh variables from namer; a nil namer reuses the root variable.
func New(root *model.Entity, namer model.Namer, eager ...Eager) *Transformer {
	return &Transformer{root: root, eager: eager, namer: namer}
}

// Records converts every record. In entity mode a record contributes the
// root entity when eager relations were requested, otherwise each of its
// values in key order.
func (t *Transformer) Records(records []*neo4j.Record) *collection.Collection[any] {
	out := collection.New[any]()
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if t.root == nil {
			out.Append(t.plainRecord(rec))
			continue
		}
		out.Append(t.entityRecord(rec)...)
	}
	return out
}

func (t *Transformer) plainRecord(rec *neo4j.Record) map[string]any {
	m := make(map[string]any, len(rec.Keys))
	for i, k := range rec.Keys {
		m[k] = Value(rec.Values[i])
	}
	return m
}

func (t *Transformer) entityRecord(rec *neo4j.Record) []any {
	keys := make([]string, 0, len(rec.Keys))
	values := make(map[string]any, len(rec.Keys))
	var edge any
	for i, k := range rec.Keys {
		if k == RelationPropertyAlias {
			edge = rec.Values[i]
			continue
		}
		keys = append(keys, k)
		values[k] = rec.Values[i]
	}

	schema := t.root.Schema()
	rootVar := t.root.Variable()

	var parent *model.Entity
	if raw, ok := values[rootVar]; ok {
		parent = t.entity(raw, schema, edgeProperties(edge))
	}

	if len(t.eager) > 0 && parent != nil {
		for _, e := range t.eager {
			t.attachEager(parent, e, values)
		}
		return []any{parent}
	}

	out := make([]any, 0, len(keys))
	for _, k := range keys {
		if k == rootVar && parent != nil {
			out = append(out, parent)
			continue
		}
		out = append(out, t.value(values[k], schema))
	}
	return out
}

func (t *Transformer) attachEager(parent *model.Entity, e Eager, values map[string]any) {
	raw := values[e.Alias+CollectionSuffix]

	if n, ok := raw.(int64); ok {
		parent.SetRelation(e.Name+"Count", Integer(n))
		return
	}

	edges, _ := values[e.Alias+RelationPropertiesSuffix].([]any)
	targets, _ := raw.([]any)

	related := collection.New[*model.Entity]()
	for _, target := range targets {
		id, ok := identity(target)
		if !ok {
			continue
		}
		props := edgeProperties(matchEdge(edges, id, e.Relation.Reverse))
		if ent := t.entity(target, e.Target, props); ent != nil {
			related.Append(ent)
		}
	}

	if e.Relation.Cardinality == model.ToOne {
		first, ok := related.First()
		if !ok {
			parent.SetRelation(e.Name, nil)
			return
		}
		parent.SetRelation(e.Name, first)
		return
	}
	parent.SetRelation(e.Name, related)
}

// matchEdge returns the first edge whose target-side endpoint is id. The
// target side is the end node, or the start node for reverse relations.
func matchEdge(edges []any, id string, reverse bool) any {
	for _, edge := range edges {
		start, end, ok := endpoints(edge)
		if !ok {
			continue
		}
		if (!reverse && end == id) || (reverse && start == id) {
			return edge
		}
	}
	return nil
}

// entity hydrates a node-shaped raw value into an entity of schema.
func (t *Transformer) entity(raw any, schema *model.Schema, edgeProps map[string]any) *model.Entity {
	n, ok := asNode(raw)
	if !ok {
		return nil
	}
	variable := t.root.Variable()
	if t.namer != nil {
		variable = t.namer.Variable(schema.Name)
	}
	e := model.Hydrate(schema, variable, n.Identity, n.Labels, n.Properties)
	if edgeProps != nil {
		e.SetRelationProperties(edgeProps)
	}
	return e
}

// value converts v in entity mode: nodes become entities of schema.
func (t *Transformer) value(v any, schema *model.Schema) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = t.value(e, schema)
		}
		return out
	}
	if isNode(v) {
		return t.entity(v, schema, nil)
	}
	return Value(v)
}

// Value converts a raw driver value into plain Go values: integers by the
// safe-range policy, nodes to model.Node, edges to model.Relationship and
// paths to model.Path. Lists and maps convert element-wise.
func Value(v any) any {
	switch val := v.(type) {
	case nil, string, bool, float64:
		return val
	case int64:
		return Integer(val)
	case int:
		return Integer(int64(val))
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = Value(e)
		}
		return out
	case dbtype.Relationship, *dbtype.Relationship:
		r, _ := asRelationship(val)
		return r
	case dbtype.Path:
		return path(val)
	case *dbtype.Path:
		if val == nil {
			return nil
		}
		return path(*val)
	case map[string]any:
		if n, ok := asNode(val); ok {
			return n
		}
		if r, ok := asRelationship(val); ok {
			return r
		}
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = Value(e)
		}
		return out
	}

	if n, ok := asNode(v); ok {
		return n
	}
	return v
}

// Integer returns n as int64 when it is within ±MaxSafeInteger, else its
// exact decimal string.
func Integer(n int64) any {
	if n > MaxSafeInteger || n < -MaxSafeInteger {
		return strconv.FormatInt(n, 10)
	}
	return n
}

func properties(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = Value(v)
	}
	return out
}

func edgeProperties(edge any) map[string]any {
	if edge == nil {
		return nil
	}
	r, ok := asRelationship(edge)
	if !ok {
		return nil
	}
	return r.Properties
}

func path(p dbtype.Path) model.Path {
	out := model.Path{
		Nodes:         make([]model.Node, 0, len(p.Nodes)),
		Relationships: make([]model.Relationship, 0, len(p.Relationships)),
	}
	for _, n := range p.Nodes {
		node, _ := asNode(n)
		out.Nodes = append(out.Nodes, node)
	}
	for _, r := range p.Relationships {
		rel, _ := asRelationship(r)
		out.Relationships = append(out.Relationships, rel)
	}
	return out
}
