package query

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/zorxCorp/guaphy/internal/cypher"
	"github.com/zorxCorp/guaphy/internal/errors"
	"github.com/zorxCorp/guaphy/internal/graph"
	"github.com/zorxCorp/guaphy/internal/transform"
)

type relationOptions struct {
	filter BuilderFunc
	limit  int
}

// RelationOption tunes an eager relation load.
type RelationOption func(*relationOptions)

// WithFilter narrows the related targets. fn runs on a sub-builder bound to
// the target entity.
func WithFilter(fn BuilderFunc) RelationOption {
	return func(o *relationOptions) { o.filter = fn }
}

// WithLimit caps how many targets are collected per parent.
func WithLimit(n int) RelationOption {
	return func(o *relationOptions) { o.limit = n }
}

// WithRelation eager-loads the named relation of the bound entity. The
// related entities are attached to each fetched parent under name.
func (b *Builder) WithRelation(name string, opts ...RelationOption) *Builder {
	return b.withRelation(name, "collect", opts)
}

// WithCountRelation loads only the number of related targets, attached
// under name+"Count".
func (b *Builder) WithCountRelation(name string, opts ...RelationOption) *Builder {
	return b.withRelation(name, "count", opts)
}

func (b *Builder) withRelation(name, fn string, opts []RelationOption) *Builder {
	if b.err != nil || b.entity == nil {
		return b
	}
	if b.registry == nil {
		return b.fail(errors.ConfigErrorf("cannot load relation %q without a registry", name))
	}

	parentSchema := b.entity.Schema()
	rel, targetSchema, err := b.registry.Resolve(parentSchema, name)
	if err != nil {
		return b.fail(err)
	}

	var o relationOptions
	for _, opt := range opts {
		opt(&o)
	}

	target := b.registry.Entity(targetSchema)
	parentVar := b.entity.Variable()
	targetVar := target.Variable()
	relVar := b.registry.RelationVariable(parentSchema, targetSchema)

	direction := cypher.Outgoing
	if rel.Reverse {
		direction = cypher.Incoming
	}

	sub := b.sub(target)
	sub.withTrashed = b.withTrashed
	sub.Match(func(p *cypher.Pattern) *cypher.Pattern {
		return p.Node(parentVar, b.entity.Label())
	}).OptionalMatch(func(p *cypher.Pattern) *cypher.Pattern {
		return p.Node(parentVar, "").
			Relationship(direction, relVar, rel.Type).
			Node(targetVar, target.Label())
	})
	if o.filter != nil {
		sub = o.filter(sub)
		if sub == nil {
			return b.fail(errors.InternalErrorf("relation %q filter returned no builder", name))
		}
	}
	if sub.err != nil {
		return b.fail(sub.err)
	}

	// A count is a scalar and cannot be sliced.
	limit := ""
	if o.limit > 0 && fn == "collect" {
		limit = fmt.Sprintf("[..%d]", o.limit)
	}

	collectionAlias := targetVar + transform.CollectionSuffix
	propertiesAlias := targetVar + transform.RelationPropertiesSuffix

	withs := []string{
		cypher.Raw(parentVar),
		cypher.Raw(fn + "(" + relVar + ")" + limit + " as " + propertiesAlias),
		cypher.Raw(fn + "(" + targetVar + ")" + limit + " as " + collectionAlias),
	}
	withs = append(withs, b.requestedRelations...)
	sub.With(withs...)

	if sub.mode == graph.Write {
		b.write()
	}
	b.statements = append(b.statements, sub.ToCypher())
	b.writingCondition = false

	b.additionalReturns = appendUnique(b.additionalReturns,
		parentVar, cypher.Raw(collectionAlias), cypher.Raw(propertiesAlias))
	b.requestedRelations = appendUnique(b.requestedRelations,
		cypher.Raw(collectionAlias), cypher.Raw(propertiesAlias))
	b.eager = append(b.eager, transform.Eager{
		Name:     name,
		Alias:    targetVar,
		Relation: rel,
		Target:   targetSchema,
	})
	return b
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		if !slices.Contains(list, item) {
			list = append(list, item)
		}
	}
	return list
}

// countAlias returns a result alias that cannot collide with a variable.
func countAlias() string {
	return "count_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, errors.InternalErrorf("count returned non-integer %v", n)
		}
		return int64(n), nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, errors.InternalErrorf("count returned %q", n)
		}
		return i, nil
	}
	return 0, errors.InternalErrorf("count returned unexpected %T", v)
}
