package query

import (
	"github.com/zorxCorp/guaphy/internal/cypher"
	"github.com/zorxCorp/guaphy/internal/model"
)

// Predicates. The first one opens a WHERE block; the rest extend it until a
// clause closes it.

func (b *Builder) Where(field any, args ...any) *Builder {
	return b.addCondition(b.predicate().Where(field, args...))
}

func (b *Builder) WhereNot(field any, args ...any) *Builder {
	return b.addCondition(b.predicate().WhereNot(field, args...))
}

func (b *Builder) And(field any, args ...any) *Builder {
	return b.addCondition(b.predicate().And(field, args...))
}

func (b *Builder) AndNot(field any, args ...any) *Builder {
	return b.addCondition(b.predicate().AndNot(field, args...))
}

func (b *Builder) Or(field any, args ...any) *Builder {
	return b.addCondition(b.predicate().Or(field, args...))
}

func (b *Builder) OrNot(field any, args ...any) *Builder {
	return b.addCondition(b.predicate().OrNot(field, args...))
}

func (b *Builder) Xor(field any, args ...any) *Builder {
	return b.addCondition(b.predicate().Xor(field, args...))
}

func (b *Builder) XorNot(field any, args ...any) *Builder {
	return b.addCondition(b.predicate().XorNot(field, args...))
}

func (b *Builder) WhereRaw(text string) *Builder {
	return b.addCondition(b.predicate().WhereRaw(text))
}

func (b *Builder) WhereBetween(field string, lo, hi any, ops ...string) *Builder {
	return b.addCondition(b.predicate().WhereBetween(field, lo, hi, ops...))
}

func (b *Builder) WhereExists(field string) *Builder {
	return b.addCondition(b.predicate().WhereExists(field))
}

func (b *Builder) WhereID(field string, id any) *Builder {
	return b.addCondition(b.predicate().WhereID(field, id))
}

func (b *Builder) WhereIDIn(field string, ids ...any) *Builder {
	return b.addCondition(b.predicate().WhereIDIn(field, ids...))
}

func (b *Builder) WhereContains(field string, value any) *Builder {
	return b.addCondition(b.predicate().WhereContains(field, value))
}

func (b *Builder) WhereStartsWith(field string, value any) *Builder {
	return b.addCondition(b.predicate().WhereStartsWith(field, value))
}

func (b *Builder) WhereEndsWith(field string, value any) *Builder {
	return b.addCondition(b.predicate().WhereEndsWith(field, value))
}

func (b *Builder) WhereRegex(field string, expression any) *Builder {
	return b.addCondition(b.predicate().WhereRegex(field, expression))
}

func (b *Builder) WhereIn(field string, list any) *Builder {
	return b.addCondition(b.predicate().WhereIn(field, list))
}

func (b *Builder) WhereLabel(field, label string) *Builder {
	return b.addCondition(b.predicate().WhereLabel(field, label))
}

// Pattern fragments appended directly to the statement.

func (b *Builder) Node(variable, label string, props ...map[string]any) *Builder {
	return b.addPattern(b.pattern().Node(variable, label, props...))
}

func (b *Builder) Relation(variable, typ string, props ...map[string]any) *Builder {
	return b.addPattern(b.pattern().Relation(variable, typ, props...))
}

func (b *Builder) RelationIn(variable, typ string, props ...map[string]any) *Builder {
	return b.addPattern(b.pattern().RelationIn(variable, typ, props...))
}

func (b *Builder) RelationOut(variable, typ string, props ...map[string]any) *Builder {
	return b.addPattern(b.pattern().RelationOut(variable, typ, props...))
}

// Relationship appends an edge in direction d.
func (b *Builder) Relationship(d cypher.Direction, variable, typ string, props ...map[string]any) *Builder {
	return b.addPattern(b.pattern().Relationship(d, variable, typ, props...))
}

// RelationFunc appends an edge whose alternatives are built by fn.
func (b *Builder) RelationFunc(d cypher.Direction, fn cypher.PatternFunc) *Builder {
	return b.addPattern(b.pattern().RelationFunc(d, fn))
}

// Clauses.

func (b *Builder) Limit(n int) *Builder {
	return b.addClause(b.clause().Limit(n), true)
}

func (b *Builder) Skip(v any) *Builder {
	return b.addClause(b.clause().Skip(v), true)
}

func (b *Builder) OrderBy(fields []string, direction string) *Builder {
	return b.addClause(b.clause().OrderBy(fields, direction), true)
}

func (b *Builder) OrderByFields(orders ...cypher.Order) *Builder {
	return b.addClause(b.clause().OrderByFields(orders...), true)
}

// Return projects fields. With none it projects the aliases accumulated by
// eager loads, or the bound entity.
func (b *Builder) Return(fields ...string) *Builder {
	if len(fields) == 0 && len(b.additionalReturns) > 0 {
		fields = b.additionalReturns
	}
	return b.addClause(b.clause().Return(fields...), true)
}

func (b *Builder) With(fields ...string) *Builder {
	return b.addClause(b.clause().With(fields...), true)
}

func (b *Builder) As(field string) *Builder {
	return b.addClause(b.clause().As(field), true)
}

// Match, OptionalMatch, Unwind and Create never inject the default MATCH.

func (b *Builder) Match(patterns ...cypher.PatternFunc) *Builder {
	return b.addClause(b.clause().Match(patterns...), false)
}

func (b *Builder) OptionalMatch(patterns ...cypher.PatternFunc) *Builder {
	return b.addClause(b.clause().OptionalMatch(patterns...), false)
}

func (b *Builder) Unwind(list any, alias string) *Builder {
	return b.addClause(b.clause().Unwind(list, alias), false)
}

func (b *Builder) Create(patterns ...cypher.PatternFunc) *Builder {
	b.write()
	return b.addClause(b.clause().Create(patterns...), false)
}

func (b *Builder) Merge(pattern cypher.PatternFunc) *Builder {
	b.write()
	return b.addClause(b.clause().Merge(pattern), true)
}

func (b *Builder) OnMatch() *Builder {
	return b.addClause(b.clause().OnMatch(), true)
}

func (b *Builder) OnCreate() *Builder {
	return b.addClause(b.clause().OnCreate(), true)
}

func (b *Builder) Set(field string, value any) *Builder {
	b.write()
	return b.addClause(b.clause().Set(field, value), true)
}

func (b *Builder) SetMap(values map[string]any) *Builder {
	b.write()
	return b.addClause(b.clause().SetMap(values), true)
}

// Update is Set.
func (b *Builder) Update(field string, value any) *Builder {
	return b.Set(field, value)
}

// UpdateMap is SetMap.
func (b *Builder) UpdateMap(values map[string]any) *Builder {
	return b.SetMap(values)
}

func (b *Builder) Remove(field string) *Builder {
	b.write()
	return b.addClause(b.clause().Remove(field), true)
}

// Delete removes field. On a soft-deleting entity it stamps deleted_at on
// the entity instead.
func (b *Builder) Delete(field string, detach bool) *Builder {
	if b.entity != nil && b.entity.Schema().SoftDeletes {
		b.write()
		return b.addClause(b.clause().SetMap(map[string]any{
			model.DeletedAt: b.now().Format(cypher.TimeFormat),
		}), true)
	}
	return b.ForceDelete(field, detach)
}

// ForceDelete removes field even when the entity soft-deletes.
func (b *Builder) ForceDelete(field string, detach bool) *Builder {
	b.write()
	return b.addClause(b.clause().Delete(field, detach), true)
}

// Restore clears deleted_at on field.
func (b *Builder) Restore(field string) *Builder {
	b.write()
	return b.addClause(b.clause().Restore(field), true)
}

func (b *Builder) Call(procedure string) *Builder {
	return b.addClause(b.clause().Call(procedure), true)
}

func (b *Builder) CallFunc(fn cypher.ClauseFunc) *Builder {
	return b.addClause(b.clause().CallFunc(fn), true)
}

func (b *Builder) Union(kind string) *Builder {
	return b.addClause(b.clause().Union(kind), true)
}
