package cypher

import (
	"sort"
	"strconv"
	"strings"
)

// Sort directions for OrderBy.
const (
	Asc  = "ASC"
	Desc = "DESC"
)

// Order is a single ORDER BY item with its own direction.
type Order struct {
	Field     string
	Direction string
}

// Clause accumulates keyword blocks (MATCH, WITH, RETURN, SET, ...).
type Clause struct {
	owner Owner
	parts []string
}

// ClauseFunc builds a nested block on the fresh composer it is given.
type ClauseFunc func(c *Clause) *Clause

// NewClause returns an empty clause composer scoped to owner (may be nil).
func NewClause(owner Owner) *Clause {
	return &Clause{owner: owner}
}

// Limit renders LIMIT n.
func (c *Clause) Limit(n int) *Clause {
	return c.push("LIMIT " + strconv.Itoa(n))
}

// Skip renders SKIP v; v may be a number or an expression.
func (c *Clause) Skip(v any) *Clause {
	return c.push("SKIP " + stringify(v))
}

// OrderBy renders ORDER BY f1 dir,f2 dir. An empty direction is omitted.
func (c *Clause) OrderBy(fields []string, direction string) *Clause {
	orders := make([]Order, len(fields))
	for i, f := range fields {
		orders[i] = Order{Field: f, Direction: direction}
	}
	return c.OrderByFields(orders...)
}

// OrderByFields renders ORDER BY with a direction per field.
func (c *Clause) OrderByFields(orders ...Order) *Clause {
	items := make([]string, len(orders))
	for i, o := range orders {
		items[i] = c.field(o.Field)
		if o.Direction != "" {
			items[i] += " " + o.Direction
		}
	}
	return c.push("ORDER BY " + strings.Join(items, ","))
}

// Return renders RETURN a,b. With no fields it returns the owner variable.
func (c *Clause) Return(fields ...string) *Clause {
	if len(fields) == 0 {
		fields = []string{""}
	}
	return c.push("RETURN " + c.fields(fields))
}

// With renders WITH a,b.
func (c *Clause) With(fields ...string) *Clause {
	return c.push("WITH " + c.fields(fields))
}

// As renders AS field.
func (c *Clause) As(field string) *Clause {
	return c.push("AS " + c.field(field))
}

// Match renders MATCH p1, p2. No patterns renders a bare MATCH.
func (c *Clause) Match(patterns ...PatternFunc) *Clause {
	return c.push("MATCH" + c.patterns(patterns))
}

// OptionalMatch renders OPTIONAL MATCH p1, p2.
func (c *Clause) OptionalMatch(patterns ...PatternFunc) *Clause {
	return c.push("OPTIONAL MATCH" + c.patterns(patterns))
}

// Create renders CREATE p1, p2.
func (c *Clause) Create(patterns ...PatternFunc) *Clause {
	return c.push("CREATE" + c.patterns(patterns))
}

// Merge renders MERGE p.
func (c *Clause) Merge(pattern PatternFunc) *Clause {
	return c.push("MERGE" + c.patterns([]PatternFunc{pattern}))
}

// Unwind renders UNWIND list AS alias. A string list is an expression and is
// emitted verbatim, so "$events" stays a query parameter reference.
func (c *Clause) Unwind(list any, alias string) *Clause {
	operand, ok := list.(string)
	if !ok {
		operand = EncodeValue(list)
	}
	return c.push("UNWIND " + operand + " AS " + alias)
}

// Delete renders DELETE field or DETACH DELETE field.
func (c *Clause) Delete(field string, detach bool) *Clause {
	q := "DELETE " + c.field(field)
	if detach {
		q = "DETACH " + q
	}
	return c.push(q)
}

// Restore clears the soft-delete marker: SET field.deleted_at = null.
func (c *Clause) Restore(field string) *Clause {
	return c.push("SET " + c.field(field) + ".deleted_at = null")
}

// Set renders SET field = value.
func (c *Clause) Set(field string, value any) *Clause {
	return c.push("SET " + c.field(field) + " = " + EncodeValue(value))
}

// SetMap renders SET f1 = v1,f2 = v2 with keys sorted.
func (c *Clause) SetMap(values map[string]any) *Clause {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]string, len(keys))
	for i, k := range keys {
		items[i] = c.field(k) + " = " + EncodeValue(values[k])
	}
	return c.push("SET " + strings.Join(items, ","))
}

// Remove renders REMOVE field.
func (c *Clause) Remove(field string) *Clause {
	return c.push("REMOVE " + c.field(field))
}

// Call renders CALL procedure.
func (c *Clause) Call(procedure string) *Clause {
	return c.push("CALL " + procedure)
}

// CallFunc renders a subquery CALL { ... }.
func (c *Clause) CallFunc(fn ClauseFunc) *Clause {
	return c.push("CALL { " + RenderClause(c.owner, fn) + " }")
}

// Union renders UNION, or UNION kind (e.g. ALL).
func (c *Clause) Union(kind string) *Clause {
	if kind != "" {
		return c.push("UNION " + kind)
	}
	return c.push("UNION")
}

// OnMatch renders ON MATCH.
func (c *Clause) OnMatch() *Clause {
	return c.push("ON MATCH")
}

// OnCreate renders ON CREATE.
func (c *Clause) OnCreate() *Clause {
	return c.push("ON CREATE")
}

// Raw appends text verbatim.
func (c *Clause) Raw(text string) *Clause {
	return c.push(text)
}

// Len reports how many blocks have been appended.
func (c *Clause) Len() int {
	return len(c.parts)
}

// String renders the blocks separated by single spaces.
func (c *Clause) String() string {
	return strings.Join(c.parts, " ")
}

// RenderClause runs fn on a fresh composer scoped to owner and renders it.
func RenderClause(owner Owner, fn ClauseFunc) string {
	if fn == nil {
		return ""
	}
	return fn(NewClause(owner)).String()
}

func (c *Clause) push(block string) *Clause {
	c.parts = append(c.parts, block)
	return c
}

func (c *Clause) field(name string) string {
	return EncodeField(name, c.owner)
}

func (c *Clause) fields(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = c.field(n)
	}
	return strings.Join(out, ",")
}

func (c *Clause) patterns(fns []PatternFunc) string {
	rendered := make([]string, 0, len(fns))
	for _, fn := range fns {
		if s := RenderPattern(c.owner, fn); s != "" {
			rendered = append(rendered, s)
		}
	}
	if len(rendered) == 0 {
		return ""
	}
	return " " + strings.Join(rendered, ", ")
}
