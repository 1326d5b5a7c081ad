package cypher

import (
	"strconv"
	"strings"
)

// Predicate accumulates boolean condition fragments. Fragments are joined
// left to right with single spaces; precedence is whatever the caller groups
// through nested PredicateFunc callbacks.
type Predicate struct {
	owner Owner
	parts []string
}

// PredicateFunc builds a nested condition on the fresh composer it is given.
// The result renders parenthesized in the parent.
type PredicateFunc func(p *Predicate) *Predicate

// NewPredicate returns an empty predicate composer scoped to owner (may be nil).
func NewPredicate(owner Owner) *Predicate {
	return &Predicate{owner: owner}
}

// Where starts a comparison. field is either a field name or a PredicateFunc.
//
//	Where("age", 18)       // v.age = 18
//	Where("age", ">", 18)  // v.age > 18
//	Where(func(p) ...)     // (...)
func (p *Predicate) Where(field any, args ...any) *Predicate {
	return p.push("", field, args)
}

// WhereNot is Where prefixed with NOT.
func (p *Predicate) WhereNot(field any, args ...any) *Predicate {
	return p.push("NOT ", field, args)
}

// And is Where prefixed with AND.
func (p *Predicate) And(field any, args ...any) *Predicate {
	return p.push("AND ", field, args)
}

// AndNot is Where prefixed with AND NOT.
func (p *Predicate) AndNot(field any, args ...any) *Predicate {
	return p.push("AND NOT ", field, args)
}

// Or is Where prefixed with OR.
func (p *Predicate) Or(field any, args ...any) *Predicate {
	return p.push("OR ", field, args)
}

// OrNot is Where prefixed with OR NOT.
func (p *Predicate) OrNot(field any, args ...any) *Predicate {
	return p.push("OR NOT ", field, args)
}

// Xor is Where prefixed with XOR.
func (p *Predicate) Xor(field any, args ...any) *Predicate {
	return p.push("XOR ", field, args)
}

// XorNot is Where prefixed with XOR NOT.
func (p *Predicate) XorNot(field any, args ...any) *Predicate {
	return p.push("XOR NOT ", field, args)
}

// WhereRaw appends condition text verbatim.
func (p *Predicate) WhereRaw(text string) *Predicate {
	p.parts = append(p.parts, text)
	return p
}

// WhereBetween renders lo <= field <= hi. Optional ops override the left
// and right operators in that order.
func (p *Predicate) WhereBetween(field string, lo, hi any, ops ...string) *Predicate {
	left, right := "<=", "<="
	if len(ops) > 0 && ops[0] != "" {
		left = ops[0]
	}
	if len(ops) > 1 && ops[1] != "" {
		right = ops[1]
	}

	p.parts = append(p.parts, EncodeValue(lo)+" "+left+" "+p.field(field)+" "+right+" "+EncodeValue(hi))
	return p
}

// WhereExists renders exists(field).
func (p *Predicate) WhereExists(field string) *Predicate {
	p.parts = append(p.parts, "exists("+p.field(field)+")")
	return p
}

// WhereID renders id(field) = id. An empty field targets the owner.
func (p *Predicate) WhereID(field string, id any) *Predicate {
	p.parts = append(p.parts, "id("+p.field(field)+") = "+idLiteral(id))
	return p
}

// WhereIDIn renders id(field) IN [ids].
func (p *Predicate) WhereIDIn(field string, ids ...any) *Predicate {
	lits := make([]string, len(ids))
	for i, id := range ids {
		lits[i] = idLiteral(id)
	}
	p.parts = append(p.parts, "id("+p.field(field)+") IN ["+strings.Join(lits, ",")+"]")
	return p
}

// WhereContains renders field CONTAINS value.
func (p *Predicate) WhereContains(field string, value any) *Predicate {
	return p.binary(field, "CONTAINS", value)
}

// WhereStartsWith renders field STARTS WITH value.
func (p *Predicate) WhereStartsWith(field string, value any) *Predicate {
	return p.binary(field, "STARTS WITH", value)
}

// WhereEndsWith renders field ENDS WITH value.
func (p *Predicate) WhereEndsWith(field string, value any) *Predicate {
	return p.binary(field, "ENDS WITH", value)
}

// WhereRegex renders field =~ expression.
func (p *Predicate) WhereRegex(field string, expression any) *Predicate {
	return p.binary(field, "=~", expression)
}

// WhereIn renders field IN list.
func (p *Predicate) WhereIn(field string, list any) *Predicate {
	return p.binary(field, "IN", list)
}

// WhereLabel renders field:Label.
func (p *Predicate) WhereLabel(field, label string) *Predicate {
	p.parts = append(p.parts, p.field(field)+":"+label)
	return p
}

// Len reports how many fragments have been appended.
func (p *Predicate) Len() int {
	return len(p.parts)
}

// String renders the condition.
func (p *Predicate) String() string {
	return strings.Join(p.parts, " ")
}

// RenderPredicate runs fn on a fresh composer scoped to owner and renders it.
func RenderPredicate(owner Owner, fn PredicateFunc) string {
	if fn == nil {
		return ""
	}
	return fn(NewPredicate(owner)).String()
}

func (p *Predicate) push(prefix string, field any, args []any) *Predicate {
	p.parts = append(p.parts, p.compare(prefix, field, args))
	return p
}

func (p *Predicate) compare(prefix string, field any, args []any) string {
	switch f := field.(type) {
	case PredicateFunc:
		return prefix + "(" + RenderPredicate(p.owner, f) + ")"
	case func(*Predicate) *Predicate:
		return prefix + "(" + RenderPredicate(p.owner, f) + ")"
	}

	name := p.field(stringify(field))
	switch len(args) {
	case 0:
		return prefix + name
	case 1:
		return prefix + name + " = " + EncodeValue(args[0])
	default:
		return prefix + name + " " + stringify(args[0]) + " " + EncodeValue(args[1])
	}
}

func (p *Predicate) binary(field, op string, value any) *Predicate {
	p.parts = append(p.parts, p.field(field)+" "+op+" "+EncodeValue(value))
	return p
}

func (p *Predicate) field(name string) string {
	return EncodeField(name, p.owner)
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return strings.Trim(EncodeValue(v), "'")
}

// idLiteral renders node identities bare; numeric strings are not quoted.
func idLiteral(id any) string {
	if s, ok := id.(string); ok {
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			return s
		}
	}
	return EncodeValue(id)
}
