package cypher

import "strings"

// Direction is the arrow shape of a relationship fragment.
type Direction int

const (
	Undirected Direction = iota
	Incoming
	Outgoing
)

// arrows returns the left and right punctuation for d.
func (d Direction) arrows() (string, string) {
	switch d {
	case Incoming:
		return "<-", "-"
	case Outgoing:
		return "-", "->"
	default:
		return "-", "-"
	}
}

// String returns a readable name for the direction.
func (d Direction) String() string {
	switch d {
	case Incoming:
		return "incoming"
	case Outgoing:
		return "outgoing"
	default:
		return "undirected"
	}
}

// Pattern accumulates node and relationship fragments into a path.
type Pattern struct {
	owner Owner
	parts []string
}

// PatternFunc builds a pattern on the fresh composer it is given.
type PatternFunc func(p *Pattern) *Pattern

// NewPattern returns an empty pattern composer scoped to owner (may be nil).
func NewPattern(owner Owner) *Pattern {
	return &Pattern{owner: owner}
}

// Node appends (variable:label { props }). Any part may be empty.
func (p *Pattern) Node(variable, label string, props ...map[string]any) *Pattern {
	p.parts = append(p.parts, "("+fragment(variable, label, props)+")")
	return p
}

// Relation appends an undirected relationship -[variable:TYPE { props }]-.
func (p *Pattern) Relation(variable, typ string, props ...map[string]any) *Pattern {
	return p.Relationship(Undirected, variable, typ, props...)
}

// RelationIn appends an incoming relationship <-[...]-.
func (p *Pattern) RelationIn(variable, typ string, props ...map[string]any) *Pattern {
	return p.Relationship(Incoming, variable, typ, props...)
}

// RelationOut appends an outgoing relationship -[...]->.
func (p *Pattern) RelationOut(variable, typ string, props ...map[string]any) *Pattern {
	return p.Relationship(Outgoing, variable, typ, props...)
}

// Relationship appends a relationship in direction d.
func (p *Pattern) Relationship(d Direction, variable, typ string, props ...map[string]any) *Pattern {
	p.parts = append(p.parts, relationship(d, fragment(variable, typ, props)))
	return p
}

// RelationFunc appends a relationship whose bracket body is built by fn on a
// nested composer; each Relate call becomes one |-separated alternative.
func (p *Pattern) RelationFunc(d Direction, fn PatternFunc) *Pattern {
	body := ""
	if fn != nil {
		body = fn(NewPattern(p.owner)).join("|")
	}
	p.parts = append(p.parts, relationship(d, body))
	return p
}

// Relate appends a bare relationship body variable:TYPE { props }, used
// inside RelationFunc.
func (p *Pattern) Relate(variable, typ string, props ...map[string]any) *Pattern {
	p.parts = append(p.parts, fragment(variable, typ, props))
	return p
}

// Raw appends text verbatim.
func (p *Pattern) Raw(text string) *Pattern {
	p.parts = append(p.parts, text)
	return p
}

// Len reports how many fragments have been appended.
func (p *Pattern) Len() int {
	return len(p.parts)
}

// String renders the fragments separated by single spaces.
func (p *Pattern) String() string {
	return p.join(" ")
}

func (p *Pattern) join(sep string) string {
	return strings.Join(p.parts, sep)
}

// RenderPattern runs fn on a fresh composer scoped to owner and renders it.
func RenderPattern(owner Owner, fn PatternFunc) string {
	if fn == nil {
		return ""
	}
	return fn(NewPattern(owner)).String()
}

func fragment(variable, label string, props []map[string]any) string {
	var sb strings.Builder
	sb.WriteString(variable)
	if label != "" {
		sb.WriteString(":")
		sb.WriteString(label)
	}
	if m := mergeProps(props); len(m) > 0 {
		sb.WriteString(" ")
		sb.WriteString(encodeMap(m))
	}
	return sb.String()
}

func mergeProps(props []map[string]any) map[string]any {
	switch len(props) {
	case 0:
		return nil
	case 1:
		return props[0]
	}
	m := make(map[string]any)
	for _, p := range props {
		for k, v := range p {
			m[k] = v
		}
	}
	return m
}

func relationship(d Direction, body string) string {
	l, r := d.arrows()
	if body == "" {
		return l + r
	}
	return l + "[" + body + "]" + r
}
