package model

import (
	"strconv"
	"strings"
	"sync/atomic"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Namer generates query variables. Every call must return a name that is
// unique for the lifetime of the namer.
type Namer interface {
	Variable(base string) string
}

// CounterNamer appends a monotonically increasing suffix to the lower-cased
// base name: person1, movie2, person_movie3.
type CounterNamer struct {
	next atomic.Uint64
}

// NewCounterNamer returns a namer whose first suffix is 1.
func NewCounterNamer() *CounterNamer {
	return &CounterNamer{}
}

// Variable returns the next unique variable for base.
func (n *CounterNamer) Variable(base string) string {
	return sanitize(lower(base)) + strconv.FormatUint(n.next.Add(1), 10)
}

// lower builds a Caser per call; Casers carry state and must not be shared.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// sanitize keeps identifier characters so the result is a valid variable.
func sanitize(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "v"
	}
	out := sb.String()
	if unicode.IsDigit(rune(out[0])) {
		return "v" + out
	}
	return out
}

// RelationVariable names the edge variable between two schemas.
func RelationVariable(n Namer, from, to string) string {
	return n.Variable(sanitize(lower(from)) + "_" + sanitize(lower(to)))
}
