// Package graph is the execution channel: it sends finalized Cypher text to
// Neo4j and hands back the raw records.
package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Mode tells the channel whether a statement only reads or also writes.
type Mode int

const (
	// Read statements route to followers/read replicas.
	Read Mode = iota
	// Write statements route to the leader.
	Write
)

func (m Mode) String() string {
	if m == Write {
		return "write"
	}
	return "read"
}

// Runner executes one statement and returns its records. Failures surface as
// a single error; there is no partial-result contract.
type Runner interface {
	Execute(ctx context.Context, text string, mode Mode) ([]*neo4j.Record, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, text string, mode Mode) ([]*neo4j.Record, error)

// Execute calls f.
func (f RunnerFunc) Execute(ctx context.Context, text string, mode Mode) ([]*neo4j.Record, error) {
	return f(ctx, text, mode)
}
