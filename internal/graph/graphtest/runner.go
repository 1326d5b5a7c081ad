// Package graphtest provides an in-memory graph.Runner that replays scripted
// records and captures every executed statement.
package graphtest

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/zorxCorp/guaphy/internal/graph"
)

// Call is one captured execution.
type Call struct {
	Text string
	Mode graph.Mode
}

type response struct {
	records []*neo4j.Record
	err     error
}

// Runner replays queued responses in order. When the queue is empty it
// calls the handler if one is set, otherwise it returns no records.
type Runner struct {
	mu        sync.Mutex
	calls     []Call
	responses []response
	handler   func(text string, mode graph.Mode) ([]*neo4j.Record, error)
}

var _ graph.Runner = (*Runner)(nil)

// New returns an empty runner.
func New() *Runner {
	return &Runner{}
}

// Push queues one response holding records.
func (r *Runner) Push(records ...*neo4j.Record) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, response{records: records})
	return r
}

// PushError queues one failing response.
func (r *Runner) PushError(err error) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, response{err: err})
	return r
}

// Handle answers executions once the queue is drained.
func (r *Runner) Handle(fn func(text string, mode graph.Mode) ([]*neo4j.Record, error)) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handler = fn
	return r
}

// Execute records the call and returns the next scripted response.
func (r *Runner) Execute(ctx context.Context, text string, mode graph.Mode) ([]*neo4j.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.calls = append(r.calls, Call{Text: text, Mode: mode})
	if len(r.responses) > 0 {
		next := r.responses[0]
		r.responses = r.responses[1:]
		r.mu.Unlock()
		return next.records, next.err
	}
	handler := r.handler
	r.mu.Unlock()

	if handler != nil {
		return handler(text, mode)
	}
	return nil, nil
}

// Calls returns a copy of every captured execution.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Texts returns the captured statement texts.
func (r *Runner) Texts() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Text
	}
	return out
}

// Last returns the most recent execution, or the zero Call.
func (r *Runner) Last() Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Call{}
	}
	return r.calls[len(r.calls)-1]
}

// Record builds a record from alternating key/value pairs.
func Record(pairs ...any) *neo4j.Record {
	rec := &neo4j.Record{}
	for i := 0; i+1 < len(pairs); i += 2 {
		rec.Keys = append(rec.Keys, pairs[i].(string))
		rec.Values = append(rec.Values, pairs[i+1])
	}
	return rec
}

// Node builds a raw node value.
func Node(id int64, labels []string, props map[string]any) dbtype.Node {
	if props == nil {
		props = map[string]any{}
	}
	return dbtype.Node{Id: id, Labels: labels, Props: props}
}

// Relationship builds a raw relationship value.
func Relationship(id, start, end int64, typ string, props map[string]any) dbtype.Relationship {
	if props == nil {
		props = map[string]any{}
	}
	return dbtype.Relationship{Id: id, StartId: start, EndId: end, Type: typ, Props: props}
}
