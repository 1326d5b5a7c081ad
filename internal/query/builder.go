// Package query orchestrates composed Cypher fragments into one executable
// statement. A Builder is bound to at most one entity, injects the default
// MATCH and the soft-delete filter for it, tracks whether the statement
// writes, expands eager relation loads, and hands the final text to a
// graph.Runner.
//
// A Builder is single-use per statement: after Fetch, First or Count it
// resets to empty and may be reused sequentially, never concurrently.
package query

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/zorxCorp/guaphy/internal/collection"
	"github.com/zorxCorp/guaphy/internal/cypher"
	"github.com/zorxCorp/guaphy/internal/errors"
	"github.com/zorxCorp/guaphy/internal/graph"
	"github.com/zorxCorp/guaphy/internal/logging"
	"github.com/zorxCorp/guaphy/internal/model"
	"github.com/zorxCorp/guaphy/internal/transform"
)

// BuilderFunc builds on an isolated sub-builder and returns it.
type BuilderFunc func(b *Builder) *Builder

// Builder accumulates statements for a single query.
type Builder struct {
	runner   graph.Runner
	registry *model.Registry
	entity   *model.Entity
	logger   *slog.Logger
	now      func() time.Time

	statements       []string
	writingCondition bool
	freezeAutoMatch  bool
	withTrashed      bool
	mode             graph.Mode

	// aliases carried forward by eager-load steps
	requestedRelations []string
	additionalReturns  []string
	eager              []transform.Eager

	err error
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for execution logs.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithClock overrides the clock used for soft-delete timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// New returns an empty builder. entity may be nil for ad-hoc queries; the
// registry is needed only for eager relation loads.
func New(runner graph.Runner, registry *model.Registry, entity *model.Entity, opts ...Option) *Builder {
	b := &Builder{
		runner:   runner,
		registry: registry,
		entity:   entity,
		logger:   logging.Component("query"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// sub returns an isolated builder sharing this builder's collaborators.
func (b *Builder) sub(entity *model.Entity) *Builder {
	return &Builder{
		runner:   b.runner,
		registry: b.registry,
		entity:   entity,
		logger:   b.logger,
		now:      b.now,
	}
}

// Entity returns the bound entity, or nil.
func (b *Builder) Entity() *model.Entity { return b.entity }

// Mode reports whether the accumulated statement reads or writes.
func (b *Builder) Mode() graph.Mode { return b.mode }

// Err returns the first error recorded by a fluent call.
func (b *Builder) Err() error { return b.err }

// WithTrashed disables the soft-delete filter for this statement.
func (b *Builder) WithTrashed() *Builder {
	b.withTrashed = true
	return b
}

// IsWithTrashed reports whether soft-deleted rows are included.
func (b *Builder) IsWithTrashed() bool { return b.withTrashed }

// owner returns the bound entity as a composer owner. A nil entity must stay
// an untyped nil so the encoder leaves fields unqualified.
func (b *Builder) owner() cypher.Owner {
	if b.entity == nil {
		return nil
	}
	return b.entity
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *Builder) write() {
	b.mode = graph.Write
}

// prepareMatch unshifts MATCH (var:Label) unless a MATCH already leads.
func (b *Builder) prepareMatch() {
	if b.entity == nil {
		return
	}
	if len(b.statements) > 0 && strings.HasPrefix(b.statements[0], "MATCH") {
		return
	}
	match := cypher.NewClause(nil).Match(func(p *cypher.Pattern) *cypher.Pattern {
		return p.Node(b.entity.Variable(), b.entity.Label())
	})
	b.statements = slices.Insert(b.statements, 0, match.String())
}

func (b *Builder) addCondition(p *cypher.Predicate) *Builder {
	if !b.writingCondition {
		if b.entity != nil && !b.freezeAutoMatch {
			b.prepareMatch()
		}
		b.statements = append(b.statements, "WHERE")
		b.writingCondition = true
	}
	b.statements = append(b.statements, p.String())
	return b
}

func (b *Builder) addClause(c *cypher.Clause, autoMatch bool) *Builder {
	if !autoMatch {
		b.freezeAutoMatch = true
	} else if !b.freezeAutoMatch && b.entity != nil {
		b.prepareMatch()
		b.freezeAutoMatch = true
	}
	b.writingCondition = false
	b.statements = append(b.statements, c.String())
	return b
}

func (b *Builder) addPattern(p *cypher.Pattern) *Builder {
	if !b.freezeAutoMatch && b.entity != nil {
		b.prepareMatch()
		b.freezeAutoMatch = true
	}
	b.writingCondition = false
	b.statements = append(b.statements, p.String())
	return b
}

func (b *Builder) predicate() *cypher.Predicate { return cypher.NewPredicate(b.owner()) }
func (b *Builder) clause() *cypher.Clause       { return cypher.NewClause(b.owner()) }
func (b *Builder) pattern() *cypher.Pattern     { return cypher.NewPattern(b.owner()) }

// Cypher appends text verbatim. Raw statements are assumed to write and
// never trigger the default MATCH.
func (b *Builder) Cypher(text string) *Builder {
	b.write()
	return b.addClause(b.clause().Raw(text), false)
}

// Group appends the statements of a sub-builder bound to the same entity.
// They are appended unfinalized so the soft-delete filter is injected once,
// by this builder.
func (b *Builder) Group(fn BuilderFunc) *Builder {
	if fn == nil {
		return b
	}
	sub := fn(b.sub(b.entity))
	if sub == nil {
		return b
	}
	if sub.err != nil {
		return b.fail(sub.err)
	}
	if sub.mode == graph.Write {
		b.write()
	}
	b.statements = append(b.statements, sub.statements...)
	b.writingCondition = false
	return b
}

// ToCypher returns the finalized statement text without executing it.
func (b *Builder) ToCypher() string {
	return strings.Join(b.finalize(), " ")
}

// String implements fmt.Stringer.
func (b *Builder) String() string { return b.ToCypher() }

// Fetch executes the statement and transforms the records. The builder is
// reset whether execution succeeds or fails.
func (b *Builder) Fetch(ctx context.Context) (*collection.Collection[any], error) {
	defer b.reset()

	if b.err != nil {
		return nil, b.err
	}
	if b.runner == nil {
		return nil, errors.ConfigError("query builder has no runner")
	}

	text := b.ToCypher()
	mode := b.mode
	tr := transform.New(b.entity, b.namer(), b.eager...)

	b.logger.Debug("executing statement", "mode", mode.String(), "query", text)

	records, err := b.runner.Execute(ctx, text, mode)
	if err != nil {
		b.logger.Error("statement failed", "mode", mode.String(), "error", err)
		return nil, errors.DatabaseError(err, "statement execution failed")
	}
	return tr.Records(records), nil
}

// First caps the result at one row and returns it, or nil when empty.
func (b *Builder) First(ctx context.Context) (any, error) {
	b.Limit(1)
	result, err := b.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	head, _ := result.First()
	return head, nil
}

// Count returns count(field). An omitted field counts rows.
func (b *Builder) Count(ctx context.Context, field ...string) (int64, error) {
	target := "*"
	if len(field) > 0 && field[0] != "" {
		target = field[0]
	}
	alias := countAlias()

	b.Return(cypher.Raw("count(" + target + ") as " + alias))
	head, err := b.First(ctx)
	if err != nil {
		return 0, err
	}
	if row, ok := head.(map[string]any); ok {
		head = row[alias]
	}
	return toInt64(head)
}

func (b *Builder) namer() model.Namer {
	if b.registry == nil {
		return nil
	}
	return b.registry.Namer()
}

func (b *Builder) reset() {
	b.statements = nil
	b.writingCondition = false
	b.freezeAutoMatch = false
	b.withTrashed = false
	b.mode = graph.Read
	b.requestedRelations = nil
	b.additionalReturns = nil
	b.eager = nil
	b.err = nil
}
