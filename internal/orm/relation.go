package orm

import (
	"context"
	"fmt"
	"maps"

	"golang.org/x/sync/errgroup"

	"github.com/zorxCorp/guaphy/internal/collection"
	"github.com/zorxCorp/guaphy/internal/cypher"
	"github.com/zorxCorp/guaphy/internal/errors"
	"github.com/zorxCorp/guaphy/internal/model"
	"github.com/zorxCorp/guaphy/internal/query"
	"github.com/zorxCorp/guaphy/internal/transform"
)

// attachConcurrency bounds the parallel statements issued by AttachMany.
const attachConcurrency = 4

// RelationHandle operates on the edges of one declared relation of a
// persisted parent entity.
type RelationHandle struct {
	repo     *Repository
	parent   *model.Entity
	relation model.Relation
	target   *model.Schema
	variable string
}

// Relation returns a handle for the named relation of e.
func (r *Repository) Relation(e *model.Entity, name string) (*RelationHandle, error) {
	if err := r.owns(e); err != nil {
		return nil, err
	}
	rel, target, err := r.registry.Resolve(e.Schema(), name)
	if err != nil {
		return nil, err
	}
	return &RelationHandle{
		repo:     r,
		parent:   e,
		relation: rel,
		target:   target,
		variable: r.registry.RelationVariable(e.Schema(), target),
	}, nil
}

// Variable returns the edge variable used in statements.
func (h *RelationHandle) Variable() string { return h.variable }

func (h *RelationHandle) direction() cypher.Direction {
	if h.relation.Reverse {
		return cypher.Incoming
	}
	return cypher.Outgoing
}

// link renders (parent) -[edge]- (target) with the relation's direction.
func (h *RelationHandle) link(parentLabel string, target *model.Entity, targetLabel string, props map[string]any) cypher.PatternFunc {
	return func(p *cypher.Pattern) *cypher.Pattern {
		return p.Node(h.parent.Variable(), parentLabel).
			Relationship(h.direction(), h.variable, h.relation.Type, props).
			Node(target.Variable(), targetLabel)
	}
}

func (h *RelationHandle) check(target *model.Entity) error {
	if target == nil || target.Schema() != h.target {
		got := "nil"
		if target != nil {
			got = target.Schema().Name
		}
		return errors.ValidationWrap(model.ErrWrongModel,
			fmt.Sprintf("relation %s expects %s, got %s", h.relation.Name, h.target.Name, got))
	}
	if !target.HasID() {
		return errors.ValidationErrorf("%s target has no identity", h.target.Name)
	}
	return nil
}

// ids returns the parent and target identities.
func (h *RelationHandle) ids(target *model.Entity) (any, any, error) {
	pid, err := h.repo.stored(h.parent)
	if err != nil {
		return nil, nil, err
	}
	tid, err := nodeID(target.ID())
	if err != nil {
		return nil, nil, err
	}
	return pid, tid, nil
}

// where renders the identity match for both endpoints.
func (h *RelationHandle) where(pid, tid any, target *model.Entity) query.BuilderFunc {
	return func(q *query.Builder) *query.Builder {
		return q.WhereID(cypher.Raw(h.parent.Variable()), pid).
			And(func(p *cypher.Predicate) *cypher.Predicate {
				return p.WhereID(cypher.Raw(target.Variable()), tid)
			})
	}
}

func (h *RelationHandle) raw() *query.Builder {
	return query.New(h.repo.runner, h.repo.registry, nil,
		query.WithLogger(h.repo.logger), query.WithClock(h.repo.now))
}

func (h *RelationHandle) stamps(props map[string]any, created bool) map[string]any {
	out := maps.Clone(props)
	if out == nil {
		out = make(map[string]any)
	}
	if h.parent.Schema().Timestamps {
		stamp := h.repo.timestamp()
		if created {
			out[model.CreatedAt] = stamp
		}
		out[model.UpdatedAt] = stamp
	}
	return out
}

// Attach creates an edge from the parent to target carrying props.
func (h *RelationHandle) Attach(ctx context.Context, target *model.Entity, props map[string]any) (model.Relationship, error) {
	if err := h.check(target); err != nil {
		return model.Relationship{}, err
	}
	pid, tid, err := h.ids(target)
	if err != nil {
		return model.Relationship{}, err
	}

	q := h.raw().Match(
		func(p *cypher.Pattern) *cypher.Pattern { return p.Node(h.parent.Variable(), h.parent.Label()) },
		func(p *cypher.Pattern) *cypher.Pattern { return p.Node(target.Variable(), target.Label()) },
	)
	q = h.where(pid, tid, target)(q).
		Create(h.link("", target, "", h.stamps(props, true))).
		Return(h.variable)
	return h.edge(ctx, q)
}

// AttachMany attaches every target, props[i] going to targets[i]. Results
// keep the order of targets.
func (h *RelationHandle) AttachMany(ctx context.Context, targets []*model.Entity, props []map[string]any) (*collection.Collection[model.Relationship], error) {
	for _, t := range targets {
		if err := h.check(t); err != nil {
			return nil, err
		}
	}

	edges := make([]model.Relationship, len(targets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(attachConcurrency)

	for i, t := range targets {
		var p map[string]any
		if i < len(props) {
			p = props[i]
		}
		g.Go(func() error {
			edge, err := h.Attach(ctx, t, p)
			if err != nil {
				return err
			}
			edges[i] = edge
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return collection.New(edges...), nil
}

// Update merges props into the edge between the parent and target.
func (h *RelationHandle) Update(ctx context.Context, target *model.Entity, props map[string]any) (model.Relationship, error) {
	if err := h.check(target); err != nil {
		return model.Relationship{}, err
	}
	pid, tid, err := h.ids(target)
	if err != nil {
		return model.Relationship{}, err
	}

	updates := make(map[string]any)
	for k, v := range h.stamps(props, false) {
		updates[h.variable+"."+k] = v
	}

	q := h.raw().Match(h.link(h.parent.Label(), target, target.Label(), nil))
	q = h.where(pid, tid, target)(q).
		SetMap(updates).
		Return(h.variable)
	return h.edge(ctx, q)
}

// Detach removes the edge between the parent and target.
func (h *RelationHandle) Detach(ctx context.Context, target *model.Entity) error {
	if err := h.check(target); err != nil {
		return err
	}
	pid, tid, err := h.ids(target)
	if err != nil {
		return err
	}

	// The edge pattern continues the parent's default MATCH.
	q := h.repo.builder(h.parent).
		Relationship(h.direction(), h.variable, h.relation.Type).
		Node(target.Variable(), target.Label())
	q = h.where(pid, tid, target)(q).ForceDelete(cypher.Raw(h.variable), false)

	_, err = q.Fetch(ctx)
	return err
}

// Load fetches the related targets with their edge properties. A to-one
// relation yields the single entity or nil; a to-many relation yields a
// collection.
func (h *RelationHandle) Load(ctx context.Context) (any, error) {
	pid, err := h.repo.stored(h.parent)
	if err != nil {
		return nil, err
	}

	target := h.repo.registry.Entity(h.target)
	result, err := h.repo.builder(target).
		Match(h.link(h.parent.Label(), target, target.Label(), nil)).
		WhereID(cypher.Raw(h.parent.Variable()), pid).
		Return(cypher.Raw(target.Variable()), cypher.Raw(h.variable+" as "+transform.RelationPropertyAlias)).
		Fetch(ctx)
	if err != nil {
		return nil, err
	}

	related := entities(result)
	if h.relation.Cardinality == model.ToOne {
		e, ok := related.First()
		if !ok {
			return nil, nil
		}
		return e, nil
	}
	return related, nil
}

func (h *RelationHandle) edge(ctx context.Context, q *query.Builder) (model.Relationship, error) {
	head, err := q.First(ctx)
	if err != nil {
		return model.Relationship{}, err
	}
	row, _ := head.(map[string]any)
	edge, ok := row[h.variable].(model.Relationship)
	if !ok {
		return model.Relationship{}, errors.InternalErrorf("relation %s returned no edge", h.relation.Name)
	}
	return edge, nil
}
