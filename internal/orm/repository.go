// Package orm provides active-record style operations for one schema on top
// of query.Builder: lookups, bulk writes, instance persistence and relation
// handles.
package orm

import (
	"context"
	"log/slog"
	"maps"
	"reflect"
	"strconv"
	"time"

	"github.com/zorxCorp/guaphy/internal/collection"
	"github.com/zorxCorp/guaphy/internal/cypher"
	"github.com/zorxCorp/guaphy/internal/errors"
	"github.com/zorxCorp/guaphy/internal/graph"
	"github.com/zorxCorp/guaphy/internal/logging"
	"github.com/zorxCorp/guaphy/internal/model"
	"github.com/zorxCorp/guaphy/internal/query"
)

// Repository runs operations for the nodes of a single schema.
type Repository struct {
	runner   graph.Runner
	registry *model.Registry
	schema   *model.Schema
	logger   *slog.Logger
	now      func() time.Time
	batch    int
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger passed to every builder.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock overrides the clock used for timestamps and soft deletes.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// WithBatchSize bounds the rows CreateMany sends per statement. A size
// below one sends everything at once.
func WithBatchSize(n int) Option {
	return func(r *Repository) {
		r.batch = n
	}
}

// NewRepository returns a repository for the registered schema name.
func NewRepository(runner graph.Runner, registry *model.Registry, name string, opts ...Option) (*Repository, error) {
	if registry == nil {
		return nil, errors.ConfigError("repository needs a schema registry")
	}
	schema, err := registry.Schema(name)
	if err != nil {
		return nil, err
	}

	r := &Repository{
		runner:   runner,
		registry: registry,
		schema:   schema,
		logger:   logging.Component("orm"),
		now:      time.Now,
		batch:    graph.DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Schema returns the repository's schema.
func (r *Repository) Schema() *model.Schema { return r.schema }

// New returns an unsaved entity with a fresh variable.
func (r *Repository) New() *model.Entity {
	return r.registry.Entity(r.schema)
}

// Query returns a builder bound to a fresh entity of the schema.
func (r *Repository) Query() *query.Builder {
	return r.builder(r.New())
}

func (r *Repository) builder(e *model.Entity) *query.Builder {
	return query.New(r.runner, r.registry, e, query.WithLogger(r.logger), query.WithClock(r.now))
}

// Find returns the node with identity id, or nil when there is none.
func (r *Repository) Find(ctx context.Context, id any) (*model.Entity, error) {
	nid, err := nodeID(id)
	if err != nil {
		return nil, err
	}
	head, err := r.Query().WhereID("", nid).Return().First(ctx)
	if err != nil {
		return nil, err
	}
	e, _ := head.(*model.Entity)
	return e, nil
}

// FindOrFail is Find returning a *NotFoundError instead of nil.
func (r *Repository) FindOrFail(ctx context.Context, id any) (*model.Entity, error) {
	e, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, &NotFoundError{Schema: r.schema.Name, ID: stringID(id)}
	}
	return e, nil
}

// All returns every node of the schema.
func (r *Repository) All(ctx context.Context) (*collection.Collection[*model.Entity], error) {
	result, err := r.Query().Return().Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return entities(result), nil
}

// First returns one node, or nil.
func (r *Repository) First(ctx context.Context) (*model.Entity, error) {
	return first(r.Query().Return().First(ctx))
}

// Last returns the node with the highest identity, or nil.
func (r *Repository) Last(ctx context.Context) (*model.Entity, error) {
	q := r.Query()
	return first(q.Return().OrderBy([]string{cypher.Raw("id(" + q.Entity().Variable() + ")")}, cypher.Desc).First(ctx))
}

// Count returns the number of nodes of the schema.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	q := r.Query()
	return q.Count(ctx, q.Entity().Variable())
}

// Create stores a node with data and returns it.
func (r *Repository) Create(ctx context.Context, data map[string]any) (*model.Entity, error) {
	return r.create(ctx, r.New(), data)
}

func (r *Repository) create(ctx context.Context, e *model.Entity, data map[string]any) (*model.Entity, error) {
	props := maps.Clone(data)
	if props == nil {
		props = make(map[string]any)
	}
	if r.schema.Timestamps {
		stamp := r.timestamp()
		props[model.CreatedAt] = stamp
		props[model.UpdatedAt] = stamp
	}

	created, err := first(r.builder(e).
		Create(func(p *cypher.Pattern) *cypher.Pattern {
			return p.Node(e.Variable(), e.Label(), props)
		}).
		WithTrashed().
		Return().
		First(ctx))
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, errors.InternalErrorf("create %s returned no node", r.schema.Name)
	}
	created.MarkPersisted()
	return created, nil
}

// CreateMany stores one node per element of data, which must be a slice or
// array of property maps. Large payloads are split into several UNWIND
// statements; the returned entities keep the order of data.
func (r *Repository) CreateMany(ctx context.Context, data any) (*collection.Collection[*model.Entity], error) {
	rv := reflect.ValueOf(data)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, errors.ConfigErrorf("create many needs a slice, got %T", data)
	}

	rows := make([]any, rv.Len())
	for i := range rows {
		rows[i] = rv.Index(i).Interface()
	}

	created := collection.New[*model.Entity]()
	for start, end := range graph.Batches(len(rows), r.batch) {
		q := r.Query()
		v := q.Entity().Variable()
		result, err := q.WithTrashed().
			Unwind(rows[start:end], "map").
			Create(func(p *cypher.Pattern) *cypher.Pattern {
				return p.Node(v, r.schema.Label())
			}).
			Set(v, cypher.Raw("map")).
			Return().
			Fetch(ctx)
		if err != nil {
			return nil, err
		}
		created.Append(entities(result).Items()...)
	}
	return created, nil
}

// UpdateAll merges data into every node of the schema.
func (r *Repository) UpdateAll(ctx context.Context, data map[string]any) (*collection.Collection[*model.Entity], error) {
	result, err := r.Query().SetMap(r.updates(data)).Return().Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return entities(result), nil
}

// Destroy deletes the nodes with the given identities.
func (r *Repository) Destroy(ctx context.Context, detach bool, ids ...any) error {
	if len(ids) == 0 {
		return errors.ValidationError("destroy needs at least one id")
	}
	nids := make([]any, len(ids))
	for i, id := range ids {
		nid, err := nodeID(id)
		if err != nil {
			return err
		}
		nids[i] = nid
	}

	q := r.Query()
	if len(nids) == 1 {
		q.WhereID("", nids[0])
	} else {
		q.WhereIDIn("", nids...)
	}
	_, err := q.Delete("", detach).Fetch(ctx)
	return err
}

// Truncate deletes every node of the schema. Soft-deleting schemas only
// stamp deleted_at.
func (r *Repository) Truncate(ctx context.Context, detach bool) error {
	_, err := r.Query().Delete("", detach).Fetch(ctx)
	return err
}

// ForceTruncate removes every node of the schema, trashed ones included.
func (r *Repository) ForceTruncate(ctx context.Context, detach bool) error {
	_, err := r.Query().WithTrashed().ForceDelete("", detach).Fetch(ctx)
	return err
}

// Save creates e when it has no identity, otherwise updates it with its
// current properties.
func (r *Repository) Save(ctx context.Context, e *model.Entity) (*model.Entity, error) {
	if err := r.owns(e); err != nil {
		return nil, err
	}
	if e.IsDeleted() {
		return nil, errors.ValidationWrap(model.ErrDeletedEntity, "cannot save a deleted entity")
	}
	if e.HasID() {
		return r.Update(ctx, e, e.Properties())
	}

	created, err := r.create(ctx, e, e.Properties())
	if err != nil {
		return nil, err
	}
	e.SetID(created.ID())
	e.MarkPersisted()
	return created, nil
}

// Update merges data into the stored node of e.
func (r *Repository) Update(ctx context.Context, e *model.Entity, data map[string]any) (*model.Entity, error) {
	nid, err := r.stored(e)
	if err != nil {
		return nil, err
	}

	updated, err := first(r.builder(e).WhereID("", nid).SetMap(r.updates(data)).Return().First(ctx))
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, &NotFoundError{Schema: r.schema.Name, ID: e.ID()}
	}
	updated.MarkPersisted()
	return updated, nil
}

// Delete deletes the stored node of e and freezes e.
func (r *Repository) Delete(ctx context.Context, e *model.Entity, detach bool) error {
	return r.remove(ctx, e, detach, false)
}

// ForceDelete removes the stored node of e even when the schema soft-deletes.
func (r *Repository) ForceDelete(ctx context.Context, e *model.Entity, detach bool) error {
	return r.remove(ctx, e, detach, true)
}

func (r *Repository) remove(ctx context.Context, e *model.Entity, detach, force bool) error {
	nid, err := r.stored(e)
	if err != nil {
		return err
	}
	q := r.builder(e).WhereID("", nid)
	if force {
		q.WithTrashed().ForceDelete("", detach)
	} else {
		q.Delete("", detach)
	}
	if _, err := q.Fetch(ctx); err != nil {
		return err
	}
	e.MarkDeleted()
	return nil
}

// Restore clears deleted_at on the stored node of e.
func (r *Repository) Restore(ctx context.Context, e *model.Entity) error {
	nid, err := r.stored(e)
	if err != nil {
		return err
	}
	_, err = r.builder(e).WithTrashed().WhereID("", nid).Restore("").Fetch(ctx)
	return err
}

// Load fetches the named relation of e and stores it on e.
func (r *Repository) Load(ctx context.Context, e *model.Entity, relation string) (any, error) {
	h, err := r.Relation(e, relation)
	if err != nil {
		return nil, err
	}
	result, err := h.Load(ctx)
	if err != nil {
		return nil, err
	}
	e.SetRelation(relation, result)
	return result, nil
}

func (r *Repository) owns(e *model.Entity) error {
	if e == nil {
		return errors.ValidationError("entity is nil")
	}
	if e.Schema() != r.schema {
		return errors.ValidationWrap(model.ErrWrongModel, "entity "+e.Schema().Name+" does not belong to "+r.schema.Name)
	}
	return nil
}

// stored checks e belongs to the repository and returns its identity.
func (r *Repository) stored(e *model.Entity) (any, error) {
	if err := r.owns(e); err != nil {
		return nil, err
	}
	if !e.HasID() {
		return nil, errors.ValidationErrorf("%s entity has no identity", r.schema.Name)
	}
	return nodeID(e.ID())
}

func (r *Repository) updates(data map[string]any) map[string]any {
	out := maps.Clone(data)
	if out == nil {
		out = make(map[string]any)
	}
	if r.schema.Timestamps {
		out[model.UpdatedAt] = r.timestamp()
	}
	return out
}

func (r *Repository) timestamp() string {
	return r.now().Format(cypher.TimeFormat)
}

func first(head any, err error) (*model.Entity, error) {
	if err != nil {
		return nil, err
	}
	e, _ := head.(*model.Entity)
	return e, nil
}

// entities keeps the entity rows of a result.
func entities(result *collection.Collection[any]) *collection.Collection[*model.Entity] {
	out := collection.New[*model.Entity]()
	for _, v := range result.All() {
		if e, ok := v.(*model.Entity); ok {
			out.Append(e)
		}
	}
	return out
}

// nodeID normalizes an identity to an integer literal.
func nodeID(id any) (any, error) {
	switch v := id.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		return v, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.ValidationErrorf("invalid node id %q", v)
		}
		return n, nil
	}
	return nil, errors.ValidationErrorf("invalid node id of type %T", id)
}

func stringID(id any) string {
	if s, ok := id.(string); ok {
		return s
	}
	n, err := nodeID(id)
	if err != nil {
		return ""
	}
	return cypher.EncodeValue(n)
}
