package transform

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zorxCorp/guaphy/internal/collection"
	"github.com/zorxCorp/guaphy/internal/graph/graphtest"
	"github.com/zorxCorp/guaphy/internal/model"
)

var (
	movieSchema  = &model.Schema{Name: "Movie", SoftDeletes: true}
	roleSchema   = &model.Schema{Name: "Role"}
	personSchema = (&model.Schema{Name: "Person", SoftDeletes: true}).
			HasMany("actedInMovies", "ACTED_IN", "Movie")
)

func TestInteger(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		want any
	}{
		{"zero", 0, int64(0)},
		{"upper boundary", MaxSafeInteger, int64(9007199254740991)},
		{"beyond upper boundary", MaxSafeInteger + 1, "9007199254740992"},
		{"lower boundary", -MaxSafeInteger, int64(-9007199254740991)},
		{"beyond lower boundary", -MaxSafeInteger - 1, "-9007199254740992"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Integer(tt.in))
		})
	}
}

func TestValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"string", "x", "x"},
		{"float", 1.5, 1.5},
		{"list", []any{int64(1), MaxSafeInteger + int64(1)}, []any{int64(1), "9007199254740992"}},
		{
			"node",
			graphtest.Node(7, []string{"Person"}, map[string]any{"age": int64(30)}),
			model.Node{Identity: "7", Labels: []string{"Person"}, Properties: map[string]any{"age": int64(30)}},
		},
		{
			"relationship",
			graphtest.Relationship(9, 7, 8, "ACTED_IN", map[string]any{"role": "Neo"}),
			model.Relationship{Identity: "9", Start: "7", End: "8", Type: "ACTED_IN", Properties: map[string]any{"role": "Neo"}},
		},
		{
			"node-shaped map",
			map[string]any{"identity": int64(3), "labels": []any{"Movie"}, "properties": map[string]any{"title": "Heat"}},
			model.Node{Identity: "3", Labels: []string{"Movie"}, Properties: map[string]any{"title": "Heat"}},
		},
		{
			"relationship-shaped map",
			map[string]any{"identity": int64(4), "type": "IS", "start": int64(1), "end": int64(2), "properties": map[string]any{}},
			model.Relationship{Identity: "4", Start: "1", End: "2", Type: "IS", Properties: map[string]any{}},
		},
		{
			"map with start is not a node",
			map[string]any{"identity": int64(4), "labels": []any{"X"}, "properties": map[string]any{}, "start": int64(1)},
			map[string]any{"identity": int64(4), "labels": []any{"X"}, "properties": map[string]any{}, "start": int64(1)},
		},
		{"plain map", map[string]any{"n": int64(2)}, map[string]any{"n": int64(2)}},
		{
			"path",
			dbtype.Path{
				Nodes:         []dbtype.Node{graphtest.Node(1, []string{"A"}, nil), graphtest.Node(2, []string{"B"}, nil)},
				Relationships: []dbtype.Relationship{graphtest.Relationship(5, 1, 2, "R", nil)},
			},
			model.Path{
				Nodes: []model.Node{
					{Identity: "1", Labels: []string{"A"}, Properties: map[string]any{}},
					{Identity: "2", Labels: []string{"B"}, Properties: map[string]any{}},
				},
				Relationships: []model.Relationship{{Identity: "5", Start: "1", End: "2", Type: "R", Properties: map[string]any{}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Value(tt.in))
		})
	}
}

func TestRecordsWithoutEntity(t *testing.T) {
	records := []*neo4j.Record{
		graphtest.Record(
			"a", graphtest.Node(1, []string{"Person"}, map[string]any{"name": "leeto"}),
			"b", graphtest.Node(2, []string{"User"}, map[string]any{"name": "zorx"}),
		),
	}

	got := New(nil, nil).Records(records)
	require.Equal(t, 1, got.Len())

	row := got.At(0).(map[string]any)
	a := row["a"].(model.Node)
	assert.Equal(t, map[string]any{"name": "leeto"}, a.Properties)
	assert.Equal(t, []string{"Person"}, a.Labels)
	assert.Equal(t, "1", a.Identity)
	assert.Equal(t, "zorx", row["b"].(model.Node).Properties["name"])
}

func TestRecordsEmpty(t *testing.T) {
	got := New(model.NewEntity(personSchema, "person1"), nil).Records(nil)
	assert.Equal(t, 0, got.Len())
}

func TestRecordsEntityFlatten(t *testing.T) {
	root := model.NewEntity(personSchema, "person1")
	records := []*neo4j.Record{
		graphtest.Record(
			"person1", graphtest.Node(1, []string{"Person"}, map[string]any{"name": "Amine"}),
			"total", int64(2),
		),
		graphtest.Record("person1", graphtest.Node(2, []string{"Person"}, map[string]any{"name": "Peter"})),
	}

	got := New(root, model.NewCounterNamer()).Records(records)
	require.Equal(t, 3, got.Len())

	first := got.At(0).(*model.Entity)
	assert.Equal(t, "1", first.ID())
	assert.Equal(t, "Amine", first.GetString("name"))
	assert.True(t, first.IsPersisted())
	assert.Equal(t, "person1", first.Variable())
	assert.Equal(t, int64(2), got.At(1))
	assert.Equal(t, "person2", got.At(2).(*model.Entity).Variable())
}

func TestRecordsRelationProperty(t *testing.T) {
	root := model.NewEntity(movieSchema, "movie1")
	records := []*neo4j.Record{
		graphtest.Record(
			"movie1", graphtest.Node(10, []string{"Movie"}, map[string]any{"title": "Heat"}),
			RelationPropertyAlias, graphtest.Relationship(30, 1, 10, "ACTED_IN", map[string]any{"role": "Neil"}),
		),
	}

	got := New(root, nil).Records(records)
	require.Equal(t, 1, got.Len())

	movie := got.At(0).(*model.Entity)
	assert.Equal(t, map[string]any{"role": "Neil"}, movie.RelationProperties())
}

func TestRecordsEagerCorrelatesByIdentity(t *testing.T) {
	rel, _ := personSchema.Relation("actedInMovies")
	root := model.NewEntity(personSchema, "person1")
	eager := Eager{Name: "actedInMovies", Alias: "movie2", Relation: rel, Target: movieSchema}

	// edges come back in reverse order relative to the targets
	records := []*neo4j.Record{
		graphtest.Record(
			"person1", graphtest.Node(1, []string{"Person"}, map[string]any{"name": "Al"}),
			"movie2_collection", []any{
				graphtest.Node(10, []string{"Movie"}, map[string]any{"title": "A"}),
				graphtest.Node(11, []string{"Movie"}, map[string]any{"title": "B"}),
			},
			"movie2_relationProperties", []any{
				graphtest.Relationship(21, 1, 11, "ACTED_IN", map[string]any{"role": "toB"}),
				graphtest.Relationship(20, 1, 10, "ACTED_IN", map[string]any{"role": "toA"}),
			},
		),
	}

	got := New(root, model.NewCounterNamer(), eager).Records(records)
	require.Equal(t, 1, got.Len())

	person := got.At(0).(*model.Entity)
	related, ok := person.Related("actedInMovies")
	require.True(t, ok)

	movies := related.(*collection.Collection[*model.Entity])
	require.Equal(t, 2, movies.Len())
	assert.Equal(t, "A", movies.At(0).GetString("title"))
	assert.Equal(t, map[string]any{"role": "toA"}, movies.At(0).RelationProperties())
	assert.Equal(t, "B", movies.At(1).GetString("title"))
	assert.Equal(t, map[string]any{"role": "toB"}, movies.At(1).RelationProperties())
	assert.Same(t, movieSchema, movies.At(0).Schema())
}

func TestRecordsEagerReverseRelation(t *testing.T) {
	actors := model.Relation{Name: "actors", Type: "ACTED_IN", Target: "Person", Reverse: true}
	root := model.NewEntity(movieSchema, "movie1")
	eager := Eager{Name: "actors", Alias: "person2", Relation: actors, Target: personSchema}

	records := []*neo4j.Record{
		graphtest.Record(
			"movie1", graphtest.Node(10, []string{"Movie"}, nil),
			"person2_collection", []any{graphtest.Node(1, []string{"Person"}, nil)},
			"person2_relationProperties", []any{graphtest.Relationship(20, 1, 10, "ACTED_IN", map[string]any{"role": "Neil"})},
		),
	}

	person := New(root, nil, eager).Records(records).At(0).(*model.Entity)
	related, _ := person.Related("actors")
	actorsColl := related.(*collection.Collection[*model.Entity])
	require.Equal(t, 1, actorsColl.Len())
	assert.Equal(t, map[string]any{"role": "Neil"}, actorsColl.At(0).RelationProperties())
}

func TestRecordsEagerCount(t *testing.T) {
	rel, _ := personSchema.Relation("actedInMovies")
	root := model.NewEntity(personSchema, "person1")
	eager := Eager{Name: "actedInMovies", Alias: "movie2", Relation: rel, Target: movieSchema}

	records := []*neo4j.Record{
		graphtest.Record(
			"person1", graphtest.Node(1, []string{"Person"}, nil),
			"movie2_collection", int64(3),
			"movie2_relationProperties", int64(3),
		),
	}

	person := New(root, nil, eager).Records(records).At(0).(*model.Entity)
	count, ok := person.Related("actedInMoviesCount")
	require.True(t, ok)
	assert.Equal(t, int64(3), count)
	_, ok = person.Related("actedInMovies")
	assert.False(t, ok)
}

func TestRecordsEagerToOne(t *testing.T) {
	role := model.Relation{Name: "role", Type: "IS", Target: "Role", Cardinality: model.ToOne}
	userSchema := &model.Schema{Name: "User", Relations: []model.Relation{role}}
	eager := Eager{Name: "role", Alias: "role2", Relation: role, Target: roleSchema}

	withRole := graphtest.Record(
		"user1", graphtest.Node(1, []string{"User"}, nil),
		"role2_collection", []any{graphtest.Node(5, []string{"Role"}, map[string]any{"name": "admin"})},
		"role2_relationProperties", []any{graphtest.Relationship(9, 1, 5, "IS", nil)},
	)
	withoutRole := graphtest.Record(
		"user1", graphtest.Node(2, []string{"User"}, nil),
		"role2_collection", []any{},
		"role2_relationProperties", []any{},
	)

	got := New(model.NewEntity(userSchema, "user1"), nil, eager).Records([]*neo4j.Record{withRole, withoutRole})
	require.Equal(t, 2, got.Len())

	r, _ := got.At(0).(*model.Entity).Related("role")
	assert.Equal(t, "admin", r.(*model.Entity).GetString("name"))
	assert.Equal(t, map[string]any{}, r.(*model.Entity).RelationProperties())

	r, ok := got.At(1).(*model.Entity).Related("role")
	assert.True(t, ok)
	assert.Nil(t, r)
}

func TestRecordsEagerWithoutRoot(t *testing.T) {
	rel, _ := personSchema.Relation("actedInMovies")
	eager := Eager{Name: "actedInMovies", Alias: "movie2", Relation: rel, Target: movieSchema}

	records := []*neo4j.Record{graphtest.Record("count", int64(4))}
	got := New(model.NewEntity(personSchema, "person1"), nil, eager).Records(records)

	assert.Equal(t, []any{int64(4)}, got.Items())
}
