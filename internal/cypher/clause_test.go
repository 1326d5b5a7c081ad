package cypher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func node(variable, label string, props ...map[string]any) PatternFunc {
	return func(p *Pattern) *Pattern { return p.Node(variable, label, props...) }
}

func TestClauseRenderings(t *testing.T) {
	tests := []struct {
		name     string
		build    ClauseFunc
		expected string
	}{
		{"limit", func(c *Clause) *Clause { return c.Limit(1) }, "LIMIT 1"},
		{"skip", func(c *Clause) *Clause { return c.Skip(1) }, "SKIP 1"},
		{"skip expression", func(c *Clause) *Clause { return c.Skip("toInteger(3*rand()) + 1") }, "SKIP toInteger(3*rand()) + 1"},
		{"order by", func(c *Clause) *Clause { return c.OrderBy([]string{"a.name"}, "") }, "ORDER BY a.name"},
		{"order by desc", func(c *Clause) *Clause { return c.OrderBy([]string{"a.name"}, Desc) }, "ORDER BY a.name DESC"},
		{"order by many", func(c *Clause) *Clause { return c.OrderBy([]string{"a.name", "b.name"}, "") }, "ORDER BY a.name,b.name"},
		{"order by many desc", func(c *Clause) *Clause { return c.OrderBy([]string{"a.name", "b.name"}, Desc) }, "ORDER BY a.name DESC,b.name DESC"},
		{
			"order by per field",
			func(c *Clause) *Clause {
				return c.OrderByFields(Order{Field: "a.name", Direction: Desc}, Order{Field: "b.name"})
			},
			"ORDER BY a.name DESC,b.name",
		},
		{"return", func(c *Clause) *Clause { return c.Return("a.name") }, "RETURN a.name"},
		{"return many", func(c *Clause) *Clause { return c.Return("a.name", "b.name") }, "RETURN a.name,b.name"},
		{"return as", func(c *Clause) *Clause { return c.Return("n.age").As("y") }, "RETURN n.age AS y"},
		{"with", func(c *Clause) *Clause { return c.With("otherPerson", "count(*) AS foaf") }, "WITH otherPerson,count(*) AS foaf"},
		{"with one", func(c *Clause) *Clause { return c.With("n") }, "WITH n"},
		{"match bare", func(c *Clause) *Clause { return c.Match() }, "MATCH"},
		{"match", func(c *Clause) *Clause { return c.Match(node("movie", "Movie")) }, "MATCH (movie:Movie)"},
		{
			"match many",
			func(c *Clause) *Clause {
				return c.Match(
					node("charlie", "Person", map[string]any{"name": "Charlie Sheen"}),
					node("rob", "Person", map[string]any{"name": "Rob Reiner"}),
				)
			},
			"MATCH (charlie:Person { name: 'Charlie Sheen' }), (rob:Person { name: 'Rob Reiner' })",
		},
		{"optional match", func(c *Clause) *Clause { return c.OptionalMatch(node("n", "")) }, "OPTIONAL MATCH (n)"},
		{
			"optional match many",
			func(c *Clause) *Clause {
				return c.OptionalMatch(node("charlie", "Person"), node("rob", "Person"))
			},
			"OPTIONAL MATCH (charlie:Person), (rob:Person)",
		},
		{"create bare", func(c *Clause) *Clause { return c.Create() }, "CREATE"},
		{"create many", func(c *Clause) *Clause { return c.Create(node("n", ""), node("b", "")) }, "CREATE (n), (b)"},
		{"merge bare", func(c *Clause) *Clause { return c.Merge(nil) }, "MERGE"},
		{
			"merge path",
			func(c *Clause) *Clause {
				return c.Merge(func(p *Pattern) *Pattern {
					return p.Node("zorx", "").RelationOut("r", "ACTED_IN").Node("wallStreet", "")
				})
			},
			"MERGE (zorx) -[r:ACTED_IN]-> (wallStreet)",
		},
		{
			"merge on match",
			func(c *Clause) *Clause { return c.Merge(node("person", "Person")).OnMatch().Set("person.found", true) },
			"MERGE (person:Person) ON MATCH SET person.found = true",
		},
		{"on create", func(c *Clause) *Clause { return c.OnCreate() }, "ON CREATE"},
		{"unwind list", func(c *Clause) *Clause { return c.Unwind([]int{1, 2, 3}, "x") }, "UNWIND [1,2,3] AS x"},
		{"unwind expression", func(c *Clause) *Clause { return c.Unwind("coll", "x") }, "UNWIND coll AS x"},
		{"unwind group", func(c *Clause) *Clause { return c.Unwind("(a + b)", "x") }, "UNWIND (a + b) AS x"},
		{"unwind empty", func(c *Clause) *Clause { return c.Unwind([]any{}, "empty") }, "UNWIND [] AS empty"},
		{"unwind null", func(c *Clause) *Clause { return c.Unwind(nil, "empty") }, "UNWIND null AS empty"},
		{"unwind parameter", func(c *Clause) *Clause { return c.Unwind("$events", "event") }, "UNWIND $events AS event"},
		{"delete", func(c *Clause) *Clause { return c.Delete("n", false) }, "DELETE n"},
		{"detach delete", func(c *Clause) *Clause { return c.Delete("n", true) }, "DETACH DELETE n"},
		{"restore", func(c *Clause) *Clause { return c.Restore("n") }, "SET n.deleted_at = null"},
		{"remove", func(c *Clause) *Clause { return c.Remove("n.age") }, "REMOVE n.age"},
		{"remove label", func(c *Clause) *Clause { return c.Remove("n:Algerian") }, "REMOVE n:Algerian"},
		{"set", func(c *Clause) *Clause { return c.Set("p.name", "Amine") }, "SET p.name = 'Amine'"},
		{
			"set map",
			func(c *Clause) *Clause {
				return c.SetMap(map[string]any{"p.position": "Maintainer", "p.name": "Amine"})
			},
			"SET p.name = 'Amine',p.position = 'Maintainer'",
		},
		{
			"set node",
			func(c *Clause) *Clause {
				return c.Set("p", map[string]any{"name": "Amine", "position": "Maintainer"})
			},
			"SET p = { name: 'Amine', position: 'Maintainer' }",
		},
		{"call", func(c *Clause) *Clause { return c.Call("db.labels") }, "CALL db.labels"},
		{
			"call subquery",
			func(c *Clause) *Clause {
				return c.CallFunc(func(s *Clause) *Clause { return s.With("x").Return("x * 10").As("y") })
			},
			"CALL { WITH x RETURN x * 10 AS y }",
		},
		{"union", func(c *Clause) *Clause { return c.Union("") }, "UNION"},
		{"union all", func(c *Clause) *Clause { return c.Union("ALL") }, "UNION ALL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RenderClause(nil, tt.build))
		})
	}
}

func TestClauseOwnerScope(t *testing.T) {
	c := NewClause(owner("movie2")).
		Return().
		OrderBy([]string{"title"}, Asc).
		Set("title", "Heat").
		Restore("").
		Delete("", true)

	assert.Equal(t, "RETURN movie2 ORDER BY movie2.title ASC SET movie2.title = 'Heat' SET movie2.deleted_at = null DETACH DELETE movie2", c.String())
}

func TestClauseLen(t *testing.T) {
	c := NewClause(nil)
	assert.Equal(t, 0, c.Len())
	c.Limit(3).Raw("UNION")
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "LIMIT 3 UNION", c.String())
}
