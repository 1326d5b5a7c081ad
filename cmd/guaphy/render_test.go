package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zorxCorp/guaphy/internal/errors"
)

const moviesSchema = `
schemas:
  - name: Person
    soft_deletes: true
    relations:
      - { name: actedInMovies, type: ACTED_IN, target: Movie }
  - name: Movie
    soft_deletes: true
    relations:
      - { name: actors, type: ACTED_IN, target: Person, reverse: true }
`

func writeSchema(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRender(t *testing.T) {
	schema := writeSchema(t, moviesSchema)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "plain",
			args: []string{"--model", "Person"},
			want: "MATCH (person1:Person) WHERE NOT exists(person1.deleted_at) RETURN person1",
		},
		{
			name: "where and limit",
			args: []string{"--model", "Person", "--where", "name=Keanu", "--limit", "5"},
			want: "MATCH (person1:Person) WHERE NOT exists(person1.deleted_at) AND person1.name = 'Keanu' RETURN person1 LIMIT 5",
		},
		{
			name: "with trashed",
			args: []string{"--model", "Person", "--trashed"},
			want: "MATCH (person1:Person) RETURN person1",
		},
		{
			name: "eager relation",
			args: []string{"--model", "Person", "--with", "actedInMovies"},
			want: "MATCH (person1:Person) OPTIONAL MATCH (person1) -[person_movie3:ACTED_IN]-> (movie2:Movie) " +
				"WHERE NOT exists(movie2.deleted_at) " +
				"WITH person1,collect(person_movie3) as movie2_relationProperties,collect(movie2) as movie2_collection " +
				"WHERE NOT exists(person1.deleted_at) " +
				"RETURN person1,movie2_collection,movie2_relationProperties",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(newRenderCommand(), append([]string{"--schema", schema}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestRenderErrors(t *testing.T) {
	schema := writeSchema(t, moviesSchema)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown model", []string{"--schema", schema, "--model", "Studio"}},
		{"undeclared relation", []string{"--schema", schema, "--model", "Person", "--with", "friends"}},
		{"missing schema file", []string{"--schema", filepath.Join(t.TempDir(), "nope.yaml"), "--model", "Person"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(newRenderCommand(), tt.args...)
			require.Error(t, err)
			assert.True(t, errors.IsConfig(err))
		})
	}

	_, err := execute(newRenderCommand(), "--model", "Person")
	assert.ErrorContains(t, err, "schema")
}

func TestSchemaValidate(t *testing.T) {
	out, err := execute(newSchemaCommand(), "validate", writeSchema(t, moviesSchema))
	require.NoError(t, err)
	assert.Equal(t,
		"Person (:Person) soft-deletes\n"+
			"  actedInMovies ->[:ACTED_IN] Movie (many)\n"+
			"Movie (:Movie) soft-deletes\n"+
			"  actors <-[:ACTED_IN] Person (many)\n",
		out)

	broken := writeSchema(t, `
schemas:
  - name: Person
    relations:
      - { name: pets, type: OWNS, target: Dog }
`)
	_, err = execute(newSchemaCommand(), "validate", broken)
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
}
