package graphtest

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zorxCorp/guaphy/internal/graph"
)

func TestRunnerReplaysInOrder(t *testing.T) {
	boom := stderrors.New("boom")
	r := New().Push(Record("n", int64(1))).PushError(boom)
	ctx := context.Background()

	records, err := r.Execute(ctx, "MATCH (n) RETURN n", graph.Read)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"n"}, records[0].Keys)

	_, err = r.Execute(ctx, "CREATE (n)", graph.Write)
	assert.ErrorIs(t, err, boom)

	records, err = r.Execute(ctx, "RETURN 1", graph.Read)
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.Equal(t, []string{"MATCH (n) RETURN n", "CREATE (n)", "RETURN 1"}, r.Texts())
	assert.Equal(t, Call{Text: "RETURN 1", Mode: graph.Read}, r.Last())
	assert.Equal(t, graph.Write, r.Calls()[1].Mode)
}

func TestRunnerHandler(t *testing.T) {
	r := New().Handle(func(text string, mode graph.Mode) ([]*neo4j.Record, error) {
		return []*neo4j.Record{Record("text", text, "mode", mode.String())}, nil
	})

	records, err := r.Execute(context.Background(), "RETURN 2", graph.Write)
	require.NoError(t, err)
	assert.Equal(t, []any{"RETURN 2", "write"}, records[0].Values)
}

func TestRunnerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Execute(ctx, "RETURN 1", graph.Read)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Call{}, New().Last())
}

func TestValueBuilders(t *testing.T) {
	n := Node(3, []string{"Person"}, nil)
	assert.Equal(t, int64(3), n.Id)
	assert.NotNil(t, n.Props)

	rel := Relationship(9, 3, 4, "ACTED_IN", map[string]any{"role": "Neo"})
	assert.Equal(t, int64(4), rel.EndId)
	assert.Equal(t, "ACTED_IN", rel.Type)
}
