package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// In Neo4j clusters (Causal Cluster or Aura) read statements route to read
// replicas and writes to the leader. For single-node deployments routing has
// no effect.

// routingOptions returns the ExecuteQuery options for mode and database.
func routingOptions(mode Mode, database string) []neo4j.ExecuteQueryConfigurationOption {
	options := make([]neo4j.ExecuteQueryConfigurationOption, 0, 2)
	if database != "" {
		options = append(options, neo4j.ExecuteQueryWithDatabase(database))
	}

	switch mode {
	case Write:
		options = append(options, neo4j.ExecuteQueryWithWritersRouting())
	default:
		options = append(options, neo4j.ExecuteQueryWithReadersRouting())
	}
	return options
}

// executeWithRouting runs text eagerly with routing hints for mode.
func executeWithRouting(
	ctx context.Context,
	driver neo4j.DriverWithContext,
	text string,
	mode Mode,
	database string,
) (*neo4j.EagerResult, error) {
	return neo4j.ExecuteQuery(ctx, driver, text, nil,
		neo4j.EagerResultTransformer,
		routingOptions(mode, database)...)
}

// SessionConfig returns a session configuration whose access mode matches
// mode, for callers that need explicit transactions.
func SessionConfig(mode Mode, database string) neo4j.SessionConfig {
	config := neo4j.SessionConfig{DatabaseName: database}
	switch mode {
	case Write:
		config.AccessMode = neo4j.AccessModeWrite
	default:
		config.AccessMode = neo4j.AccessModeRead
	}
	return config
}
