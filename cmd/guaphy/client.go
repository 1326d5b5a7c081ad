package main

import (
	"context"

	"github.com/zorxCorp/guaphy/internal/graph"
	"github.com/zorxCorp/guaphy/internal/logging"
)

// connect validates the loaded configuration and opens a Neo4j client.
func connect(ctx context.Context) (*graph.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.WithField("uri", cfg.Neo4j.URI).Debug("Connecting to Neo4j")
	return graph.NewClient(ctx, cfg.Graph(), logging.Component("cli"))
}
