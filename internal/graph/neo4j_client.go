package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Config holds what Client needs to connect.
type Config struct {
	URI            string
	Username       string
	Password       string
	Database       string
	MaxPoolSize    int
	Timeouts       TimeoutPolicy
	SlowQueryRatio float64
}

// Client is the Neo4j-backed Runner.
type Client struct {
	driver   neo4j.DriverWithContext
	logger   *slog.Logger
	database string
	poolSize int
	timeouts TimeoutPolicy
	monitor  *TimeoutMonitor
}

var _ Runner = (*Client)(nil)

// NewClient creates the driver and verifies connectivity (fail fast on
// startup). Security: credentials come from config, never from code.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.URI == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("neo4j credentials missing: uri=%s, user=%s", cfg.URI, cfg.Username)
	}
	if logger == nil {
		logger = slog.Default()
	}

	poolSize := cfg.MaxPoolSize
	if poolSize <= 0 {
		poolSize = 50
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
		func(config *neo4j.Config) {
			config.MaxConnectionPoolSize = poolSize
			config.ConnectionAcquisitionTimeout = 60 * time.Second
			config.MaxConnectionLifetime = 3600 * time.Second
			config.ConnectionLivenessCheckTimeout = 5 * time.Second
			config.SocketConnectTimeout = 5 * time.Second
			config.SocketKeepalive = true
		})
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j at %s: %w", cfg.URI, err)
	}

	timeouts := cfg.Timeouts
	if timeouts == (TimeoutPolicy{}) {
		timeouts = DefaultTimeoutPolicy()
	}

	logger = logger.With("component", "neo4j")
	logger.Info("neo4j client connected",
		"uri", cfg.URI,
		"user", cfg.Username,
		"database", cfg.Database,
		"max_pool_size", poolSize)

	return &Client{
		driver:   driver,
		logger:   logger,
		database: cfg.Database,
		poolSize: poolSize,
		timeouts: timeouts,
		monitor:  NewTimeoutMonitor(logger, cfg.SlowQueryRatio),
	}, nil
}

// Execute runs text with routing and timeout chosen by mode.
func (c *Client) Execute(ctx context.Context, text string, mode Mode) ([]*neo4j.Record, error) {
	queryID := uuid.NewString()
	tc := c.timeouts.ConfigForMode(mode).WithCustomMetadata("database", c.database)

	c.logger.Debug("executing query", "query_id", queryID, "mode", mode.String(), "query", text)

	var records []*neo4j.Record
	err := c.monitor.Observe(ctx, queryID, tc, func(ctx context.Context) error {
		result, err := executeWithRouting(ctx, c.driver, text, mode, c.database)
		if err != nil {
			return err
		}
		records = result.Records
		return nil
	})
	if err != nil {
		c.logger.Error("query execution failed", "query_id", queryID, "mode", mode.String(), "error", err)
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	c.logger.Debug("query executed", "query_id", queryID, "record_count", len(records))
	return records, nil
}

// Close closes the Neo4j driver connection.
func (c *Client) Close(ctx context.Context) error {
	if err := c.driver.Close(ctx); err != nil {
		return fmt.Errorf("failed to close neo4j driver: %w", err)
	}
	c.logger.Info("neo4j client closed")
	return nil
}

// HealthCheck verifies Neo4j connectivity.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("neo4j health check failed: %w", err)
	}
	return nil
}

// Driver returns the underlying Neo4j driver.
func (c *Client) Driver() neo4j.DriverWithContext {
	return c.driver
}

// Database returns the configured database name.
func (c *Client) Database() string {
	return c.database
}
