package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// DefaultFetchSize is the number of records pulled from the server per
// round trip while streaming.
const DefaultFetchSize = 500

// cursor is the part of a driver result that streaming consumes.
type cursor interface {
	Next(ctx context.Context) bool
	Record() *neo4j.Record
	Err() error
}

// Stream runs text in an explicit transaction and hands each record to fn
// as it arrives, holding only fetchSize records in memory. Explicit
// transactions are never retried by the driver, so fn sees every record at
// most once. A fn error stops the stream and rolls the transaction back.
func (c *Client) Stream(ctx context.Context, text string, mode Mode, fetchSize int, fn func(*neo4j.Record) error) error {
	if fetchSize <= 0 {
		fetchSize = DefaultFetchSize
	}
	queryID := uuid.NewString()
	tc := c.timeouts.ConfigForMode(mode).WithCustomMetadata("fetch_size", fetchSize)

	config := SessionConfig(mode, c.database)
	config.FetchSize = fetchSize

	c.logger.Debug("streaming query", "query_id", queryID, "mode", mode.String(), "query", text)

	var count int
	err := c.monitor.Observe(ctx, queryID, tc, func(ctx context.Context) error {
		session := c.driver.NewSession(ctx, config)
		defer session.Close(ctx)

		tx, err := session.BeginTransaction(ctx)
		if err != nil {
			return err
		}
		return streamTx(ctx, tx, text, fn, &count)
	})
	if err != nil {
		c.logger.Error("query stream failed", "query_id", queryID, "mode", mode.String(), "error", err)
		return fmt.Errorf("query stream failed: %w", err)
	}

	c.logger.Debug("query streamed", "query_id", queryID, "record_count", count)
	return nil
}

// txRunner is the part of an explicit transaction that streaming uses.
type txRunner interface {
	Run(ctx context.Context, cypher string, params map[string]any) (neo4j.ResultWithContext, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// streamTx drains text through tx, committing on success and rolling back
// on any failure.
func streamTx(ctx context.Context, tx txRunner, text string, fn func(*neo4j.Record) error, count *int) error {
	result, err := tx.Run(ctx, text, nil)
	if err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	n, err := drain(ctx, result, fn)
	*count = n
	if err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// drain feeds every record of r to fn and returns how many it accepted.
func drain(ctx context.Context, r cursor, fn func(*neo4j.Record) error) (int, error) {
	var n int
	for r.Next(ctx) {
		if err := fn(r.Record()); err != nil {
			return n, err
		}
		n++
	}
	return n, r.Err()
}
