package graph

import (
	"context"
	"fmt"
	"time"
)

// PoolStats represents connection pool statistics.
//
// Note: The Neo4j Go driver doesn't expose runtime pool metrics; use the
// server metrics endpoint for detailed monitoring.
type PoolStats struct {
	MaxPoolSize int
}

// GetPoolStats returns the configured pool limits.
func (c *Client) GetPoolStats() PoolStats {
	return PoolStats{MaxPoolSize: c.poolSize}
}

// PoolHealthStatus represents the health of the connection pool.
type PoolHealthStatus struct {
	Healthy       bool
	Message       string
	Duration      time.Duration
	LastCheckTime time.Time
}

// slowHealthCheck marks a connectivity check as degraded.
const slowHealthCheck = 5 * time.Second

// CheckPoolHealth performs a connectivity check and reports how long it took.
func (c *Client) CheckPoolHealth(ctx context.Context) (*PoolHealthStatus, error) {
	return checkHealth(ctx, c.HealthCheck)
}

func checkHealth(ctx context.Context, check func(context.Context) error) (*PoolHealthStatus, error) {
	start := time.Now()
	err := check(ctx)
	duration := time.Since(start)

	status := &PoolHealthStatus{Duration: duration, LastCheckTime: time.Now()}

	if err != nil {
		status.Message = fmt.Sprintf("Health check failed: %v", err)
		return status, err
	}

	if duration > slowHealthCheck {
		status.Message = fmt.Sprintf("Health check slow: %v (threshold: %v)", duration, slowHealthCheck)
		return status, fmt.Errorf("health check timeout")
	}

	status.Healthy = true
	status.Message = fmt.Sprintf("Pool healthy (check took %v)", duration)
	return status, nil
}

// WatchPoolHealth runs periodic health checks until ctx is done.
func (c *Client) WatchPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.logger.Info("starting pool health monitor", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("pool health monitor stopped")
			return
		case <-ticker.C:
			if err := c.HealthCheck(ctx); err != nil {
				c.logger.Warn("pool health check failed", "error", err)
			} else {
				c.logger.Debug("pool health check passed")
			}
		}
	}
}

// RecommendedPoolSize returns 1.5x the expected concurrency, clamped to
// [10, 100].
func RecommendedPoolSize(expectedConcurrentRequests int) int {
	recommended := expectedConcurrentRequests * 3 / 2
	if recommended < 10 {
		return 10
	}
	if recommended > 100 {
		return 100
	}
	return recommended
}
