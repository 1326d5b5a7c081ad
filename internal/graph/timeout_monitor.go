package graph

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"
)

// TimeoutMonitor logs executions that fail, time out or use a large share of
// their timeout.
type TimeoutMonitor struct {
	logger       *slog.Logger
	warningRatio float64 // Warn when execution reaches this share of timeout
}

// DefaultWarningRatio is the share of the timeout that triggers a warning.
const DefaultWarningRatio = 0.8

// NewTimeoutMonitor creates a monitor. A ratio outside (0, 1] falls back to
// DefaultWarningRatio.
func NewTimeoutMonitor(logger *slog.Logger, warningRatio float64) *TimeoutMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	if warningRatio <= 0 || warningRatio > 1 {
		warningRatio = DefaultWarningRatio
	}
	return &TimeoutMonitor{
		logger:       logger.With("component", "timeout_monitor"),
		warningRatio: warningRatio,
	}
}

// Observe runs fn under tc's deadline and logs the outcome. It returns fn's
// error unchanged.
func (tm *TimeoutMonitor) Observe(ctx context.Context, queryID string, tc TransactionConfig, fn func(context.Context) error) error {
	execCtx, cancel := tc.Context(ctx)
	defer cancel()

	start := time.Now()
	err := fn(execCtx)
	duration := time.Since(start)

	attrs := append([]any{
		"query_id", queryID,
		"duration_ms", duration.Milliseconds(),
	}, tc.LogArgs()...)

	switch {
	case err != nil && stderrors.Is(execCtx.Err(), context.DeadlineExceeded):
		tm.logger.Error("query timed out", append(attrs, "timeout_seconds", tc.Timeout.Seconds())...)
	case err != nil:
		tm.logger.Warn("query failed", append(attrs, "error", err)...)
	case tc.Timeout > 0 && duration >= time.Duration(float64(tc.Timeout)*tm.warningRatio):
		percentUsed := duration.Seconds() / tc.Timeout.Seconds() * 100
		tm.logger.Warn("query approaching timeout", append(attrs, "percent_used", percentUsed)...)
	default:
		tm.logger.Debug("query completed", attrs...)
	}

	return err
}
