package graph

import (
	"context"
	"maps"
	"slices"
	"time"
)

// TransactionConfig defines timeout and metadata for one execution.
//
// The ExecuteQuery API takes no per-query timeout, so Timeout is applied as a
// context deadline; Metadata is attached to the log line instead.
type TransactionConfig struct {
	Timeout  time.Duration
	Metadata map[string]any
}

// TimeoutPolicy holds the per-mode execution timeouts.
type TimeoutPolicy struct {
	Read  time.Duration
	Write time.Duration
}

// DefaultTimeoutPolicy returns the timeouts used when none are configured.
func DefaultTimeoutPolicy() TimeoutPolicy {
	return TimeoutPolicy{
		Read:  30 * time.Second,
		Write: 2 * time.Minute,
	}
}

// ConfigForMode returns the transaction config for mode.
func (p TimeoutPolicy) ConfigForMode(mode Mode) TransactionConfig {
	timeout := p.Read
	if mode == Write {
		timeout = p.Write
	}
	return TransactionConfig{
		Timeout: timeout,
		Metadata: map[string]any{
			"type": mode.String(),
		},
	}
}

// WithCustomMetadata returns a copy of tc carrying key=value.
func (tc TransactionConfig) WithCustomMetadata(key string, value any) TransactionConfig {
	md := make(map[string]any, len(tc.Metadata)+1)
	maps.Copy(md, tc.Metadata)
	md[key] = value
	return TransactionConfig{Timeout: tc.Timeout, Metadata: md}
}

// WithTimeout returns a copy of tc with a different timeout.
func (tc TransactionConfig) WithTimeout(timeout time.Duration) TransactionConfig {
	return TransactionConfig{Timeout: timeout, Metadata: tc.Metadata}
}

// Context derives a context bounded by tc.Timeout. A zero timeout leaves ctx
// unchanged.
func (tc TransactionConfig) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	if tc.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, tc.Timeout)
}

// LogArgs flattens the metadata into slog key/value pairs.
func (tc TransactionConfig) LogArgs() []any {
	args := make([]any, 0, len(tc.Metadata)*2)
	for _, k := range slices.Sorted(maps.Keys(tc.Metadata)) {
		args = append(args, k, tc.Metadata[k])
	}
	return args
}
