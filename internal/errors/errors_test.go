package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := stderrors.New("connection refused")

	tests := []struct {
		name     string
		err      error
		wantType ErrorType
		fatal    bool
		message  string
	}{
		{"config", ConfigErrorf("unknown relation %q", "roles"), ErrorTypeConfig, true, `unknown relation "roles"`},
		{"validation", ValidationError("wrong model"), ErrorTypeValidation, false, "wrong model"},
		{"database", DatabaseError(cause, "query failed"), ErrorTypeDatabase, false, "query failed: connection refused"},
		{"internal", InternalErrorf("bad state %d", 3), ErrorTypeInternal, true, "bad state 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, GetType(tt.err))
			assert.Equal(t, tt.fatal, IsFatal(tt.err))
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := fmt.Errorf("outer: %w", ValidationWrap(sentinel, "cannot attach"))

	assert.True(t, stderrors.Is(err, sentinel))
	assert.True(t, IsValidation(err))
	assert.False(t, IsConfig(err))
	assert.True(t, stderrors.Is(err, ValidationError("")))
	assert.Nil(t, Wrap(nil, ErrorTypeDatabase, SeverityHigh, "nothing"))
}

func TestDetailedString(t *testing.T) {
	err := ConfigError("missing uri").WithContext("key", "neo4j.uri").WithContext("env", "NEO4J_URI")

	assert.Equal(t, "[CRITICAL] [CONFIG] missing uri\nContext:\n  env: NEO4J_URI\n  key: neo4j.uri\n", err.DetailedString())
}
