package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zorxCorp/guaphy/internal/errors"
	"github.com/zorxCorp/guaphy/internal/graph"
	"github.com/zorxCorp/guaphy/internal/logging"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NEO4J_URI", "NEO4J_USERNAME", "NEO4J_PASSWORD", "NEO4J_DATABASE",
		"GUAPHY_NEO4J_URI", "GUAPHY_NEO4J_USERNAME", "GUAPHY_NEO4J_PASSWORD",
		"GUAPHY_NEO4J_DATABASE", "GUAPHY_LOG_LEVEL", "GUAPHY_QUERY_READ_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
neo4j:
  uri: neo4j://graph:7687
  username: app
  password: secret
  max_pool_size: 10
query:
  read_timeout: 5s
  slow_query_ratio: 0.5
log:
  level: debug
  json: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Neo4jConfig{
		URI:         "neo4j://graph:7687",
		Username:    "app",
		Password:    "secret",
		Database:    "neo4j",
		MaxPoolSize: 10,
	}, cfg.Neo4j)
	assert.Equal(t, 5*time.Second, cfg.Query.ReadTimeout)
	assert.Equal(t, graph.DefaultTimeoutPolicy().Write, cfg.Query.WriteTimeout)
	assert.Equal(t, 0.5, cfg.Query.SlowQueryRatio)
	assert.Equal(t, LogConfig{Level: "debug", JSON: true}, cfg.Log)
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "neo4j:\n  uri: bolt://file:7687\n  password: from-file\n")

	tests := []struct {
		name string
		env  map[string]string
		want Neo4jConfig
	}{
		{
			name: "file only",
			want: Neo4jConfig{URI: "bolt://file:7687", Username: "neo4j", Password: "from-file", Database: "neo4j", MaxPoolSize: 50},
		},
		{
			name: "prefixed variables",
			env:  map[string]string{"GUAPHY_NEO4J_URI": "bolt://prefixed:7687", "GUAPHY_NEO4J_DATABASE": "movies"},
			want: Neo4jConfig{URI: "bolt://prefixed:7687", Username: "neo4j", Password: "from-file", Database: "movies", MaxPoolSize: 50},
		},
		{
			name: "conventional variables win",
			env: map[string]string{
				"GUAPHY_NEO4J_URI": "bolt://prefixed:7687",
				"NEO4J_URI":        "bolt://plain:7687",
				"NEO4J_USERNAME":   "admin",
				"NEO4J_PASSWORD":   "from-env",
			},
			want: Neo4jConfig{URI: "bolt://plain:7687", Username: "admin", Password: "from-env", Database: "neo4j", MaxPoolSize: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Neo4j)
		})
	}
}

func TestLoadInvalidFile(t *testing.T) {
	clearEnv(t)

	tests := map[string]string{
		"malformed yaml": writeConfig(t, "neo4j: [unterminated"),
		// An explicit path must exist, unlike the search paths.
		"missing file": filepath.Join(t.TempDir(), "missing.yaml"),
	}
	for name, path := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.IsConfig(err))
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Neo4j.Password = "secret"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "default has no password", mutate: func(c *Config) { c.Neo4j.Password = "" }, wantErr: "neo4j.password"},
		{
			name:    "missing uri and username",
			mutate:  func(c *Config) { c.Neo4j.URI, c.Neo4j.Username = "", "" },
			wantErr: "neo4j.uri, neo4j.username",
		},
		{name: "ratio out of range", mutate: func(c *Config) { c.Query.SlowQueryRatio = 1.5 }, wantErr: "slow_query_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsConfig(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAdapters(t *testing.T) {
	cfg := Default()
	cfg.Neo4j.Password = "secret"
	cfg.Log = LogConfig{Level: "warn", JSON: true, File: "/tmp/guaphy.log"}

	assert.Equal(t, graph.Config{
		URI:            "bolt://localhost:7687",
		Username:       "neo4j",
		Password:       "secret",
		Database:       "neo4j",
		MaxPoolSize:    50,
		Timeouts:       graph.DefaultTimeoutPolicy(),
		SlowQueryRatio: graph.DefaultWarningRatio,
	}, cfg.Graph())

	assert.Equal(t, logging.Config{
		Level:      logging.WARN,
		OutputFile: "/tmp/guaphy.log",
		JSONFormat: true,
	}, cfg.Logging())
}
