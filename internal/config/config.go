package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/zorxCorp/guaphy/internal/errors"
	"github.com/zorxCorp/guaphy/internal/graph"
	"github.com/zorxCorp/guaphy/internal/logging"
)

// EnvPrefix prefixes every environment variable viper binds.
const EnvPrefix = "GUAPHY"

// Config holds all guaphy configuration
type Config struct {
	Neo4j Neo4jConfig `yaml:"neo4j" mapstructure:"neo4j"`
	Query QueryConfig `yaml:"query" mapstructure:"query"`
	Log   LogConfig   `yaml:"log" mapstructure:"log"`
}

// Neo4jConfig configures the graph connection
type Neo4jConfig struct {
	URI         string `yaml:"uri" mapstructure:"uri"`
	Username    string `yaml:"username" mapstructure:"username"`
	Password    string `yaml:"password" mapstructure:"password"`
	Database    string `yaml:"database" mapstructure:"database"`
	MaxPoolSize int    `yaml:"max_pool_size" mapstructure:"max_pool_size"`
}

// QueryConfig configures statement execution
type QueryConfig struct {
	ReadTimeout    time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	SlowQueryRatio float64       `yaml:"slow_query_ratio" mapstructure:"slow_query_ratio"`
}

// LogConfig configures the structured logger
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	JSON  bool   `yaml:"json" mapstructure:"json"`
	File  string `yaml:"file" mapstructure:"file"`
}

// Default returns default configuration
func Default() *Config {
	timeouts := graph.DefaultTimeoutPolicy()
	return &Config{
		Neo4j: Neo4jConfig{
			URI:         "bolt://localhost:7687",
			Username:    "neo4j",
			Database:    "neo4j",
			MaxPoolSize: 50,
		},
		Query: QueryConfig{
			ReadTimeout:    timeouts.Read,
			WriteTimeout:   timeouts.Write,
			SlowQueryRatio: graph.DefaultWarningRatio,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from file and environment. An empty path searches
// .guaphy/config.yaml and ./config.yaml; a missing file is not an error.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".guaphy")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityHigh, "failed to read config file")
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityHigh, "failed to decode config")
	}

	applyEnvOverrides(cfg)
	cfg.Log.File = expandPath(cfg.Log.File)
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("neo4j.uri", cfg.Neo4j.URI)
	v.SetDefault("neo4j.username", cfg.Neo4j.Username)
	v.SetDefault("neo4j.password", cfg.Neo4j.Password)
	v.SetDefault("neo4j.database", cfg.Neo4j.Database)
	v.SetDefault("neo4j.max_pool_size", cfg.Neo4j.MaxPoolSize)
	v.SetDefault("query.read_timeout", cfg.Query.ReadTimeout)
	v.SetDefault("query.write_timeout", cfg.Query.WriteTimeout)
	v.SetDefault("query.slow_query_ratio", cfg.Query.SlowQueryRatio)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.json", cfg.Log.JSON)
	v.SetDefault("log.file", cfg.Log.File)
}

// loadEnvFiles loads .env files; values already in the environment win.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}

// applyEnvOverrides applies the conventional Neo4j variables on top of the
// prefixed ones.
func applyEnvOverrides(cfg *Config) {
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		cfg.Neo4j.URI = uri
	}
	if user := os.Getenv("NEO4J_USERNAME"); user != "" {
		cfg.Neo4j.Username = user
	}
	if password := os.Getenv("NEO4J_PASSWORD"); password != "" {
		cfg.Neo4j.Password = password
	}
	if db := os.Getenv("NEO4J_DATABASE"); db != "" {
		cfg.Neo4j.Database = db
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, path[1:])
}

// Validate reports missing connection settings.
func (c *Config) Validate() error {
	var missing []string
	if c.Neo4j.URI == "" {
		missing = append(missing, "neo4j.uri")
	}
	if c.Neo4j.Username == "" {
		missing = append(missing, "neo4j.username")
	}
	if c.Neo4j.Password == "" {
		missing = append(missing, "neo4j.password")
	}
	if len(missing) > 0 {
		return errors.ConfigErrorf("missing configuration: %s", strings.Join(missing, ", "))
	}
	if c.Query.SlowQueryRatio < 0 || c.Query.SlowQueryRatio > 1 {
		return errors.ConfigErrorf("query.slow_query_ratio must be within [0, 1], got %v", c.Query.SlowQueryRatio)
	}
	return nil
}

// Graph returns the connection settings for graph.NewClient.
func (c *Config) Graph() graph.Config {
	return graph.Config{
		URI:         c.Neo4j.URI,
		Username:    c.Neo4j.Username,
		Password:    c.Neo4j.Password,
		Database:    c.Neo4j.Database,
		MaxPoolSize: c.Neo4j.MaxPoolSize,
		Timeouts: graph.TimeoutPolicy{
			Read:  c.Query.ReadTimeout,
			Write: c.Query.WriteTimeout,
		},
		SlowQueryRatio: c.Query.SlowQueryRatio,
	}
}

// Logging returns the logger settings for logging.Initialize.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:      logging.ParseLevel(c.Log.Level),
		OutputFile: c.Log.File,
		JSONFormat: c.Log.JSON,
	}
}
