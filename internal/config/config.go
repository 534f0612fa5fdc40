package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Engine drivers.
const (
	DriverRedis       = "redis"
	DriverMeilisearch = "meilisearch"
)

// Config holds the studiodex configuration.
type Config struct {
	Admin   AdminConfig   `yaml:"admin"`
	Engine  EngineConfig  `yaml:"engine"`
	Catalog CatalogConfig `yaml:"catalog"`
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	Storage StorageConfig `yaml:"storage"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AdminConfig holds the admin HTTP listener settings (health and metrics).
type AdminConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// EngineConfig holds search engine connection settings.
type EngineConfig struct {
	Driver           string   `yaml:"driver"` // redis, meilisearch (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	Host             string   `yaml:"host"`
	APIKey           string   `yaml:"api_key"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CatalogConfig holds the PostgreSQL catalog settings.
type CatalogConfig struct {
	DSN string `yaml:"dsn"`
}

// IndexConfig holds index build settings.
type IndexConfig struct {
	Name               string `yaml:"name"`
	SliceSize          int    `yaml:"slice_size"`
	RebuildIntervalSec int    `yaml:"rebuild_interval_sec"` // 0 = build once at startup
	ShuffleScanSize    int    `yaml:"shuffle_scan_size"`
}

// SearchConfig holds query defaults.
type SearchConfig struct {
	DefaultSeed string `yaml:"default_seed"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// KafkaConfig holds the studio change-event consumer settings.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	GroupID string   `yaml:"group_id"`
	Topic   string   `yaml:"topic"`
	// BatchSize caps how many events are folded into one update call.
	BatchSize int `yaml:"batch_size"`
	// FlushMs is the longest an event waits for its batch to fill.
	FlushMs int `yaml:"flush_ms"`
}

// Enabled reports whether the consumer is configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.Topic != ""
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Admin.Port == 0 {
		c.Admin.Port = 9090
	}
	if c.Admin.ReadTimeoutSec <= 0 {
		c.Admin.ReadTimeoutSec = 10
	}
	if c.Admin.WriteTimeoutSec <= 0 {
		c.Admin.WriteTimeoutSec = 10
	}
	if c.Admin.ShutdownSec <= 0 {
		c.Admin.ShutdownSec = 10
	}
	if c.Engine.Driver == "" {
		c.Engine.Driver = DriverRedis
	}
	if c.Engine.ReadinessTimeout <= 0 {
		c.Engine.ReadinessTimeout = 10
	}
	if c.Index.Name == "" {
		c.Index.Name = "studios"
	}
	if c.Index.SliceSize <= 0 {
		c.Index.SliceSize = 5000
	}
	if c.Index.ShuffleScanSize <= 0 {
		c.Index.ShuffleScanSize = 1000
	}
	if c.Search.DefaultSeed == "" {
		c.Search.DefaultSeed = "default"
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "studiodex:"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "studiodex-indexer"
	}
	if c.Kafka.BatchSize <= 0 {
		c.Kafka.BatchSize = 100
	}
	if c.Kafka.FlushMs <= 0 {
		c.Kafka.FlushMs = 500
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Admin.Port <= 0 || c.Admin.Port > 65535 {
		return fmt.Errorf("admin.port must be between 1 and 65535, got %d", c.Admin.Port)
	}
	switch c.Engine.Driver {
	case DriverRedis:
		if len(c.Engine.Addrs) == 0 {
			return fmt.Errorf("engine.addrs is required for driver %q", DriverRedis)
		}
	case DriverMeilisearch:
		if c.Engine.Host == "" {
			return fmt.Errorf("engine.host is required for driver %q", DriverMeilisearch)
		}
	default:
		return fmt.Errorf("engine.driver must be %q or %q, got %q", DriverRedis, DriverMeilisearch, c.Engine.Driver)
	}
	if c.Catalog.DSN == "" {
		return fmt.Errorf("catalog.dsn is required")
	}
	if strings.ContainsAny(c.Index.Name, " {}|*") {
		return fmt.Errorf("index.name contains invalid characters: %q", c.Index.Name)
	}
	if c.Index.RebuildIntervalSec < 0 {
		return fmt.Errorf("index.rebuild_interval_sec must be non-negative, got %d", c.Index.RebuildIntervalSec)
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when kafka.brokers is set")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
