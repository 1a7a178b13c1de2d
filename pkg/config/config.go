// Package config loads and validates application configuration from YAML
// files with environment-variable overrides. It provides typed structs for
// every subsystem (Server, Catalog, Search, Fields, Kafka, Logging, Metrics).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Search  SearchConfig  `yaml:"search"`
	Fields  []Field       `yaml:"fields"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// CatalogConfig selects and configures the document source the index is
// built from: a JSON file for local development or a Postgres table.
type CatalogConfig struct {
	Source   string         `yaml:"source"` // "file" or "postgres"
	FilePath string         `yaml:"filePath"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL connection parameters for the catalog
// source.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	Table           string        `yaml:"table"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// SearchConfig controls query execution defaults and the result cache.
type SearchConfig struct {
	DefaultLimit      int           `yaml:"defaultLimit"`
	MaxResults        int           `yaml:"maxResults"`
	MinScore          float64       `yaml:"minScore"`
	CacheTTL          time.Duration `yaml:"cacheTTL"`
	AutocompleteLimit int           `yaml:"autocompleteLimit"`
}

// Field declares one indexed record field: its name, relative weight, and
// tokenization class ("name", "attribute", or "text"). Fields are visited
// in declaration order during indexing.
type Field struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
	Class  string  `yaml:"class"`
}

// KafkaConfig holds Kafka broker and topic settings for catalog-change
// notifications.
type KafkaConfig struct {
	Enabled       bool        `yaml:"enabled"`
	Brokers       []string    `yaml:"brokers"`
	ConsumerGroup string      `yaml:"consumerGroup"`
	Topics        KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	CatalogChanged string `yaml:"catalogChanged"`
	IndexRebuilt   string `yaml:"indexRebuilt"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment
// variable overrides. It returns a Config populated with sensible defaults
// for any missing values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultFields is the catalog field weight table. Name-like fields carry
// the highest weight, controlled-vocabulary trait fields sit in the middle,
// and free-text description contributes the least per occurrence.
func DefaultFields() []Field {
	return []Field{
		{Name: "name", Weight: 5.0, Class: "name"},
		{Name: "species", Weight: 4.0, Class: "name"},
		{Name: "temperament", Weight: 3.0, Class: "attribute"},
		{Name: "care_level", Weight: 2.5, Class: "attribute"},
		{Name: "diet", Weight: 2.0, Class: "attribute"},
		{Name: "description", Weight: 1.0, Class: "text"},
	}
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Catalog: CatalogConfig{
			Source:   "file",
			FilePath: "data/species.json",
			Postgres: PostgresConfig{
				Host:            "localhost",
				Port:            5432,
				Database:        "aquadex",
				User:            "aquadex",
				Password:        "localdev",
				SSLMode:         "disable",
				Table:           "species",
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
			},
		},
		Search: SearchConfig{
			DefaultLimit:      100,
			MaxResults:        500,
			MinScore:          0.01,
			CacheTTL:          30 * time.Minute,
			AutocompleteLimit: 10,
		},
		Fields: DefaultFields(),
		Kafka: KafkaConfig{
			Enabled:       false,
			Brokers:       []string{"localhost:9092"},
			ConsumerGroup: "aquadex-group",
			Topics: KafkaTopics{
				CatalogChanged: "catalog-changed",
				IndexRebuilt:   "index-rebuilt",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
	}
}

func validate(cfg *Config) error {
	switch cfg.Catalog.Source {
	case "file", "postgres":
	default:
		return fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
	for _, f := range cfg.Fields {
		if f.Weight <= 0 {
			return fmt.Errorf("field %q has non-positive weight %v", f.Name, f.Weight)
		}
		switch f.Class {
		case "name", "attribute", "text":
		default:
			return fmt.Errorf("field %q has unknown class %q", f.Name, f.Class)
		}
	}
	return nil
}

// applyEnvOverrides reads AQ_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AQ_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("AQ_CATALOG_SOURCE"); v != "" {
		cfg.Catalog.Source = v
	}
	if v := os.Getenv("AQ_CATALOG_FILE"); v != "" {
		cfg.Catalog.FilePath = v
	}
	if v := os.Getenv("AQ_POSTGRES_HOST"); v != "" {
		cfg.Catalog.Postgres.Host = v
	}
	if v := os.Getenv("AQ_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Catalog.Postgres.Port = port
		}
	}
	if v := os.Getenv("AQ_POSTGRES_DATABASE"); v != "" {
		cfg.Catalog.Postgres.Database = v
	}
	if v := os.Getenv("AQ_POSTGRES_USER"); v != "" {
		cfg.Catalog.Postgres.User = v
	}
	if v := os.Getenv("AQ_POSTGRES_PASSWORD"); v != "" {
		cfg.Catalog.Postgres.Password = v
	}
	if v := os.Getenv("AQ_POSTGRES_SSLMODE"); v != "" {
		cfg.Catalog.Postgres.SSLMode = v
	}
	if v := os.Getenv("AQ_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
		cfg.Kafka.Enabled = true
	}
	if v := os.Getenv("AQ_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("AQ_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
