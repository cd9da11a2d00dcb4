// Package config loads classgraph settings from YAML, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Neo4j struct {
		URI       string `yaml:"uri"`
		User      string `yaml:"user"`
		Password  string `yaml:"password"`
		Database  string `yaml:"database"`
		BatchSize int    `yaml:"batch_size"`
	} `yaml:"neo4j"`
	Scan struct {
		Rules     string `yaml:"rules"`
		Catalog   string `yaml:"catalog"`
		RootType  string `yaml:"root_type"`
		Workers   int    `yaml:"workers"`
		CacheSize int    `yaml:"cache_size"` // closure cache entries
	} `yaml:"scan"`
	Output struct {
		Dir     string `yaml:"dir"`
		Metrics string `yaml:"metrics"` // Prometheus text file, empty to skip
	} `yaml:"output"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{LogLevel: "info"}
	cfg.Neo4j.URI = "bolt://localhost:7687"
	cfg.Neo4j.User = "neo4j"
	cfg.Neo4j.BatchSize = 1000
	cfg.Scan.RootType = "java.lang.Object"
	cfg.Scan.Workers = 4
	cfg.Scan.CacheSize = 4096
	cfg.Output.Dir = "output"
	return cfg
}

// Load reads path over the defaults, then applies .env and CLASSGRAPH_*
// variables. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	// .env is optional
	_ = godotenv.Load()

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"CLASSGRAPH_NEO4J_URI":      &c.Neo4j.URI,
		"CLASSGRAPH_NEO4J_USER":     &c.Neo4j.User,
		"CLASSGRAPH_NEO4J_PASSWORD": &c.Neo4j.Password,
		"CLASSGRAPH_NEO4J_DATABASE": &c.Neo4j.Database,
		"CLASSGRAPH_RULES":          &c.Scan.Rules,
		"CLASSGRAPH_CATALOG":        &c.Scan.Catalog,
		"CLASSGRAPH_ROOT_TYPE":      &c.Scan.RootType,
		"CLASSGRAPH_OUTPUT_DIR":     &c.Output.Dir,
		"CLASSGRAPH_METRICS_FILE":   &c.Output.Metrics,
		"CLASSGRAPH_LOG_LEVEL":      &c.LogLevel,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	ints := map[string]*int{
		"CLASSGRAPH_NEO4J_BATCH_SIZE": &c.Neo4j.BatchSize,
		"CLASSGRAPH_WORKERS":          &c.Scan.Workers,
		"CLASSGRAPH_CACHE_SIZE":       &c.Scan.CacheSize,
	}
	for key, dst := range ints {
		v := getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}
	return nil
}

// Validate checks settings shared by all commands.
func (c *Config) Validate() error {
	var errs []error
	if c.Scan.Workers < 1 {
		errs = append(errs, errors.New("scan.workers must be at least 1"))
	}
	if c.Scan.CacheSize < 0 {
		errs = append(errs, errors.New("scan.cache_size must not be negative"))
	}
	if c.Neo4j.BatchSize < 1 {
		errs = append(errs, errors.New("neo4j.batch_size must be at least 1"))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}
