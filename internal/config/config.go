// Package config loads posbound settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"

	"posbound/internal/logging"
)

// Output formats.
const (
	OutputASCII    = "ascii"
	OutputMarkdown = "markdown"
	OutputJSON     = "json"
)

// Config holds every setting the CLI understands.
type Config struct {
	// Workers is the number of goroutines evaluating speed intervals.
	Workers int `yaml:"workers"`
	// Database is an agent database file; empty uses the bundled one.
	Database string `yaml:"database"`
	// Cache is a SQLite file for computed bounds; empty disables caching.
	Cache string `yaml:"cache"`
	// Output is ascii, markdown or json.
	Output    string `yaml:"output"`
	SentryDSN string `yaml:"sentry_dsn"`
	Log       Log    `yaml:"log"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Workers: runtime.GOMAXPROCS(0),
		Output:  OutputASCII,
		Log:     Log{Level: "info", Format: "text"},
	}
}

// LoadFromPath reads a YAML config file on top of Default.
func LoadFromPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Load(data)
}

// Load parses YAML on top of Default. Keys missing from data keep their defaults.
func Load(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config yaml: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from POSBOUND_* variables looked up with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("POSBOUND_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("POSBOUND_WORKERS: %w", err)
		}
		c.Workers = n
	}
	for name, field := range map[string]*string{
		"POSBOUND_DATABASE":   &c.Database,
		"POSBOUND_CACHE":      &c.Cache,
		"POSBOUND_OUTPUT":     &c.Output,
		"POSBOUND_SENTRY_DSN": &c.SentryDSN,
		"POSBOUND_LOG_LEVEL":  &c.Log.Level,
		"POSBOUND_LOG_FORMAT": &c.Log.Format,
	} {
		if v := getenv(name); v != "" {
			*field = v
		}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch c.Output {
	case OutputASCII, OutputMarkdown, OutputJSON:
	default:
		return fmt.Errorf("unknown output format %q (want ascii, markdown or json)", c.Output)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}
