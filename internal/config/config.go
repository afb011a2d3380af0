package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/wfextract/core/canon"
	"github.com/leofalp/wfextract/core/pipeline"
	"github.com/leofalp/wfextract/core/recovery"
	"github.com/leofalp/wfextract/providers/observability"
	"github.com/leofalp/wfextract/providers/observability/slogobs"
)

// EnvPrefix prefixes every environment variable read by [Config.ApplyEnv].
const EnvPrefix = "WFEXTRACT_"

// Config is the complete wfextract configuration.
type Config struct {
	// Marker separates thoughts from payload. An empty marker disables the
	// marker path.
	Marker      string `yaml:"marker"`
	LabelPrefix string `yaml:"label_prefix"`

	GraphKey    string `yaml:"graph_key"`
	MetadataKey string `yaml:"metadata_key"`

	// Lenient enables jsonrepair on payloads that fail strict parsing.
	Lenient bool `yaml:"lenient"`

	// MaxBufferBytes caps the size of a single stream. Zero is unlimited.
	MaxBufferBytes int `yaml:"max_buffer_bytes"`

	// Strategies lists the recovery strategies by name, in order. Empty
	// means the built-in order.
	Strategies []string `yaml:"strategies"`

	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Server  ServerConfig  `yaml:"server"`
}

// LoggingConfig configures the slog observer.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Marker:      pipeline.DefaultMarker,
		LabelPrefix: pipeline.DefaultLabelPrefix,
		GraphKey:    canon.DefaultGraphKey,
		MetadataKey: canon.DefaultMetadataKey,
		Logging: LoggingConfig{
			Level:  "warn",
			Format: string(slogobs.FormatCompact),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads a YAML file over the defaults and applies the environment. A
// missing file is not an error. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadEnvFiles loads the given .env files into the process environment,
// skipping files that do not exist. Variables already set are kept.
func LoadEnvFiles(paths ...string) error {
	existing := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			existing = append(existing, path)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from WFEXTRACT_* variables. Setting
// WFEXTRACT_MARKER to the empty string disables the marker.
func (c *Config) ApplyEnv() error {
	if marker, ok := os.LookupEnv(EnvPrefix + "MARKER"); ok {
		c.Marker = marker
	}
	if label, ok := os.LookupEnv(EnvPrefix + "LABEL_PREFIX"); ok {
		c.LabelPrefix = label
	}
	if key := os.Getenv(EnvPrefix + "GRAPH_KEY"); key != "" {
		c.GraphKey = key
	}
	if key := os.Getenv(EnvPrefix + "METADATA_KEY"); key != "" {
		c.MetadataKey = key
	}

	if value := os.Getenv(EnvPrefix + "LENIENT"); value != "" {
		lenient, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %sLENIENT %q: %w", EnvPrefix, value, err)
		}
		c.Lenient = lenient
	}

	if value := os.Getenv(EnvPrefix + "MAX_BUFFER_BYTES"); value != "" {
		limit, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %sMAX_BUFFER_BYTES %q: %w", EnvPrefix, value, err)
		}
		c.MaxBufferBytes = limit
	}

	if value := os.Getenv(EnvPrefix + "STRATEGIES"); value != "" {
		c.Strategies = c.Strategies[:0]
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.Strategies = append(c.Strategies, name)
			}
		}
	}

	if level := os.Getenv(EnvPrefix + "LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv(EnvPrefix + "LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}
	if namespace := os.Getenv(EnvPrefix + "METRICS_NAMESPACE"); namespace != "" {
		c.Metrics.Namespace = namespace
	}
	if addr := os.Getenv(EnvPrefix + "SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}

	return nil
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	if c.GraphKey == "" || c.MetadataKey == "" {
		return errors.New("graph_key and metadata_key must not be empty")
	}
	if c.GraphKey == c.MetadataKey {
		return fmt.Errorf("graph_key and metadata_key must differ (both %q)", c.GraphKey)
	}
	if c.MaxBufferBytes < 0 {
		return fmt.Errorf("max_buffer_bytes must not be negative, got %d", c.MaxBufferBytes)
	}
	if _, err := c.strategies(); err != nil {
		return err
	}
	if _, err := slogobs.ParseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

func (c *Config) strategies() ([]recovery.Strategy, error) {
	if len(c.Strategies) == 0 {
		return recovery.DefaultStrategies(), nil
	}

	strategies := make([]recovery.Strategy, 0, len(c.Strategies))
	for _, name := range c.Strategies {
		strategy, ok := recovery.StrategyByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown recovery strategy %q", name)
		}
		strategies = append(strategies, strategy)
	}
	return strategies, nil
}

// Canonicalizer builds the canonicalizer described by the configuration.
func (c *Config) Canonicalizer() *canon.Canonicalizer {
	return canon.New(
		canon.WithGraphKey(c.GraphKey),
		canon.WithMetadataKey(c.MetadataKey),
		canon.WithLenientSyntax(c.Lenient),
	)
}

// PipelineOptions converts the configuration into pipeline options.
func (c *Config) PipelineOptions() ([]pipeline.Option, error) {
	strategies, err := c.strategies()
	if err != nil {
		return nil, err
	}

	return []pipeline.Option{
		pipeline.WithMarker(c.Marker),
		pipeline.WithLabelPrefix(c.LabelPrefix),
		pipeline.WithCanonicalizer(c.Canonicalizer()),
		pipeline.WithStrategies(strategies...),
		pipeline.WithMaxBufferBytes(c.MaxBufferBytes),
	}, nil
}

// Observer builds a slog observer writing to output with the configured
// level and format.
func (c *Config) Observer(output io.Writer) observability.Provider {
	level, _ := slogobs.ParseLogLevel(c.Logging.Level)
	return slogobs.New(
		slogobs.WithOutput(output),
		slogobs.WithLevel(level),
		slogobs.WithFormat(slogobs.ParseFormat(c.Logging.Format)),
	)
}
